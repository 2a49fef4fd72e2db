package models

import "time"

// GameResult is the final record of a finished game
type GameResult struct {
	SessionID string    `json:"sessionID"`
	GridSize  int       `json:"gridSize"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Ticks     int64     `json:"ticks"`
	EndedAt   time.Time `json:"endedAt"`
}
