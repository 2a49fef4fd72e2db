package types

// GameState is a snapshot of a single snake game.
// Snapshots are never mutated after they are produced; every transition
// returns a new value.
type GameState struct {
	// GridSize is the side of the square grid, fixed for the session
	GridSize int `json:"gridSize"`
	// Snake holds the occupied cells, head first and tail last
	Snake []Point `json:"snake"`
	// Direction is the direction committed on the last tick
	Direction Direction `json:"direction"`
	// NextDirection is applied on the next tick
	NextDirection Direction `json:"nextDirection"`
	// Food is nil when no free cell is left on the grid
	Food       *Point `json:"food"`
	Score      int    `json:"score"`
	IsGameOver bool   `json:"isGameOver"`
	IsPaused   bool   `json:"isPaused"`
}

// Head returns the first cell of the snake.
func (g GameState) Head() Point {
	return g.Snake[0]
}

// Clone returns a deep copy of the game state.
func (g GameState) Clone() GameState {
	clone := g
	if g.Snake != nil {
		clone.Snake = make([]Point, len(g.Snake))
		copy(clone.Snake, g.Snake)
	}
	if g.Food != nil {
		food := *g.Food
		clone.Food = &food
	}
	return clone
}

// InBounds returns true if p lies on the grid.
func (g GameState) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.GridSize && p.Y < g.GridSize
}
