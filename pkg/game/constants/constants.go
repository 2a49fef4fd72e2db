package constants

import "time"

const (
	// DefaultGridSize is the side of the grid used when none is configured
	DefaultGridSize int = 20
	// MinGridSize is the smallest grid a session will be created with.
	// The starting snake runs left from the center cell, so its tail sits at
	// gridSize/2 - (InitialSnakeLength-1) and must not fall off the board.
	MinGridSize int = 2 * (InitialSnakeLength - 1)
	// MaxGridSize bounds the grid so a full board still fits in one message
	MaxGridSize int = 64
	// InitialSnakeLength is the number of cells the snake starts with
	InitialSnakeLength int = 3

	// TickInterval is the time between two ticks of a session
	TickInterval time.Duration = 140 * time.Millisecond

	// CommandQueueSize is the number of commands a session buffers between ticks
	CommandQueueSize int = 64
	// BroadcastChannelSize is the number of game updates buffered for broadcast
	BroadcastChannelSize int = 256
	// SaveResultChannelSize is the number of finished games buffered for saving
	SaveResultChannelSize int = 100
)
