package types

// Commands are queued by clients and applied by a session at the start of its next tick.

type DirectionCommand struct {
	Direction Direction
}

type PauseCommand struct {
	Paused bool
}

type RestartCommand struct{}
