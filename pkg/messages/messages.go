package messages

import (
	gametypes "github.com/cbodonnell/snake/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 1 << 16
)

type MessageType byte

// Message types
const (
	MessageTypeClientPing MessageType = iota + 1
	MessageTypeServerPong
	MessageTypeClientSetDirection
	MessageTypeClientPause
	MessageTypeClientRestart
	MessageTypeServerGameUpdate
	MessageTypeServerGameOver
	MessageTypeServerError
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeClientPing:
		return "ping"
	case MessageTypeServerPong:
		return "pong"
	case MessageTypeClientSetDirection:
		return "csd"
	case MessageTypeClientPause:
		return "cp"
	case MessageTypeClientRestart:
		return "cr"
	case MessageTypeServerGameUpdate:
		return "sgu"
	case MessageTypeServerGameOver:
		return "sgo"
	case MessageTypeServerError:
		return "se"
	default:
		return "unknown"
	}
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	SessionID string      `json:"sessionID"`
	Type      MessageType `json:"type"`
	Payload   []byte      `json:"payload"`
}

// ClientSetDirection asks the session to turn on its next tick
type ClientSetDirection struct {
	Direction string `json:"direction"`
}

// ClientPause pauses or resumes the session
type ClientPause struct {
	Paused bool `json:"paused"`
}

// ClientRestart starts a fresh game in the same session
type ClientRestart struct{}

// ServerGameUpdate is sent to subscribers after every tick
type ServerGameUpdate struct {
	SessionID string
	// Timestamp is the time the tick ran, in milliseconds
	Timestamp int64
	Tick      int64
	State     gametypes.GameState
}

// ServerGameOver is sent once when a game ends
type ServerGameOver struct {
	SessionID string `json:"sessionID"`
	Score     int    `json:"score"`
	Length    int    `json:"length"`
	Ticks     int64  `json:"ticks"`
}

// ServerError reports a rejected client message
type ServerError struct {
	Reason string `json:"reason"`
}
