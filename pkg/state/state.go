package state

import (
	"context"
	"errors"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/google/uuid"
)

var ErrStateNotFound = errors.New("state not found")

// StateManager provides shared access to the latest snapshot of every session.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the current game state of a session.
	Get(ctx context.Context, sessionID uuid.UUID) (gametypes.GameState, error)
	// Set sets the current game state of a session.
	Set(ctx context.Context, sessionID uuid.UUID, gameState gametypes.GameState) error
	// Delete forgets a session.
	Delete(ctx context.Context, sessionID uuid.UUID) error
	// List returns the ids of all known sessions.
	List(ctx context.Context) ([]uuid.UUID, error)
}
