package state

import (
	"context"
	"fmt"
	"sort"
	"sync"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/google/uuid"
)

type InMemoryStateManager struct {
	lock       sync.RWMutex
	gameStates map[uuid.UUID]gametypes.GameState
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		gameStates: make(map[uuid.UUID]gametypes.GameState),
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context, sessionID uuid.UUID) (gametypes.GameState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	gameState, ok := m.gameStates[sessionID]
	if !ok {
		return gametypes.GameState{}, fmt.Errorf("session %s: %w", sessionID, ErrStateNotFound)
	}

	return gameState.Clone(), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, sessionID uuid.UUID, gameState gametypes.GameState) error {
	if sessionID == uuid.Nil {
		return fmt.Errorf("session id is nil")
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.gameStates[sessionID] = gameState.Clone()
	return nil
}

func (m *InMemoryStateManager) Delete(ctx context.Context, sessionID uuid.UUID) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.gameStates, sessionID)
	return nil
}

func (m *InMemoryStateManager) List(ctx context.Context) ([]uuid.UUID, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.gameStates))
	for id := range m.gameStates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	return ids, nil
}
