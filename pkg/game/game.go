package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/rules"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/workers"
	"github.com/google/uuid"
)

var (
	ErrGridTooSmall    = fmt.Errorf("grid size must be at least %d", constants.MinGridSize)
	ErrGridTooLarge    = fmt.Errorf("grid size must be at most %d", constants.MaxGridSize)
	ErrSessionNotFound = errors.New("session not found")
)

type runningSession struct {
	session *Session
	queue   queue.Queue
	cancel  context.CancelFunc
	done    chan struct{}
}

// GameManager creates, tracks and stops sessions.
type GameManager struct {
	ctx    context.Context
	cancel context.CancelFunc

	sessions     map[uuid.UUID]*runningSession
	sessionsLock sync.RWMutex

	stateManager       state.StateManager
	broadcastChan      chan<- workers.BroadcastMessage
	saveGameResultChan chan<- workers.SaveGameResultRequest
	tickInterval       time.Duration
	commandQueueSize   int
	defaultGridSize    int
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	StateManager       state.StateManager
	BroadcastChan      chan<- workers.BroadcastMessage
	SaveGameResultChan chan<- workers.SaveGameResultRequest
	TickInterval       time.Duration
	CommandQueueSize   int
	// DefaultGridSize is used for sessions created without a grid size
	DefaultGridSize int
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = constants.TickInterval
	}
	commandQueueSize := opts.CommandQueueSize
	if commandQueueSize <= 0 {
		commandQueueSize = constants.CommandQueueSize
	}
	defaultGridSize := opts.DefaultGridSize
	if defaultGridSize <= 0 {
		defaultGridSize = constants.DefaultGridSize
	}

	// sessions outlive the requests that create them
	ctx, cancel := context.WithCancel(context.Background())
	return &GameManager{
		ctx:                ctx,
		cancel:             cancel,
		sessions:           make(map[uuid.UUID]*runningSession),
		stateManager:       opts.StateManager,
		broadcastChan:      opts.BroadcastChan,
		saveGameResultChan: opts.SaveGameResultChan,
		tickInterval:       tickInterval,
		commandQueueSize:   commandQueueSize,
		defaultGridSize:    defaultGridSize,
	}
}

// CreateSessionOptions configures a new session. A zero GridSize uses the manager's default.
// RandomSource takes precedence over Seed; with neither the session is time-seeded.
type CreateSessionOptions struct {
	GridSize     int
	Seed         *int64
	RandomSource rules.RandomSource
}

// NewSession validates the options, then creates and starts a session.
// The first snapshot is stored before NewSession returns.
func (gm *GameManager) NewSession(ctx context.Context, opts CreateSessionOptions) (uuid.UUID, error) {
	gridSize := opts.GridSize
	if gridSize == 0 {
		gridSize = gm.defaultGridSize
	}
	if gridSize < constants.MinGridSize {
		return uuid.Nil, ErrGridTooSmall
	}
	if gridSize > constants.MaxGridSize {
		return uuid.Nil, ErrGridTooLarge
	}

	rng := opts.RandomSource
	if rng == nil {
		if opts.Seed != nil {
			rng = rules.NewRandomSource(*opts.Seed)
		} else {
			rng = rules.DefaultRandomSource()
		}
	}

	id := uuid.New()
	commandQueue := queue.NewInMemoryQueue(gm.commandQueueSize)
	session := NewSession(NewSessionOptions{
		ID:                 id,
		GridSize:           gridSize,
		RandomSource:       rng,
		CommandQueue:       commandQueue,
		StateManager:       gm.stateManager,
		BroadcastChan:      gm.broadcastChan,
		SaveGameResultChan: gm.saveGameResultChan,
		TickInterval:       gm.tickInterval,
	})
	if err := gm.stateManager.Set(ctx, id, session.gameState); err != nil {
		return uuid.Nil, fmt.Errorf("failed to set initial game state: %v", err)
	}

	sessionCtx, cancel := context.WithCancel(gm.ctx)
	running := &runningSession{
		session: session,
		queue:   commandQueue,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	gm.sessionsLock.Lock()
	gm.sessions[id] = running
	gm.sessionsLock.Unlock()

	go func() {
		defer close(running.done)
		session.Start(sessionCtx)
	}()

	log.Info("Session %s started on a %dx%d grid", id, gridSize, gridSize)
	return id, nil
}

// Enqueue queues a command for the next tick of a session.
func (gm *GameManager) Enqueue(sessionID uuid.UUID, command interface{}) error {
	gm.sessionsLock.RLock()
	running, ok := gm.sessions[sessionID]
	gm.sessionsLock.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	if err := running.queue.Enqueue(command); err != nil {
		return fmt.Errorf("failed to enqueue command: %w", err)
	}
	return nil
}

// GetState returns the latest snapshot of a session.
func (gm *GameManager) GetState(ctx context.Context, sessionID uuid.UUID) (types.GameState, error) {
	gameState, err := gm.stateManager.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, state.ErrStateNotFound) {
			return types.GameState{}, ErrSessionNotFound
		}
		return types.GameState{}, fmt.Errorf("failed to get game state: %v", err)
	}
	return gameState, nil
}

// StopSession stops a session and forgets its state.
func (gm *GameManager) StopSession(ctx context.Context, sessionID uuid.UUID) error {
	gm.sessionsLock.Lock()
	running, ok := gm.sessions[sessionID]
	delete(gm.sessions, sessionID)
	gm.sessionsLock.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	running.cancel()
	<-running.done

	if err := gm.stateManager.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete game state: %v", err)
	}

	log.Info("Session %s stopped", sessionID)
	return nil
}

// StopAll stops every session and waits for their loops to exit.
func (gm *GameManager) StopAll() {
	gm.cancel()

	gm.sessionsLock.Lock()
	sessions := gm.sessions
	gm.sessions = make(map[uuid.UUID]*runningSession)
	gm.sessionsLock.Unlock()

	for _, running := range sessions {
		<-running.done
	}
}

// Sessions returns the ids of the running sessions in a stable order.
func (gm *GameManager) Sessions() []uuid.UUID {
	gm.sessionsLock.RLock()
	defer gm.sessionsLock.RUnlock()

	ids := make([]uuid.UUID, 0, len(gm.sessions))
	for id := range gm.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
