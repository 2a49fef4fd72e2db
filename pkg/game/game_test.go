package game

import (
	"context"
	"errors"
	"testing"
	"time"

	mocks "github.com/cbodonnell/snake/mocks/github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/rules"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/workers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSession struct {
	session     *Session
	queue       *mocks.MockQueue
	state       state.StateManager
	broadcasts  chan workers.BroadcastMessage
	saveResults chan workers.SaveGameResultRequest
}

// newTestSession starts a 5x5 game with the snake on row 2 facing right and food at (0,0).
func newTestSession(t *testing.T) *testSession {
	ts := &testSession{
		queue:       mocks.NewMockQueue(t),
		state:       state.NewInMemoryStateManager(),
		broadcasts:  make(chan workers.BroadcastMessage, 16),
		saveResults: make(chan workers.SaveGameResultRequest, 16),
	}
	ts.session = NewSession(NewSessionOptions{
		ID:                 uuid.New(),
		GridSize:           5,
		RandomSource:       rules.NewSequenceRandomSource(0),
		CommandQueue:       ts.queue,
		StateManager:       ts.state,
		BroadcastChan:      ts.broadcasts,
		SaveGameResultChan: ts.saveResults,
		TickInterval:       time.Hour,
	})
	return ts
}

func TestSession_processCommands(t *testing.T) {
	tests := []struct {
		name        string
		commands    []interface{}
		wantApplied int
		check       func(t *testing.T, s *Session)
	}{
		{
			name:        "no commands",
			commands:    []interface{}{},
			wantApplied: 0,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, types.DirectionRight, s.gameState.NextDirection)
			},
		},
		{
			name:        "last direction wins",
			commands:    []interface{}{types.DirectionCommand{Direction: types.DirectionUp}, types.DirectionCommand{Direction: types.DirectionDown}},
			wantApplied: 2,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, types.DirectionDown, s.gameState.NextDirection)
			},
		},
		{
			name:        "reversal ignored",
			commands:    []interface{}{types.DirectionCommand{Direction: types.DirectionLeft}},
			wantApplied: 1,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, types.DirectionRight, s.gameState.NextDirection)
			},
		},
		{
			name:        "pause",
			commands:    []interface{}{types.PauseCommand{Paused: true}},
			wantApplied: 1,
			check: func(t *testing.T, s *Session) {
				assert.True(t, s.gameState.IsPaused)
			},
		},
		{
			name:        "restart after turning",
			commands:    []interface{}{types.DirectionCommand{Direction: types.DirectionUp}, types.RestartCommand{}},
			wantApplied: 2,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, rules.Initialize(5, rules.NewSequenceRandomSource(0)), s.gameState)
				assert.Equal(t, int64(0), s.tick)
			},
		},
		{
			name:        "unknown commands are skipped",
			commands:    []interface{}{"bogus", types.DirectionCommand{Direction: types.DirectionUp}},
			wantApplied: 1,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, types.DirectionUp, s.gameState.NextDirection)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSession(t)
			ts.queue.EXPECT().ReadAllMessages().Return(tt.commands, nil).Once()
			assert.Equal(t, tt.wantApplied, ts.session.processCommands())
			tt.check(t, ts.session)
		})
	}
}

func TestSession_processCommands_readError(t *testing.T) {
	ts := newTestSession(t)
	before := ts.session.gameState
	ts.queue.EXPECT().ReadAllMessages().Return(nil, errors.New("boom")).Once()
	ts.session.processCommands()
	assert.Equal(t, before, ts.session.gameState)
}

func TestSession_gameTick(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t)
	now := time.UnixMilli(1718000000000)

	ts.queue.EXPECT().ReadAllMessages().Return([]interface{}{}, nil).Once()
	ts.session.gameTick(ctx, now)

	stored, err := ts.state.Get(ctx, ts.session.ID())
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: 3, Y: 2}, stored.Head())
	assert.Equal(t, int64(1), ts.session.tick)

	msg := <-ts.broadcasts
	assert.Equal(t, messages.MessageTypeServerGameUpdate, msg.Type)
	update, ok := msg.Message.(*messages.ServerGameUpdate)
	require.True(t, ok)
	assert.Equal(t, int64(1), update.Tick)
	assert.Equal(t, now.UnixMilli(), update.Timestamp)
	assert.Equal(t, stored, update.State)
	assert.Empty(t, ts.saveResults)
}

func TestSession_gameTick_gameOverIsSavedOnce(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t)
	now := time.UnixMilli(1718000000000)

	// (3,2), (4,2), then the wall
	ts.queue.EXPECT().ReadAllMessages().Return([]interface{}{}, nil).Times(5)
	for i := 0; i < 5; i++ {
		ts.session.gameTick(ctx, now)
	}

	require.True(t, ts.session.gameState.IsGameOver)
	assert.Equal(t, int64(3), ts.session.tick)
	require.Len(t, ts.saveResults, 1)
	saveRequest := <-ts.saveResults
	assert.Equal(t, ts.session.ID().String(), saveRequest.Result.SessionID)
	assert.Equal(t, 5, saveRequest.Result.GridSize)
	assert.Equal(t, 3, saveRequest.Result.Length)
	assert.Equal(t, int64(3), saveRequest.Result.Ticks)

	var gameOvers int
	for len(ts.broadcasts) > 0 {
		if msg := <-ts.broadcasts; msg.Type == messages.MessageTypeServerGameOver {
			gameOvers++
		}
	}
	assert.Equal(t, 1, gameOvers)
}

func TestSession_gameTick_finishedGameIsQuiet(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t)
	now := time.UnixMilli(1718000000000)

	ts.queue.EXPECT().ReadAllMessages().Return([]interface{}{}, nil).Times(5)
	for i := 0; i < 5; i++ {
		ts.session.gameTick(ctx, now)
	}
	require.True(t, ts.session.gameState.IsGameOver)
	for len(ts.broadcasts) > 0 {
		<-ts.broadcasts
	}

	ts.queue.EXPECT().ReadAllMessages().Return([]interface{}{}, nil).Times(3)
	for i := 0; i < 3; i++ {
		ts.session.gameTick(ctx, now)
	}
	assert.Empty(t, ts.broadcasts)
	assert.Equal(t, int64(3), ts.session.tick)

	ts.queue.EXPECT().ReadAllMessages().Return([]interface{}{types.RestartCommand{}}, nil).Once()
	ts.session.gameTick(ctx, now)

	require.Len(t, ts.broadcasts, 1)
	msg := <-ts.broadcasts
	assert.Equal(t, messages.MessageTypeServerGameUpdate, msg.Type)
	update, ok := msg.Message.(*messages.ServerGameUpdate)
	require.True(t, ok)
	assert.False(t, update.State.IsGameOver)
	assert.Equal(t, int64(1), update.Tick)
}

func TestSession_gameTick_pausedDoesNotCount(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t)
	before := ts.session.gameState

	ts.queue.EXPECT().ReadAllMessages().Return([]interface{}{types.PauseCommand{Paused: true}}, nil).Once()
	ts.session.gameTick(ctx, time.Now())

	assert.Equal(t, int64(0), ts.session.tick)
	assert.Equal(t, before.Snake, ts.session.gameState.Snake)
}

func newTestGameManager() *GameManager {
	return NewGameManager(NewGameManagerOptions{
		StateManager:       state.NewInMemoryStateManager(),
		BroadcastChan:      make(chan workers.BroadcastMessage, 16),
		SaveGameResultChan: make(chan workers.SaveGameResultRequest, 16),
		TickInterval:       time.Hour,
	})
}

func TestGameManager_NewSession(t *testing.T) {
	tests := []struct {
		name     string
		gridSize int
		wantErr  error
		wantGrid int
	}{
		{name: "default grid", gridSize: 0, wantGrid: constants.DefaultGridSize},
		{name: "smallest grid", gridSize: constants.MinGridSize, wantGrid: constants.MinGridSize},
		{name: "too small", gridSize: constants.MinGridSize - 1, wantErr: ErrGridTooSmall},
		{name: "tail off the board", gridSize: 3, wantErr: ErrGridTooSmall},
		{name: "too large", gridSize: constants.MaxGridSize + 1, wantErr: ErrGridTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			gm := newTestGameManager()
			defer gm.StopAll()

			id, err := gm.NewSession(ctx, CreateSessionOptions{GridSize: tt.gridSize})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, gm.Sessions())
				return
			}
			require.NoError(t, err)

			gameState, err := gm.GetState(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGrid, gameState.GridSize)
			assert.Len(t, gameState.Snake, constants.InitialSnakeLength)
			for _, cell := range gameState.Snake {
				assert.True(t, gameState.InBounds(cell), "cell %s off the grid", cell)
			}
		})
	}
}

func TestGameManager_NewSession_configuredDefaultGrid(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(NewGameManagerOptions{
		StateManager:       state.NewInMemoryStateManager(),
		BroadcastChan:      make(chan workers.BroadcastMessage, 16),
		SaveGameResultChan: make(chan workers.SaveGameResultRequest, 16),
		TickInterval:       time.Hour,
		DefaultGridSize:    30,
	})
	defer gm.StopAll()

	id, err := gm.NewSession(ctx, CreateSessionOptions{})
	require.NoError(t, err)
	gameState, err := gm.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, gameState.GridSize)

	id, err = gm.NewSession(ctx, CreateSessionOptions{GridSize: 8})
	require.NoError(t, err)
	gameState, err = gm.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 8, gameState.GridSize)
}

func TestGameManager_seededSessionsMatch(t *testing.T) {
	ctx := context.Background()
	gm := newTestGameManager()
	defer gm.StopAll()

	seed := int64(99)
	a, err := gm.NewSession(ctx, CreateSessionOptions{GridSize: 10, Seed: &seed})
	require.NoError(t, err)
	b, err := gm.NewSession(ctx, CreateSessionOptions{GridSize: 10, Seed: &seed})
	require.NoError(t, err)

	stateA, err := gm.GetState(ctx, a)
	require.NoError(t, err)
	stateB, err := gm.GetState(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, stateA, stateB)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, gm.Sessions())
}

func TestGameManager_EnqueueAndStop(t *testing.T) {
	ctx := context.Background()
	gm := newTestGameManager()
	defer gm.StopAll()

	id, err := gm.NewSession(ctx, CreateSessionOptions{})
	require.NoError(t, err)

	assert.NoError(t, gm.Enqueue(id, types.DirectionCommand{Direction: types.DirectionUp}))
	assert.ErrorIs(t, gm.Enqueue(uuid.New(), types.RestartCommand{}), ErrSessionNotFound)

	require.NoError(t, gm.StopSession(ctx, id))
	assert.ErrorIs(t, gm.StopSession(ctx, id), ErrSessionNotFound)
	assert.ErrorIs(t, gm.Enqueue(id, types.RestartCommand{}), ErrSessionNotFound)

	_, err = gm.GetState(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, gm.Sessions())
}

func TestGameManager_sessionTicks(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(NewGameManagerOptions{
		StateManager:       state.NewInMemoryStateManager(),
		BroadcastChan:      make(chan workers.BroadcastMessage, 64),
		SaveGameResultChan: make(chan workers.SaveGameResultRequest, 16),
		TickInterval:       5 * time.Millisecond,
	})
	defer gm.StopAll()

	id, err := gm.NewSession(ctx, CreateSessionOptions{GridSize: 20, RandomSource: rules.NewSequenceRandomSource(0.5)})
	require.NoError(t, err)
	initial, err := gm.GetState(ctx, id)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		current, err := gm.GetState(ctx, id)
		return err == nil && current.Head() != initial.Head()
	}, time.Second, 5*time.Millisecond)
}
