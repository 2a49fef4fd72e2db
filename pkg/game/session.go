package game

import (
	"context"
	"time"

	"github.com/cbodonnell/snake/pkg/game/rules"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/repositories/models"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/workers"
	"github.com/google/uuid"
)

// Session runs one game. Its state is owned by the goroutine running Start;
// everyone else talks to it through the command queue and reads snapshots
// from the state manager.
type Session struct {
	id                 uuid.UUID
	gridSize           int
	rng                rules.RandomSource
	commandQueue       queue.Queue
	stateManager       state.StateManager
	broadcastChan      chan<- workers.BroadcastMessage
	saveGameResultChan chan<- workers.SaveGameResultRequest
	tickInterval       time.Duration
	logger             *log.Logger

	gameState types.GameState
	tick      int64
}

type NewSessionOptions struct {
	ID                 uuid.UUID
	GridSize           int
	RandomSource       rules.RandomSource
	CommandQueue       queue.Queue
	StateManager       state.StateManager
	BroadcastChan      chan<- workers.BroadcastMessage
	SaveGameResultChan chan<- workers.SaveGameResultRequest
	TickInterval       time.Duration
}

// NewSession creates a session with a freshly initialized game.
func NewSession(opts NewSessionOptions) *Session {
	return &Session{
		id:                 opts.ID,
		gridSize:           opts.GridSize,
		rng:                opts.RandomSource,
		commandQueue:       opts.CommandQueue,
		stateManager:       opts.StateManager,
		broadcastChan:      opts.BroadcastChan,
		saveGameResultChan: opts.SaveGameResultChan,
		tickInterval:       opts.TickInterval,
		logger:             log.With("session", opts.ID.String()),
		gameState:          rules.Initialize(opts.GridSize, opts.RandomSource),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Start runs the game loop until ctx is done.
func (s *Session) Start(ctx context.Context) {
	s.publish(ctx, time.Now())

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.gameTick(ctx, t)
		}
	}
}

// gameTick runs one iteration of the game loop.
func (s *Session) gameTick(ctx context.Context, t time.Time) {
	applied := s.processCommands()

	before := s.gameState
	// a finished game only changes through commands
	if before.IsGameOver && applied == 0 {
		return
	}
	s.gameState = rules.AdvanceTick(before, s.rng)
	result := rules.DescribeTick(before, s.gameState)

	if !before.IsPaused && !before.IsGameOver {
		s.tick++
	}
	if result.AteFood && s.gameState.Food == nil {
		s.logger.Info("Board full with score %d", s.gameState.Score)
	}

	s.publish(ctx, t)

	if result.GameOver && !before.IsGameOver {
		s.logger.Info("Game over after %d ticks with score %d", s.tick, s.gameState.Score)
		s.finishGame(t)
	}
}

// processCommands applies all pending commands in arrival order and returns how many it applied.
func (s *Session) processCommands() int {
	pendingCommands, err := s.commandQueue.ReadAllMessages()
	if err != nil {
		s.logger.Error("Failed to read commands: %v", err)
		return 0
	}
	applied := 0
	for _, item := range pendingCommands {
		switch command := item.(type) {
		case types.DirectionCommand:
			s.gameState = rules.SetPendingDirection(s.gameState, command.Direction)
		case types.PauseCommand:
			s.gameState = rules.SetPaused(s.gameState, command.Paused)
		case types.RestartCommand:
			s.gameState = rules.Initialize(s.gridSize, s.rng)
			s.tick = 0
			s.logger.Debug("Game restarted")
		default:
			s.logger.Error("Unhandled command type: %T", command)
			continue
		}
		applied++
	}
	return applied
}

// publish stores the current snapshot and queues it for broadcast.
func (s *Session) publish(ctx context.Context, t time.Time) {
	if err := s.stateManager.Set(ctx, s.id, s.gameState); err != nil {
		s.logger.Error("Failed to set game state: %v", err)
	}

	s.broadcast(workers.BroadcastMessage{
		SessionID: s.id,
		Type:      messages.MessageTypeServerGameUpdate,
		Message: &messages.ServerGameUpdate{
			SessionID: s.id.String(),
			Timestamp: t.UnixMilli(),
			Tick:      s.tick,
			State:     s.gameState.Clone(),
		},
	})
}

func (s *Session) finishGame(t time.Time) {
	s.broadcast(workers.BroadcastMessage{
		SessionID: s.id,
		Type:      messages.MessageTypeServerGameOver,
		Message: &messages.ServerGameOver{
			SessionID: s.id.String(),
			Score:     s.gameState.Score,
			Length:    len(s.gameState.Snake),
			Ticks:     s.tick,
		},
	})

	saveRequest := workers.SaveGameResultRequest{
		Result: &models.GameResult{
			SessionID: s.id.String(),
			GridSize:  s.gridSize,
			Score:     s.gameState.Score,
			Length:    len(s.gameState.Snake),
			Ticks:     s.tick,
			EndedAt:   t.UTC(),
		},
	}
	select {
	case s.saveGameResultChan <- saveRequest:
	default:
		s.logger.Warn("Save channel full, dropping result with score %d", s.gameState.Score)
	}
}

// broadcast never blocks the game loop
func (s *Session) broadcast(msg workers.BroadcastMessage) {
	select {
	case s.broadcastChan <- msg:
	default:
		s.logger.Warn("Broadcast channel full, dropping %s message", msg.Type)
	}
}
