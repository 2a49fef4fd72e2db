package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/network"
	"github.com/cbodonnell/snake/pkg/state"
)

type ConnectionEventWorker struct {
	clientEventChan <-chan network.ClientEvent
	stateManager    state.StateManager
	sender          MessageSender
}

type NewConnectionEventWorkerOptions struct {
	ClientEventChan <-chan network.ClientEvent
	StateManager    state.StateManager
	Sender          MessageSender
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker sends the latest snapshot of a session to clients as they connect
// so they can draw the board before the next tick.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		clientEventChan: opts.ClientEventChan,
		stateManager:    opts.StateManager,
		sender:          opts.Sender,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.clientEventChan:
			switch event.Type {
			case network.ClientEventTypeConnect:
				w.handleConnect(ctx, event)
			case network.ClientEventTypeDisconnect:
				log.Debug("Client %d left session %s", event.ClientID, event.SessionID)
			default:
				log.Error("Unknown client event type: %v", event.Type)
			}
		}
	}
}

func (w *ConnectionEventWorker) handleConnect(ctx context.Context, event network.ClientEvent) {
	gameState, err := w.stateManager.Get(ctx, event.SessionID)
	if err != nil {
		log.Error("Failed to get game state for session %s: %v", event.SessionID, err)
		return
	}

	// the tick counter lives in the session, the snapshot alone is enough to draw
	message, err := NewGameUpdateMessage(&messages.ServerGameUpdate{
		SessionID: event.SessionID.String(),
		Timestamp: time.Now().UnixMilli(),
		State:     gameState,
	})
	if err != nil {
		log.Error("Failed to create game update for client %d: %v", event.ClientID, err)
		return
	}

	if err := w.sender.SendMessageToClient(ctx, event.ClientID, message); err != nil {
		log.Error("Failed to send game state to client %d: %v", event.ClientID, err)
	}
}
