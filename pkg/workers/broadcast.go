package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/google/uuid"
)

// MessageSender delivers messages to the websocket clients of a session
type MessageSender interface {
	SendMessageToSession(ctx context.Context, sessionID uuid.UUID, msg *messages.Message)
	SendMessageToClient(ctx context.Context, clientID uint32, msg *messages.Message) error
}

type BroadcastMessageWorker struct {
	sender               MessageSender
	broadcastMessageChan <-chan BroadcastMessage
}

type BroadcastMessage struct {
	SessionID uuid.UUID
	Type      messages.MessageType
	Message   interface{}
}

type NewBroadcastMessageWorkerOptions struct {
	Sender               MessageSender
	BroadcastMessageChan <-chan BroadcastMessage
}

func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		sender:               opts.Sender,
		broadcastMessageChan: opts.BroadcastMessageChan,
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.broadcastMessageChan:
			switch msg.Type {
			case messages.MessageTypeServerGameUpdate:
				if err := w.handleServerGameUpdate(ctx, msg); err != nil {
					log.Error("Failed to handle server game update message: %v", err)
				}
			case messages.MessageTypeServerGameOver:
				if err := w.handleServerGameOver(ctx, msg); err != nil {
					log.Error("Failed to handle server game over message: %v", err)
				}
			default:
				log.Error("Unknown server message type: %v", msg.Type)
			}
		}
	}
}

func (w *BroadcastMessageWorker) handleServerGameUpdate(ctx context.Context, b BroadcastMessage) error {
	serverGameUpdate, ok := b.Message.(*messages.ServerGameUpdate)
	if !ok {
		return fmt.Errorf("failed to cast server game update message")
	}

	message, err := NewGameUpdateMessage(serverGameUpdate)
	if err != nil {
		return err
	}
	w.sender.SendMessageToSession(ctx, b.SessionID, message)

	return nil
}

func (w *BroadcastMessageWorker) handleServerGameOver(ctx context.Context, b BroadcastMessage) error {
	gameOver, ok := b.Message.(*messages.ServerGameOver)
	if !ok {
		return fmt.Errorf("failed to cast server game over message")
	}

	payload, err := json.Marshal(gameOver)
	if err != nil {
		return fmt.Errorf("failed to marshal game over message: %v", err)
	}

	msg := &messages.Message{
		SessionID: b.SessionID.String(),
		Type:      messages.MessageTypeServerGameOver,
		Payload:   payload,
	}
	w.sender.SendMessageToSession(ctx, b.SessionID, msg)

	return nil
}

// NewGameUpdateMessage wraps a serialized game update in a message envelope.
func NewGameUpdateMessage(update *messages.ServerGameUpdate) (*messages.Message, error) {
	payload, err := messages.SerializeGameState(update)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize game state: %v", err)
	}

	return &messages.Message{
		SessionID: update.SessionID,
		Type:      messages.MessageTypeServerGameUpdate,
		Payload:   payload,
	}, nil
}
