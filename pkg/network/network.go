package network

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/google/uuid"
)

// DefaultWriteTimeout bounds a single write to a client
const DefaultWriteTimeout = 2 * time.Second

// CommandSink accepts commands for a session
type CommandSink interface {
	Enqueue(sessionID uuid.UUID, command interface{}) error
}

type NetworkManager struct {
	ClientManager *ClientManager
	Commands      CommandSink
	writeTimeout  time.Duration
}

type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	Commands      CommandSink
	WriteTimeout  time.Duration
}

func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	writeTimeout := options.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &NetworkManager{
		ClientManager: options.ClientManager,
		Commands:      options.Commands,
		writeTimeout:  writeTimeout,
	}
}

func (n *NetworkManager) handleClientMessage(ctx context.Context, clientID uint32, sessionID uuid.UUID, message *messages.Message) {
	var err error
	switch message.Type {
	case messages.MessageTypeClientPing:
		pong := &messages.Message{
			SessionID: sessionID.String(),
			Type:      messages.MessageTypeServerPong,
		}
		if err := n.SendMessageToClient(ctx, clientID, pong); err != nil {
			log.Error("Failed to write pong message to client %d: %v", clientID, err)
		}
		return
	case messages.MessageTypeClientSetDirection:
		err = n.handleClientSetDirection(sessionID, message)
	case messages.MessageTypeClientPause:
		err = n.handleClientPause(sessionID, message)
	case messages.MessageTypeClientRestart:
		err = n.Commands.Enqueue(sessionID, gametypes.RestartCommand{})
	default:
		err = fmt.Errorf("unsupported message type: %v", message.Type)
	}

	if err != nil {
		log.Warn("Rejected %s message from client %d: %v", message.Type, clientID, err)
		if err := n.sendServerError(ctx, clientID, sessionID, err.Error()); err != nil {
			log.Error("Failed to send server error to client %d: %v", clientID, err)
		}
	}
}

func (n *NetworkManager) handleClientSetDirection(sessionID uuid.UUID, message *messages.Message) error {
	clientSetDirection := &messages.ClientSetDirection{}
	if err := json.Unmarshal(message.Payload, clientSetDirection); err != nil {
		return fmt.Errorf("failed to unmarshal client set direction: %v", err)
	}

	direction, err := gametypes.ParseDirection(clientSetDirection.Direction)
	if err != nil {
		return err
	}

	return n.Commands.Enqueue(sessionID, gametypes.DirectionCommand{Direction: direction})
}

func (n *NetworkManager) handleClientPause(sessionID uuid.UUID, message *messages.Message) error {
	clientPause := &messages.ClientPause{}
	if err := json.Unmarshal(message.Payload, clientPause); err != nil {
		return fmt.Errorf("failed to unmarshal client pause: %v", err)
	}

	return n.Commands.Enqueue(sessionID, gametypes.PauseCommand{Paused: clientPause.Paused})
}

func (n *NetworkManager) sendServerError(ctx context.Context, clientID uint32, sessionID uuid.UUID, reason string) error {
	payload, err := json.Marshal(&messages.ServerError{Reason: reason})
	if err != nil {
		return fmt.Errorf("failed to marshal server error: %v", err)
	}

	msg := &messages.Message{
		SessionID: sessionID.String(),
		Type:      messages.MessageTypeServerError,
		Payload:   payload,
	}

	return n.SendMessageToClient(ctx, clientID, msg)
}

// SendMessageToSession writes a message to every client watching a session.
func (n *NetworkManager) SendMessageToSession(ctx context.Context, sessionID uuid.UUID, msg *messages.Message) {
	for _, client := range n.ClientManager.GetClientsForSession(sessionID) {
		if err := n.sendMessageToClient(ctx, client, msg); err != nil {
			log.Error("Failed to send message to client %d: %v", client.ID, err)
		}
	}
}

func (n *NetworkManager) SendMessageToClient(ctx context.Context, clientID uint32, msg *messages.Message) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %d: %v", clientID, err)
	}

	return n.sendMessageToClient(ctx, client, msg)
}

func (n *NetworkManager) sendMessageToClient(ctx context.Context, client *Client, msg *messages.Message) error {
	ctx, cancel := context.WithTimeout(ctx, n.writeTimeout)
	defer cancel()

	if err := WriteMessageToWS(ctx, client.WSConn, msg); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection for client %d: %v", client.ID, err)
	}

	return nil
}
