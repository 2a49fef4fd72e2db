package network

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// ServeWS upgrades the request and streams the session to the client until
// either side closes the connection or ctx is done.
func (n *NetworkManager) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	conn.SetReadLimit(messages.MessageBufferSize)

	clientID, err := n.ClientManager.ConnectClient(sessionID, conn)
	if err != nil {
		log.Error("Failed to connect client: %v", err)
		conn.Close(websocket.StatusInternalError, "failed to connect")
		return
	}
	log.Info("Client %d connected to session %s from %s", clientID, sessionID, r.RemoteAddr)

	n.handleWSConnection(ctx, clientID, sessionID, conn)
}

// handleWSConnection reads client messages until the connection ends.
func (n *NetworkManager) handleWSConnection(ctx context.Context, clientID uint32, sessionID uuid.UUID, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		n.ClientManager.DisconnectClient(clientID)
		conn.Close(websocket.StatusNormalClosure, "")
		log.Info("Client %d disconnected", clientID)
	}()

	for {
		message, err := ReadMessageFromWS(ctx, conn)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Trace("Connection closed for client %d", clientID)
			default:
				if ctx.Err() == nil {
					log.Error("Error reading WebSocket message from client %d: %v", clientID, err)
				}
			}
			return
		}

		n.handleClientMessage(ctx, clientID, sessionID, message)
	}
}

// WriteMessageToWS writes a Message to a WebSocket connection
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	if err := conn.Write(ctx, websocket.MessageBinary, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Message, error) {
	_, b, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}
