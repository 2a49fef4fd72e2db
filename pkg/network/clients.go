package network

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 1024
	// ClientEventChannelSize represents the size of the client event channel
	ClientEventChannelSize = 1024
)

// Client represents a websocket connection watching one session
type Client struct {
	ID        uint32
	SessionID uuid.UUID
	WSConn    *websocket.Conn
}

// ClientEvent represents an event that happened to a client
type ClientEvent struct {
	ClientID  uint32
	SessionID uuid.UUID
	Type      ClientEventType
}

// ClientEventType represents the type of a client event
type ClientEventType int

const (
	ClientEventTypeConnect ClientEventType = iota
	ClientEventTypeDisconnect
)

// ClientManager manages connected clients
type ClientManager struct {
	clients         map[uint32]*Client
	clientsLock     sync.RWMutex
	clientEventChan chan ClientEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:         make(map[uint32]*Client),
		clientEventChan: make(chan ClientEvent, ClientEventChannelSize),
	}
}

// GetClientEventChan returns a one-way channel for receiving client events
func (cm *ClientManager) GetClientEventChan() <-chan ClientEvent {
	return cm.clientEventChan
}

// ConnectClient adds a new client to the manager and returns its ID
func (cm *ClientManager) ConnectClient(sessionID uuid.UUID, wsConn *websocket.Conn) (uint32, error) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		return 0, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	cm.clients[clientID] = &Client{
		ID:        clientID,
		SessionID: sessionID,
		WSConn:    wsConn,
	}

	cm.publish(ClientEvent{
		ClientID:  clientID,
		SessionID: sessionID,
		Type:      ClientEventTypeConnect,
	})

	return clientID, nil
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID uint32) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return
	}
	delete(cm.clients, clientID)

	cm.publish(ClientEvent{
		ClientID:  client.ID,
		SessionID: client.SessionID,
		Type:      ClientEventTypeDisconnect,
	})
}

// publish must be called with the lock held and never blocks
func (cm *ClientManager) publish(event ClientEvent) {
	select {
	case cm.clientEventChan <- event:
	default:
		log.Warn("Client event channel full, dropping event for client %d", event.ClientID)
	}
}

// GetClient returns a client by its ID
func (cm *ClientManager) GetClient(clientID uint32) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	client, ok := cm.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %d not found", clientID)
	}
	copy := *client
	return &copy, nil
}

// GetClientsForSession returns a copy of the clients watching a session
func (cm *ClientManager) GetClientsForSession(sessionID uuid.UUID) []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0)
	for _, client := range cm.clients {
		if client.SessionID != sessionID {
			continue
		}
		copy := *client
		clients = append(clients, &copy)
	}
	return clients
}

func (cm *ClientManager) Exists(clientID uint32) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}

// generateUniqueID generates a unique client ID with a maximum number of retries
// it reads from the clients, so it needs to be locked before calling
func (cm *ClientManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := rand.Uint32()
		if id == 0 {
			continue
		}
		if _, ok := cm.clients[id]; !ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
