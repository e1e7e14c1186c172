package websockets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, message Message) error {
	return nil
}

// Hub tracks the connections of this process and fans messages out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{connections: make(map[string]*Connection)}
}

// Make sure we conform to the interfaces
var (
	_ Publisher         = (*Hub)(nil)
	_ ConnectionManager = (*Hub)(nil)
)

// AddConnection registers a connection.
func (h *Hub) AddConnection(ctx context.Context, conn *Connection) error {
	if conn == nil || conn.ID == "" || conn.Send == nil {
		return fmt.Errorf("invalid connection")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn.ID] = conn
	return nil
}

// RemoveConnection unregisters a connection and closes its send channel.
func (h *Hub) RemoveConnection(ctx context.Context, connectionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(connectionID)
	return nil
}

// remove requires h.mu to be held for writing.
func (h *Hub) remove(connectionID string) {
	if conn, ok := h.connections[connectionID]; ok {
		delete(h.connections, connectionID)
		close(conn.Send)
	}
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Publish sends a message to every connection subscribed to its recipient.
// Connections whose buffer is full are dropped.
func (h *Hub) Publish(ctx context.Context, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	var slow []string
	h.mu.RLock()
	for id, conn := range h.connections {
		if message.Recipient != "" && conn.AccountID != message.Recipient {
			continue
		}
		select {
		case conn.Send <- payload:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	if len(slow) > 0 {
		h.mu.Lock()
		for _, id := range slow {
			zap.L().Info("dropping slow websocket connection", zap.String("connectionId", id))
			h.remove(id)
		}
		h.mu.Unlock()
	}

	return nil
}
