package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the payload pushed to connected viewers when a work report is
// accepted. Delivery is at-most-once: no persistence, no replay, a client
// connecting after Publish misses the event.
type Event struct {
	Type       string      `json:"type"`
	TaskID     string      `json:"taskId"`
	WorkReport interface{} `json:"workReport,omitempty"`
	Message    string      `json:"message"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ErrNoSubscribers is returned by Publish when no client received the event.
var ErrNoSubscribers = errors.New("realtime: no connected subscribers")

// Hub maintains the set of connected clients and broadcasts events to all
// of them. Every accepted connection is a subscriber; there is no per-user
// routing on this channel.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// NewHub constructs an empty hub. Tests use this to avoid the singleton.
func NewHub() *Hub {
	return &Hub{clients: make(map[Client]struct{})}
}

// Subscribe adds a client to the broadcast set.
func (h *Hub) Subscribe(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unsubscribe removes a client.
func (h *Hub) Unsubscribe(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish marshals the event once and writes it to every subscriber. It
// returns an error when nobody received the event, so callers can log the
// dropped delivery instead of losing it silently. A failed client write does
// not fail the publish as long as at least one client got the message; the
// ws handler cleans up dead connections on its side.
func (h *Hub) Publish(evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return ErrNoSubscribers
	}
	delivered := 0
	for c := range h.clients {
		if c.Send(payload) {
			delivered++
		}
	}
	if delivered == 0 {
		return errors.New("realtime: all subscriber writes failed")
	}
	return nil
}
