package notification

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/agency/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Hub tracks connected clients and fans notifications out to them.
// Run must be started before clients connect.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	seq    atomic.Int64
	logger *zap.Logger
}

// NewHub creates a Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations until ctx is cancelled, then disconnects everyone
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.closeOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.logger.Info("notification hub stopped")
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.logger.Debug("ws client connected", zap.String("user_id", c.userID), zap.Int("clients", len(h.clients)))
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.logger.Debug("ws client disconnected", zap.String("user_id", c.userID), zap.Int("clients", len(h.clients)))
}

// Register adds c. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c; a no-op after the hub has stopped
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends n to every client. Clients whose buffer is full are dropped.
func (h *Hub) Broadcast(n Notification) {
	n.Seq = h.seq.Add(1)
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Warn("failed to marshal notification", zap.String("event", n.Event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			go h.Unregister(c)
		}
	}
}

// EventTypes returns nil: every bus event becomes a notification
func (h *Hub) EventTypes() []string {
	return nil
}

// Handle broadcasts the event to connected clients
func (h *Hub) Handle(_ context.Context, event shared.DomainEvent) error {
	h.Broadcast(FromEvent(event))
	return nil
}

var _ shared.EventHandler = (*Hub)(nil)
