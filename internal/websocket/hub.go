package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/rs/zerolog"
)

// SessionMessage is the frame pushed to clients whenever their session changes
type SessionMessage struct {
	Type    string         `json:"type"`
	Session dashboard.View `json:"session"`
}

// outbound is a frame addressed to every client of one session
type outbound struct {
	sessionID string
	data      []byte
}

// Hub maintains the set of active clients and routes session updates to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Session updates waiting to be delivered
	publish chan outbound

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex to protect clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		publish:    make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger.With().Str("component", "websocket_hub").Logger(),
	}
}

// Run starts the hub's main loop and closes every client when ctx ends
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info().Msg("websocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info().
				Str("client_id", client.id).
				Str("session_id", client.sessionID).
				Int("total_clients", total).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case msg := <-h.publish:
			h.deliver(msg)
		}
	}
}

// Publish queues a session view for the clients watching that session. It
// never blocks once the hub has stopped.
func (h *Hub) Publish(view dashboard.View) {
	data, err := json.Marshal(SessionMessage{Type: "session", Session: view})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal session view")
		return
	}

	select {
	case h.publish <- outbound{sessionID: view.SessionID, data: data}:
	case <-h.done:
	}
}

// Register adds a client; it returns false once the hub has stopped
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// deliver sends a frame to every client of the addressed session
func (h *Hub) deliver(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.sessionID != msg.sessionID {
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			// Client's send buffer is full, close and remove it
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}
