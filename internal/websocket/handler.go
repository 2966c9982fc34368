package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/dennisdiepolder/callboard/internal/config"
	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// SessionCookie names the cookie holding the dashboard session id
const SessionCookie = "callboard_session"

// SessionSource resolves dashboard sessions by id
type SessionSource interface {
	Get(id string) (*dashboard.Controller, bool)
}

// Handler handles WebSocket upgrade requests
type Handler struct {
	hub      *Hub
	sessions SessionSource
	upgrader websocket.Upgrader
	config   *config.Config
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, sessions SessionSource, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host || cfg.OriginAllowed(origin)
			},
		},
		config: cfg,
		logger: logger.With().Str("component", "websocket").Logger(),
	}
}

// ServeHTTP upgrades the connection and subscribes it to the session named by
// the "session" query parameter or the session cookie
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			sessionID = cookie.Value
		}
	}

	ctrl, ok := h.sessions.Get(sessionID)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		metrics.Get().RecordWebSocketError()
		return
	}

	client := NewClient(h.hub, conn, sessionID, h.config, h.logger)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	metrics.Get().RecordWebSocketConnect()

	client.Start()

	// Current state first, later changes follow as they happen
	h.hub.Publish(ctrl.View())
}
