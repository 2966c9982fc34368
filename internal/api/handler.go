package api

import (
	"encoding/json"
	"net/http"

	"github.com/dennisdiepolder/callboard/internal/chart"
	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/rs/zerolog"
)

// Sessions is the registry of dashboard sessions the handlers act on
type Sessions interface {
	Create() *dashboard.Controller
	Get(id string) (*dashboard.Controller, bool)
	GetOrCreate(id string) (*dashboard.Controller, bool)
}

// Handler serves the dashboard page, its form actions and the JSON API
type Handler struct {
	sessions Sessions
	store    storage.Store
	duration []types.CallDurationPoint
	volume   []types.CallVolumeDay
	cards    []types.MetricCard
	logger   zerolog.Logger
}

// NewHandler creates a handler serving the default trend and volume datasets
func NewHandler(sessions Sessions, store storage.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		store:    store,
		duration: types.DefaultCallDuration(),
		volume:   types.DefaultCallVolume(),
		cards:    types.DefaultMetricCards(),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// dataset combines the static series with the session's failure reasons
func (h *Handler) dataset(v dashboard.View) chart.Dataset {
	return chart.Dataset{
		Duration:       h.duration,
		Volume:         h.volume,
		FailureReasons: v.FailureReasons,
	}
}

// writeSVG renders a chart or answers 404 for unknown names
func (h *Handler) writeSVG(w http.ResponseWriter, name string, v dashboard.View) {
	if !knownChart(name) {
		writeError(w, http.StatusNotFound, "unknown chart")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if err := chart.Render(w, name, h.dataset(v)); err != nil {
		h.logger.Error().Err(err).Str("chart", name).Msg("failed to render chart")
	}
}

func knownChart(name string) bool {
	for _, n := range chart.Names {
		if n == name {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
