package ticker

import (
	"context"
	"time"

	"github.com/dennisdiepolder/callboard/internal/alerts"
	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/metrics"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/rs/zerolog"
)

// Sessions is the session registry the ticker sweeps
type Sessions interface {
	ExpireToasts(at time.Time) int
	EvictIdle(maxIdle time.Duration) int
	Views() []dashboard.View
	Count() int
}

// Ticker periodically expires toasts, evicts idle sessions and refreshes the
// data-quality alert gauges. Sessions publish their own changes, so expired
// toasts reach websocket clients without the ticker touching the hub.
type Ticker struct {
	sessions Sessions
	interval time.Duration
	idle     time.Duration
	logger   zerolog.Logger
}

// NewTicker creates a new Ticker
func NewTicker(sessions Sessions, interval, idle time.Duration, logger zerolog.Logger) *Ticker {
	return &Ticker{
		sessions: sessions,
		interval: interval,
		idle:     idle,
		logger:   logger.With().Str("component", "ticker").Logger(),
	}
}

// Start runs sweeps until ctx ends
func (t *Ticker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Dur("idle_timeout", t.idle).Msg("ticker started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("ticker stopped")
			return

		case now := <-ticker.C:
			t.Sweep(now)
		}
	}
}

// Sweep runs one cycle at now
func (t *Ticker) Sweep(now time.Time) {
	start := time.Now()

	toasts := t.sessions.ExpireToasts(now)
	evicted := t.sessions.EvictIdle(t.idle)

	var found []types.Alert
	for _, v := range t.sessions.Views() {
		found = append(found, alerts.Check(nil, v.FailureReasons)...)
	}

	m := metrics.Get()
	m.RecordToastsExpired(toasts)
	m.UpdateAlerts(alerts.CountByRule(found))
	m.RecordSweep(time.Since(start))

	if toasts > 0 || evicted > 0 {
		t.logger.Debug().
			Int("toasts_expired", toasts).
			Int("sessions_evicted", evicted).
			Int("sessions", t.sessions.Count()).
			Msg("sweep completed")
	}
}
