package cache

import (
	"sync"
	"time"

	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/metrics"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionCache maintains the dashboard controller of every open browser session
type SessionCache struct {
	sessions map[string]*dashboard.Controller // sessionID -> controller
	mu       sync.RWMutex

	store  storage.Store
	opts   dashboard.Options
	notify func(dashboard.View)
	logger zerolog.Logger
}

// NewSessionCache creates an empty cache whose sessions persist to store
func NewSessionCache(store storage.Store, opts dashboard.Options, logger zerolog.Logger) *SessionCache {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionCache{
		sessions: make(map[string]*dashboard.Controller),
		store:    store,
		opts:     opts,
		logger:   logger,
	}
}

// SetNotifier sets the listener every session reports its changes to
func (c *SessionCache) SetNotifier(fn func(dashboard.View)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notify = fn
	for _, ctrl := range c.sessions {
		ctrl.SetOnChange(fn)
	}
}

// Create starts a new session on the default dataset
func (c *SessionCache) Create() *dashboard.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := c.opts
	opts.OnChange = c.notify

	id := uuid.NewString()
	ctrl := dashboard.NewController(id, dashboard.NewState(types.DefaultFailureReasons()), c.store, opts, c.logger)
	c.sessions[id] = ctrl

	metrics.Get().RecordSessionCreated()
	c.logger.Debug().Str("session_id", id).Msg("session created")

	return ctrl
}

// Get returns the session with id
func (c *SessionCache) Get(id string) (*dashboard.Controller, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctrl, ok := c.sessions[id]
	return ctrl, ok
}

// GetOrCreate returns the session with id, or a new one when it is unknown
func (c *SessionCache) GetOrCreate(id string) (*dashboard.Controller, bool) {
	if ctrl, ok := c.Get(id); ok {
		ctrl.Touch()
		return ctrl, false
	}
	return c.Create(), true
}

// ExpireToasts hides every notification whose TTL passed by at and returns
// how many were hidden
func (c *SessionCache) ExpireToasts(at time.Time) int {
	expired := 0
	for _, ctrl := range c.snapshot() {
		if ctrl.ExpireToasts(at) {
			expired++
		}
	}
	return expired
}

// EvictIdle removes sessions untouched for longer than maxIdle. Sessions with
// a remote call in flight are kept.
func (c *SessionCache) EvictIdle(maxIdle time.Duration) int {
	threshold := c.opts.Now().Add(-maxIdle)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, ctrl := range c.sessions {
		if ctrl.LastSeen().Before(threshold) && !ctrl.State().Busy() {
			delete(c.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		metrics.Get().RecordSessionsExpired(removed)
		c.logger.Debug().Int("removed", removed).Msg("idle sessions evicted")
	}
	return removed
}

// Views returns the projection of every session
func (c *SessionCache) Views() []dashboard.View {
	ctrls := c.snapshot()
	views := make([]dashboard.View, 0, len(ctrls))
	for _, ctrl := range ctrls {
		views = append(views, ctrl.View())
	}
	return views
}

// Count returns the number of open sessions
func (c *SessionCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// snapshot copies the controllers so callers can act on them without the cache lock
func (c *SessionCache) snapshot() []*dashboard.Controller {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*dashboard.Controller, 0, len(c.sessions))
	for _, ctrl := range c.sessions {
		out = append(out, ctrl)
	}
	return out
}
