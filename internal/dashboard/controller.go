package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dennisdiepolder/callboard/internal/metrics"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/rs/zerolog"
)

// Options configures a Controller
type Options struct {
	StoreTimeout time.Duration
	ToastTTL     time.Duration
	Now          func() time.Time
	OnChange     func(View)
}

// Controller serializes one session's actions and runs their remote effects
type Controller struct {
	id    string
	store storage.Store

	mu       sync.Mutex
	state    State
	lastSeen time.Time

	timeout  time.Duration
	toastTTL time.Duration
	now      func() time.Time
	onChange func(View)
	logger   zerolog.Logger
}

// NewController creates a controller for session id starting from initial
func NewController(id string, initial State, store storage.Store, opts Options, logger zerolog.Logger) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 10 * time.Second
	}
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = 3 * time.Second
	}

	return &Controller{
		id:       id,
		store:    store,
		state:    initial.clone(),
		lastSeen: opts.Now(),
		timeout:  opts.StoreTimeout,
		toastTTL: opts.ToastTTL,
		now:      opts.Now,
		onChange: opts.OnChange,
		logger:   logger.With().Str("component", "dashboard").Str("session_id", id).Logger(),
	}
}

// ID returns the session id
func (c *Controller) ID() string {
	return c.id
}

// SetOnChange replaces the change listener
func (c *Controller) SetOnChange(fn func(View)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View returns the current projection
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return NewView(c.id, c.state)
}

// LastSeen returns when a user last acted on the session
func (c *Controller) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Touch marks the session as active
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastSeen = c.now()
	c.mu.Unlock()
}

// Dispatch applies a user action and runs any remote calls it triggers until
// the session settles. Store calls run without holding the session lock, so
// concurrent readers observe the busy phase.
func (c *Controller) Dispatch(ctx context.Context, action Action) View {
	metrics.Get().RecordAction(action.Name())
	c.Touch()

	effect := c.apply(action)
	for effect.Kind != EffectNone {
		effect = c.apply(c.run(ctx, effect))
	}
	return c.View()
}

// ExpireToasts drops the notification once its TTL has passed. It reports
// whether anything changed.
func (c *Controller) ExpireToasts(at time.Time) bool {
	c.mu.Lock()
	toast := c.state.Toast
	due := toast != nil && !toast.ExpiresAt.IsZero() && !at.Before(toast.ExpiresAt)
	c.mu.Unlock()
	if !due {
		return false
	}

	c.apply(ExpireToasts{At: at})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Toast == nil
}

func (c *Controller) apply(action Action) Effect {
	c.mu.Lock()
	prev := c.state
	next, effect := Reduce(prev, action)
	if next.Toast != nil && next.Toast.ExpiresAt.IsZero() {
		next.Toast.ExpiresAt = c.now().Add(c.toastTTL)
	}
	c.state = next
	view := NewView(c.id, next)
	listener := c.onChange
	c.mu.Unlock()

	if prev.Status() != next.Status() {
		c.logger.Debug().
			Str("action", action.Name()).
			Str("from", prev.Status()).
			Str("to", next.Status()).
			Msg("state transition")
	}

	if listener != nil {
		listener(view)
	}
	return effect
}

func (c *Controller) run(ctx context.Context, effect Effect) Action {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var (
		result Action
		err    error
	)

	switch effect.Kind {
	case EffectLookup:
		_, err = c.store.Find(ctx, effect.Email)
		if errors.Is(err, storage.ErrNotFound) {
			result = SaveLookupDone{Found: false}
		} else {
			result = SaveLookupDone{Found: err == nil, Err: err}
		}

	case EffectInsert:
		now := storage.FormatTimestamp(c.now())
		err = c.store.Insert(ctx, types.Record{
			Email:     effect.Email,
			ChartData: effect.Data,
			CreatedAt: now,
			UpdatedAt: now,
		})
		result = SaveDone{Err: err}

	case EffectUpdate:
		err = c.store.Update(ctx, effect.Email, effect.Data, c.now())
		result = SaveDone{Err: err}

	case EffectFetch:
		var record *types.Record
		record, err = c.store.Find(ctx, effect.Email)
		result = LoadDone{Record: record, Err: err}
	}

	metrics.Get().RecordStoreOperation(effect.Kind.String(), err, time.Since(start))

	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		c.logger.Error().
			Err(err).
			Str("operation", effect.Kind.String()).
			Str("email", effect.Email).
			Msg("Record store call failed")
	}

	return result
}
