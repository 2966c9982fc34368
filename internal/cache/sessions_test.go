package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a manually advanced time source
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(clk *clock) *SessionCache {
	return NewSessionCache(storage.NewMemoryStore(), dashboard.Options{
		ToastTTL: 3 * time.Second,
		Now:      clk.Now,
	}, zerolog.Nop())
}

func TestCreateAndGet(t *testing.T) {
	c := newTestCache(&clock{now: time.Now()})

	ctrl := c.Create()
	require.NotEmpty(t, ctrl.ID())

	got, ok := c.Get(ctrl.ID())
	require.True(t, ok)
	assert.Same(t, ctrl, got)
	assert.Equal(t, 1, c.Count())

	_, ok = c.Get("unknown")
	assert.False(t, ok)
}

func TestGetOrCreate(t *testing.T) {
	c := newTestCache(&clock{now: time.Now()})
	first := c.Create()

	got, created := c.GetOrCreate(first.ID())
	assert.False(t, created)
	assert.Same(t, first, got)

	other, created := c.GetOrCreate("stale-cookie")
	assert.True(t, created)
	assert.NotEqual(t, first.ID(), other.ID())
	assert.Equal(t, 2, c.Count())
}

func TestNotifierReachesSessions(t *testing.T) {
	c := newTestCache(&clock{now: time.Now()})
	before := c.Create()

	var (
		mu  sync.Mutex
		ids []string
	)
	c.SetNotifier(func(v dashboard.View) {
		mu.Lock()
		ids = append(ids, v.SessionID)
		mu.Unlock()
	})
	after := c.Create()

	before.Dispatch(context.Background(), dashboard.Edit{})
	after.Dispatch(context.Background(), dashboard.Edit{})

	assert.Equal(t, []string{before.ID(), after.ID()}, ids)
}

func TestExpireToasts(t *testing.T) {
	clk := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(clk)
	ctx := context.Background()

	ctrl := c.Create()
	ctrl.Dispatch(ctx, dashboard.Load{})
	ctrl.Dispatch(ctx, dashboard.SubmitEmail{Email: "nobody@b.com"})
	c.Create()

	assert.Equal(t, 0, c.ExpireToasts(clk.Now().Add(time.Second)))
	assert.Equal(t, 1, c.ExpireToasts(clk.Now().Add(3*time.Second)))
	assert.Nil(t, ctrl.View().Toast)
}

func TestEvictIdle(t *testing.T) {
	clk := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(clk)

	idle := c.Create()
	clk.Advance(20 * time.Minute)
	active := c.Create()
	clk.Advance(15 * time.Minute)

	removed := c.EvictIdle(30 * time.Minute)
	assert.Equal(t, 1, removed)

	_, ok := c.Get(idle.ID())
	assert.False(t, ok)
	_, ok = c.Get(active.ID())
	assert.True(t, ok)
	assert.Len(t, c.Views(), 1)
}
