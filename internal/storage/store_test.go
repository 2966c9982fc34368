package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour every Store implementation must share
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.Find(ctx, "a@b.com")
	require.ErrorIs(t, err, ErrNotFound)

	err = store.Update(ctx, "a@b.com", types.ChartData{}, now)
	require.ErrorIs(t, err, ErrNotFound, "update must not create records")

	record := types.Record{
		Email:     "a@b.com",
		ChartData: types.ChartData{FailureReasons: types.DefaultFailureReasons()},
		UpdatedAt: FormatTimestamp(now),
	}
	require.NoError(t, store.Insert(ctx, record))
	require.ErrorIs(t, store.Insert(ctx, record), ErrAlreadyExists)

	got, err := store.Find(ctx, "a@b.com")
	require.NoError(t, err)
	want := record
	want.CreatedAt = "2024-05-01T12:00:00Z"
	assert.Equal(t, want, *got, "created_at defaults to the first update time")

	changed := types.ChartData{FailureReasons: []types.FailureReason{{Name: "Only", Value: 3, Color: "#000000"}}}
	later := now.Add(time.Hour)
	require.NoError(t, store.Update(ctx, "a@b.com", changed, later))

	got, err = store.Find(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, changed, got.ChartData)
	assert.Equal(t, "2024-05-01T13:00:00Z", got.UpdatedAt)
	assert.Equal(t, "2024-05-01T12:00:00Z", got.CreatedAt, "update keeps the creation time")

	created := types.Record{
		Email:     "c@b.com",
		ChartData: changed,
		CreatedAt: "2024-04-01T08:00:00Z",
		UpdatedAt: FormatTimestamp(now),
	}
	require.NoError(t, store.Insert(ctx, created))
	got, err = store.Find(ctx, "c@b.com")
	require.NoError(t, err)
	assert.Equal(t, created, *got)

	_, err = store.Find(ctx, "other@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	storeContract(t, store)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	reasons := types.DefaultFailureReasons()
	require.NoError(t, store.Insert(ctx, types.Record{Email: "x@y.z", ChartData: types.ChartData{FailureReasons: reasons}}))

	reasons[0].Value = 999
	got, err := store.Find(ctx, "x@y.z")
	require.NoError(t, err)
	assert.Equal(t, 35, got.ChartData.FailureReasons[0].Value)

	got.ChartData.FailureReasons[1].Value = 999
	again, err := store.Find(ctx, "x@y.z")
	require.NoError(t, err)
	assert.Equal(t, 25, again.ChartData.FailureReasons[1].Value)
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Find(ctx, "a@b.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "callboard.db")
	store, err := NewSQLiteStore(context.Background(), path, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)
}

func TestSQLiteStoreLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "callboard.db"), zerolog.New(&buf))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	buf.Reset()

	_, err = store.Find(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "sqlite_store", entry["component"])
	assert.Equal(t, "a@b.com", entry["email"])
	assert.Equal(t, "failed to query record", entry["message"])
}

func TestNewStoreDefaultsToMemory(t *testing.T) {
	store, err := NewStore(context.Background(), StoreConfig{Mode: "bogus"}, zerolog.Nop())
	require.NoError(t, err)
	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}
