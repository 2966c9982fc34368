package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dennisdiepolder/callboard/internal/types"
)

var (
	// ErrNotFound is returned when no record exists for an email
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when inserting an email that is already stored
	ErrAlreadyExists = errors.New("record already exists")
)

// Store is the keyed record store the dashboard persists chart data to.
// Records are never deleted through this interface.
type Store interface {
	// Find returns the record for email or ErrNotFound
	Find(ctx context.Context, email string) (*types.Record, error)
	// Insert creates a new record; ErrAlreadyExists if the email is taken
	Insert(ctx context.Context, record types.Record) error
	// Update replaces chart data and timestamp of an existing record; ErrNotFound if missing
	Update(ctx context.Context, email string, data types.ChartData, updatedAt time.Time) error
	// Close releases the underlying connection
	Close() error
}

// FormatTimestamp renders a record timestamp the way every store persists it
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// withCreatedAt stamps a new record's creation time from its update time when unset
func withCreatedAt(r types.Record) types.Record {
	if r.CreatedAt == "" {
		r.CreatedAt = r.UpdatedAt
	}
	return r
}
