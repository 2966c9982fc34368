package storage

import (
	"context"
	"sync"
	"time"

	"github.com/dennisdiepolder/callboard/internal/types"
)

// MemoryStore keeps records in process memory. Used when no backend is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.Record)}
}

func (s *MemoryStore) Find(ctx context.Context, email string) (*types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[email]
	if !ok {
		return nil, ErrNotFound
	}
	record.ChartData.FailureReasons = types.CloneFailureReasons(record.ChartData.FailureReasons)
	return &record, nil
}

func (s *MemoryStore) Insert(ctx context.Context, record types.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.Email]; ok {
		return ErrAlreadyExists
	}
	record = withCreatedAt(record)
	record.ChartData.FailureReasons = types.CloneFailureReasons(record.ChartData.FailureReasons)
	s.records[record.Email] = record
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, email string, data types.ChartData, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[email]
	if !ok {
		return ErrNotFound
	}
	record.ChartData = types.ChartData{FailureReasons: types.CloneFailureReasons(data.FailureReasons)}
	record.UpdatedAt = FormatTimestamp(updatedAt)
	s.records[email] = record
	return nil
}

// Len returns the number of stored records
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error { return nil }
