package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_analytics (
	email      TEXT PRIMARY KEY,
	chart_data TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStore implements Store on a local SQLite file
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (and initializes) the database at path
func NewSQLiteStore(ctx context.Context, path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info().Str("path", path).Msg("SQLite store initialized")

	return &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "sqlite_store").Logger(),
	}, nil
}

func (s *SQLiteStore) Find(ctx context.Context, email string) (*types.Record, error) {
	var (
		raw       string
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT chart_data, created_at, updated_at FROM user_analytics WHERE email = ?`, email,
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to query record")
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	record := &types.Record{Email: email, CreatedAt: createdAt, UpdatedAt: updatedAt}
	if err := json.Unmarshal([]byte(raw), &record.ChartData); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("stored chart data is not valid JSON")
		return nil, fmt.Errorf("failed to decode chart data: %w", err)
	}
	return record, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, record types.Record) error {
	record = withCreatedAt(record)
	raw, err := json.Marshal(record.ChartData)
	if err != nil {
		return fmt.Errorf("failed to encode chart data: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO user_analytics (email, chart_data, created_at, updated_at)
		 VALUES (?, ?, ?, ?) ON CONFLICT(email) DO NOTHING`,
		record.Email, string(raw), record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("email", record.Email).Msg("failed to insert record")
		return fmt.Errorf("failed to insert record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, email string, data types.ChartData, updatedAt time.Time) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode chart data: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE user_analytics SET chart_data = ?, updated_at = ? WHERE email = ?`,
		string(raw), FormatTimestamp(updatedAt), email,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to update record")
		return fmt.Errorf("failed to update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
