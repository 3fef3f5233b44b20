// Package sqlite implements core.Storage on a single SQLite key-value table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/notebox/pkg/core"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (CAST(strftime('%s','now') AS INTEGER))
)`

// Config holds the configuration for the SQLite storage.
type Config struct {
	DSN      string // file path or ":memory:"
	ReadOnly bool
	Logger   *slog.Logger
}

// Storage implements core.Storage using database/sql and the pure-Go SQLite driver.
type Storage struct {
	db     *sql.DB
	config Config
}

// NewStorage opens the database. Call Initialize before use.
func NewStorage(config Config) (*Storage, error) {
	if config.DSN == "" {
		return nil, fmt.Errorf("sqlite dsn cannot be empty")
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := sql.Open("sqlite", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	return &Storage{db: db, config: config}, nil
}

// Initialize creates the kv table.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.ReadOnly {
		return s.db.PingContext(ctx)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set inserts or replaces the value stored under key.
func (s *Storage) Set(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CAST(strftime('%s','now') AS INTEGER))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.config.Logger.Debug("payload written", "key", key, "bytes", len(data))
	return nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// StorageState exposes internal state for observability.
type StorageState struct {
	DSN      string `json:"dsn"`
	ReadOnly bool   `json:"read_only"`
	Keys     int    `json:"keys"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	state := StorageState{DSN: s.config.DSN, ReadOnly: s.config.ReadOnly, Keys: -1}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&state.Keys); err != nil {
		s.config.Logger.Debug("failed to count keys", "error", err)
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "sqlite-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
