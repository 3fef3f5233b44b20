// Package fs implements core.Storage on the local filesystem.
//
// Each key maps to one file under the data directory ("<key>.json"),
// replaced atomically on every write.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notebox/pkg/core"
)

// DefaultExt is appended to keys to build file names.
const DefaultExt = ".json"

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path         string
	MustExist    bool
	ReadOnly     bool
	Ext          string // defaults to DefaultExt
	Logger       *slog.Logger
	ErrorHandler func(error) // receives watcher errors; falls back to Logger
}

// Storage implements core.Storage using plain files.
type Storage struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
}

// NewStorage creates a new filesystem-backed storage.
func NewStorage(config Config) *Storage {
	if config.Ext == "" {
		config.Ext = DefaultExt
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Storage{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the data directory exists.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Get reads the file backing key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	filename, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the file backing key.
func (s *Storage) Set(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	filename, err := s.filename(key)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.config.Logger.Debug("payload written", "key", key, "bytes", len(data))
	s.recordWrite()
	return nil
}

// filename maps a key to its file, rejecting keys that would escape the data directory.
func (s *Storage) filename(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.Path, key+s.config.Ext), nil
}

var _ core.Storage = (*Storage)(nil)
var _ core.Watchable = (*Storage)(nil)
