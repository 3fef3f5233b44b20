package notebox

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/notebox/internal/platform"
	"github.com/aretw0/notebox/pkg/core"
)

// --- Types ---

// Note is a public alias for the core note entity.
type Note = core.Note

// Record is a public alias for a flat export row.
type Record = core.Record

// Store is a public alias for the note store.
type Store = core.Store

// --- Configuration ---

// Option defines a functional option for configuring notebox.
type Option = platform.Option

// WithLogger sets the logger for the store and its storage.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage allows injecting a custom storage adapter.
func WithStorage(storage core.Storage) Option {
	return platform.WithStorage(storage)
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithKey sets the storage key holding the note collection.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithMustExist ensures the data location must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for storage watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithClock overrides the store time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithIDGenerator overrides the store identity generator.
func WithIDGenerator(gen func() string) Option {
	return platform.WithIDGenerator(gen)
}

// --- Factory ---

// Open creates a store over the configured storage and loads it.
func Open(ctx context.Context, uri string, opts ...Option) (*core.Store, error) {
	return platform.Open(ctx, uri, opts...)
}

// OpenStorage initializes a storage adapter explicitly.
func OpenStorage(ctx context.Context, uri string, opts ...Option) (core.Storage, error) {
	return platform.OpenStorage(ctx, uri, opts...)
}

// --- Safety & Utils ---

const (
	// DataDirName is the directory marking a notebox root and holding its data.
	DataDirName = platform.DataDirName
	// ConfigFileName is the optional configuration file at a notebox root.
	ConfigFileName = platform.ConfigFileName
)

// ResolveDataPath determines the actual data location based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot recursively looks upwards for a notebox root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
