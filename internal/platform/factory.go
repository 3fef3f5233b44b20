package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/notebox/pkg/adapters/fs"
	"github.com/aretw0/notebox/pkg/adapters/memory"
	"github.com/aretw0/notebox/pkg/adapters/sqlite"
	"github.com/aretw0/notebox/pkg/core"
)

// Open builds a store on the configured storage and loads it.
// The URI argument is adapter-specific (directory for "fs", database file for "sqlite").
//
//	store, err := notebox.Open(ctx, "./data", notebox.WithAdapter("sqlite"))
func Open(ctx context.Context, uri string, opts ...Option) (*core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := openStorage(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	storeOpts := []core.StoreOption{core.WithLogger(o.logger)}
	if key, ok := o.config["key"].(string); ok {
		storeOpts = append(storeOpts, core.WithKey(key))
	}
	if clock, ok := o.config["clock"].(func() time.Time); ok {
		storeOpts = append(storeOpts, core.WithClock(clock))
	}
	if gen, ok := o.config["id_generator"].(func() string); ok {
		storeOpts = append(storeOpts, core.WithIDGenerator(gen))
	}

	store := core.NewStore(storage, storeOpts...)
	store.Load(ctx)
	return store, nil
}

// OpenStorage initializes the configured storage without building a store.
func OpenStorage(ctx context.Context, uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openStorage(ctx, uri, o)
}

func openStorage(ctx context.Context, uri string, o *options) (core.Storage, error) {
	// 1. Check for injected storage
	if o.storage != nil {
		return o.storage, nil
	}

	// 2. Instantiate based on adapter
	var (
		storage core.Storage
		err     error
	)
	switch o.adapter {
	case "fs", "":
		storage = initFS(uri, o)
	case "sqlite":
		storage, err = initSQLite(uri, o)
	case "memory":
		storage = memory.NewStorage()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	// 3. Run initialization
	if err := storage.Initialize(ctx); err != nil {
		return nil, err
	}
	return storage, nil
}

// resolvePath applies the dev sandbox rules to a data location.
func resolvePath(path string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access is inherently safe.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) core.Storage {
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	return fs.NewStorage(fs.Config{
		Path:         resolvePath(path, o),
		MustExist:    mustExist,
		ReadOnly:     isReadOnly,
		Logger:       loggerOrNil(o.logger, "fs"),
		ErrorHandler: errorHandler,
	})
}

// initSQLite handles the initialization logic for the SQLite adapter.
// The sandbox applies to the database directory; ":memory:" passes through.
func initSQLite(dsn string, o *options) (core.Storage, error) {
	isReadOnly, _ := o.config["read_only"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)

	if dsn != ":memory:" {
		if dsn == "" {
			dsn = "notebox.db"
		}
		dir := resolvePath(filepath.Dir(dsn), o)
		if err := ensureDir(dir, mustExist || isReadOnly); err != nil {
			return nil, err
		}
		dsn = filepath.Join(dir, filepath.Base(dsn))
	}

	return sqlite.NewStorage(sqlite.Config{
		DSN:      dsn,
		ReadOnly: isReadOnly,
		Logger:   loggerOrNil(o.logger, "sqlite"),
	})
}

func loggerOrNil(logger *slog.Logger, adapter string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With("adapter", adapter)
}
