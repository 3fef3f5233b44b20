package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notebox/pkg/core"
)

// Watch observes the data directory and emits an event for every change to a
// key matching pattern. pattern is a key or a doublestar glob over keys
// (e.g. "notesApp.*"). The channel is closed when ctx is done.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		return nil, fmt.Errorf("watch pattern cannot be empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	events := make(chan core.Event, 16)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.setWatcherActive(false)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				e, ok := s.translate(event, pattern)
				if !ok {
					continue
				}
				s.config.Logger.Debug("storage change", "event", e.String())
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.handleWatcherError(wErr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatcherError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

// translate maps a filesystem event to a storage event, filtering out
// temp files, foreign extensions and keys outside pattern.
func (s *Storage) translate(event fsnotify.Event, pattern string) (core.Event, bool) {
	base := filepath.Base(event.Name)

	if isTemp, _ := doublestar.Match(TempFilePrefix+"*", base); isTemp {
		return core.Event{}, false
	}
	if !strings.HasSuffix(base, s.config.Ext) {
		return core.Event{}, false
	}

	key := strings.TrimSuffix(base, s.config.Ext)
	if ok, err := doublestar.Match(pattern, key); err != nil || !ok {
		return core.Event{}, false
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
	case event.Has(fsnotify.Write):
		eType = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{
		Type:      eType,
		ID:        key,
		Timestamp: time.Now().Unix(),
	}, true
}

func (s *Storage) handleWatcherError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	s.config.Logger.Error("fsnotify error", "error", err)
}
