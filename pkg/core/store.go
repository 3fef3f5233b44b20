package core

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"

	"github.com/aretw0/notebox/pkg/typed"
)

// ClearPrompt is the question asked before ClearAll wipes the collection.
const ClearPrompt = "This will delete all notes. Continue?"

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey sets the storage key holding the collection.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the identity generator.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store owns the note collection and mirrors it to durable storage.
//
// The collection keeps insertion order; display order is computed by List.
// The filter set by Search is transient and never persisted.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	slot    *typed.Slot[[]Note]
	key     string
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	notes  []Note
	filter string

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewStore creates a store over storage. Call Load to rehydrate it.
func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		newID:   uuid.NewString,
		subs:    make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.slot = typed.NewSlot[[]Note](storage, s.key)
	return s
}

// Key returns the storage key of the collection.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory collection with the persisted one.
// A missing, unreadable or malformed payload yields an empty collection.
func (s *Store) Load(ctx context.Context) {
	notes := s.read(ctx)

	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
}

func (s *Store) read(ctx context.Context) []Note {
	notes, err := s.slot.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		s.logger.Debug("no stored notes", "key", s.key)
		return []Note{}
	case errors.Is(err, typed.ErrMalformed):
		s.logger.Warn("stored notes are malformed, starting empty", "key", s.key, "error", err)
		return []Note{}
	default:
		s.logger.Error("failed to load notes", "key", s.key, "error", err)
		return []Note{}
	}

	if notes == nil {
		notes = []Note{}
	}
	s.logger.Debug("notes loaded", "key", s.key, "count", len(notes))
	return notes
}

// Save writes the full collection to storage.
// A failure is logged and returned wrapped in ErrPersist; in-memory state stays authoritative.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	snapshot := slices.Clone(s.notes)
	s.mu.RUnlock()

	return s.persist(ctx, snapshot)
}

func (s *Store) persist(ctx context.Context, notes []Note) error {
	if notes == nil {
		notes = []Note{}
	}
	if err := s.slot.Store(ctx, notes); err != nil {
		s.logger.Error("failed to save notes", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Upsert creates or updates a note.
//
// Both fields are trimmed and must be non-empty, otherwise a *ValidationError
// naming each invalid field is returned and nothing changes. When existingID
// matches a stored note its title and content are overwritten and UpdatedAt
// refreshed; any other existingID (including "") creates a new note.
//
// The returned error may also wrap ErrPersist, in which case the mutation
// was applied but could not be written.
func (s *Store) Upsert(ctx context.Context, title, content, existingID string) (Note, error) {
	d := newDraft(title, content)
	if err := d.check(); err != nil {
		return Note{}, err
	}

	now := s.now().UnixMilli()

	s.mu.Lock()
	var (
		note  Note
		event EventType
	)
	idx := s.indexOf(existingID)
	if existingID != "" && idx >= 0 {
		note = s.notes[idx]
		note.Title = d.Title
		note.Content = d.Content
		note.UpdatedAt = max(now, note.UpdatedAt, note.CreatedAt)
		s.notes[idx] = note
		event = EventModify
	} else {
		note = Note{
			ID:        s.newID(),
			Title:     d.Title,
			Content:   d.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.notes = append(s.notes, note)
		event = EventCreate
	}
	snapshot := slices.Clone(s.notes)
	s.mu.Unlock()

	s.logger.Debug("note saved", "id", note.ID, "event", event)
	s.emit(Event{Type: event, ID: note.ID, Timestamp: now / 1000})

	return note, s.persist(ctx, snapshot)
}

// Delete removes the note with id. An unknown id is a no-op.
// It reports whether a note was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.notes = slices.Delete(s.notes, idx, idx+1)
	snapshot := slices.Clone(s.notes)
	s.mu.Unlock()

	s.logger.Debug("note deleted", "id", id)
	s.emit(Event{Type: EventDelete, ID: id, Timestamp: s.now().Unix()})

	return true, s.persist(ctx, snapshot)
}

// ClearAll empties the collection once confirm accepts ClearPrompt.
// A nil confirmer or a refusal leaves everything untouched.
// It reports whether the collection was cleared.
func (s *Store) ClearAll(ctx context.Context, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ClearPrompt) {
		return false, nil
	}

	s.mu.Lock()
	s.notes = []Note{}
	s.mu.Unlock()

	s.logger.Debug("notes cleared", "key", s.key)
	s.emit(Event{Type: EventClear, Timestamp: s.now().Unix()})

	return true, s.persist(ctx, []Note{})
}

// Search sets the transient filter used by List.
func (s *Store) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = query
}

// Filter returns the active search query.
func (s *Store) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// List returns the notes matching the filter, most recently updated first.
func (s *Store) List() []Note {
	s.mu.RLock()
	query := strings.ToLower(s.filter)
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if matches(n, query) {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	sortByUpdated(out)
	return out
}

// Export returns one flat record per note, ignoring the filter.
// An empty collection yields ErrNothingToExport.
func (s *Store) Export() ([]Record, error) {
	s.mu.RLock()
	notes := slices.Clone(s.notes)
	s.mu.RUnlock()

	if len(notes) == 0 {
		return nil, ErrNothingToExport
	}

	sortByUpdated(notes)
	records := make([]Record, len(notes))
	for i, n := range notes {
		records[i] = newRecord(i+1, n)
	}
	return records, nil
}

// Get returns the note with id, for loading into an edit draft.
func (s *Store) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Note{}, false
	}
	return s.notes[idx], true
}

// Len returns the size of the whole collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Reload re-reads storage and notifies subscribers.
func (s *Store) Reload(ctx context.Context) {
	s.Load(ctx)
	s.emit(Event{Type: EventReload, Timestamp: s.now().Unix()})
}

// Watch reloads the store whenever the storage reports a change to its key.
// It returns ErrWatchUnsupported when the storage cannot be watched.
func (s *Store) Watch(ctx context.Context) error {
	w, ok := s.storage.(Watchable)
	if !ok {
		return ErrWatchUnsupported
	}

	changes, err := w.Watch(ctx, s.key)
	if err != nil {
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-changes:
				if !ok {
					return nil
				}
				s.logger.Debug("storage changed", "event", e.String())
				s.Reload(ctx)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("watch loop failed", "key", s.key, "error", err)
	}))
	return nil
}

// Subscribe registers a change listener with the given buffer.
// Events are dropped when the buffer is full. The returned func unsubscribes
// and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) emit(e Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			s.logger.Debug("subscriber buffer full, dropping event", "event", e.String())
		}
	}
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.notes, func(n Note) bool { return n.ID == id })
}

func matches(n Note, query string) bool {
	if query == "" {
		return true
	}
	hay := strings.ToLower(n.Title + " " + n.Content)
	return strings.Contains(hay, query)
}

func sortByUpdated(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		return cmp.Compare(b.UpdatedAt, a.UpdatedAt)
	})
}
