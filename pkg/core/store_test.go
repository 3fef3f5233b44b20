package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebox/pkg/adapters/memory"
	"github.com/aretw0/notebox/pkg/core"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// failingStorage wraps a memory storage and fails on demand.
type failingStorage struct {
	*memory.Storage
	getErr error
	setErr error
}

func (f *failingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Storage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key string, data []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Storage.Set(ctx, key, data)
}

func setupStore(t *testing.T) (*core.Store, *memory.Storage, *fakeClock) {
	t.Helper()

	storage := memory.NewStorage()
	clock := &fakeClock{t: time.Date(2025, 9, 15, 8, 0, 0, 0, time.UTC)}
	seq := 0
	store := core.NewStore(storage,
		core.WithClock(clock.Now),
		core.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("note-%d", seq)
		}),
	)
	store.Load(context.Background())
	return store, storage, clock
}

func storedNotes(t *testing.T, storage core.Storage) []core.Note {
	t.Helper()
	data, err := storage.Get(context.Background(), core.DefaultKey)
	require.NoError(t, err)

	var notes []core.Note
	require.NoError(t, json.Unmarshal(data, &notes))
	return notes
}

func TestStore_UpsertCreates(t *testing.T) {
	store, storage, _ := setupStore(t)
	ctx := context.Background()

	note, err := store.Upsert(ctx, "  Shopping  ", "\tmilk, eggs\n", "")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "note-1", note.ID)
	assert.Equal(t, "Shopping", note.Title)
	assert.Equal(t, "milk, eggs", note.Content)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	persisted := storedNotes(t, storage)
	require.Len(t, persisted, 1)
	assert.Equal(t, note, persisted[0])
}

func TestStore_UpsertUpdates(t *testing.T) {
	store, storage, clock := setupStore(t)
	ctx := context.Background()

	original, err := store.Upsert(ctx, "Work", "draft report", "")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, err := store.Upsert(ctx, "Work", "finish report", original.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, original.UpdatedAt+time.Minute.Milliseconds(), updated.UpdatedAt)
	assert.Equal(t, "finish report", updated.Content)
	assert.Equal(t, updated, storedNotes(t, storage)[0])
}

func TestStore_UpsertKeepsTimestampsMonotonic(t *testing.T) {
	store, _, clock := setupStore(t)
	ctx := context.Background()

	original, err := store.Upsert(ctx, "Clock", "skew", "")
	require.NoError(t, err)

	clock.Advance(-time.Hour)
	updated, err := store.Upsert(ctx, "Clock", "skewed back", original.ID)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, updated.UpdatedAt, original.UpdatedAt)
	assert.LessOrEqual(t, updated.CreatedAt, updated.UpdatedAt)
}

func TestStore_UpsertUnknownIDCreates(t *testing.T) {
	store, _, _ := setupStore(t)

	note, err := store.Upsert(context.Background(), "Ghost", "edit target vanished", "missing-id")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "note-1", note.ID)
}

func TestStore_UpsertValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		fields  []string
	}{
		{name: "Empty Title", title: "", content: "non-empty", fields: []string{"title"}},
		{name: "Empty Content", title: "non-empty", content: "", fields: []string{"content"}},
		{name: "Both Empty", title: "", content: "", fields: []string{"title", "content"}},
		{name: "Whitespace Only", title: "   ", content: "\n\t", fields: []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, storage, _ := setupStore(t)
			ctx := context.Background()

			_, err := store.Upsert(ctx, tt.title, tt.content, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrValidation))
			assert.False(t, core.IsPersistWarning(err))

			var ve *core.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Len(t, ve.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.True(t, ve.Has(f), "expected %s to be reported", f)
			}

			assert.Equal(t, 0, store.Len())
			_, err = storage.Get(ctx, core.DefaultKey)
			assert.ErrorIs(t, err, core.ErrNotFound, "nothing should be persisted")
		})
	}
}

func TestStore_ValidationMessages(t *testing.T) {
	store, _, _ := setupStore(t)

	_, err := store.Upsert(context.Background(), "", "", "")

	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Title is required.", ve.Fields["title"])
	assert.Equal(t, "Note content is required.", ve.Fields["content"])
}

func TestStore_UpdateRejectedLeavesNoteIntact(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()

	note, err := store.Upsert(ctx, "Keep", "me", "")
	require.NoError(t, err)

	_, err = store.Upsert(ctx, "Keep", " ", note.ID)
	require.Error(t, err)

	got, ok := store.Get(note.ID)
	require.True(t, ok)
	assert.Equal(t, note, got)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	store, storage, _ := setupStore(t)
	ctx := context.Background()

	note, err := store.Upsert(ctx, "Temp", "gone soon", "")
	require.NoError(t, err)

	removed, err := store.Delete(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, storedNotes(t, storage))

	removed, err = store.Delete(ctx, note.ID)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_ClearAll(t *testing.T) {
	t.Run("Refused Confirmation", func(t *testing.T) {
		store, _, _ := setupStore(t)
		ctx := context.Background()
		_, err := store.Upsert(ctx, "A", "a", "")
		require.NoError(t, err)

		var asked string
		cleared, err := store.ClearAll(ctx, core.ConfirmFunc(func(prompt string) bool {
			asked = prompt
			return false
		}))
		require.NoError(t, err)
		assert.False(t, cleared)
		assert.Equal(t, core.ClearPrompt, asked)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Nil Confirmer", func(t *testing.T) {
		store, _, _ := setupStore(t)
		ctx := context.Background()
		_, err := store.Upsert(ctx, "A", "a", "")
		require.NoError(t, err)

		cleared, err := store.ClearAll(ctx, nil)
		require.NoError(t, err)
		assert.False(t, cleared)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Confirmed", func(t *testing.T) {
		store, storage, _ := setupStore(t)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			_, err := store.Upsert(ctx, fmt.Sprintf("N%d", i), "body", "")
			require.NoError(t, err)
		}

		cleared, err := store.ClearAll(ctx, core.ConfirmFunc(func(string) bool { return true }))
		require.NoError(t, err)
		assert.True(t, cleared)
		assert.Equal(t, 0, store.Len())

		data, err := storage.Get(ctx, core.DefaultKey)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	})

	t.Run("Empty Collection", func(t *testing.T) {
		store, _, _ := setupStore(t)

		cleared, err := store.ClearAll(context.Background(), core.ConfirmFunc(func(string) bool { return true }))
		assert.NoError(t, err)
		assert.True(t, cleared)
		assert.Equal(t, 0, store.Len())
	})
}

func TestStore_SearchAndList(t *testing.T) {
	store, _, clock := setupStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "Shopping", "Milk, eggs", "")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = store.Upsert(ctx, "Work", "finish report", "")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = store.Upsert(ctx, "Recipes", "pancakes need MILK", "")
	require.NoError(t, err)

	store.Search("")
	all := store.List()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Recipes", "Work", "Shopping"}, titles(all))

	store.Search("milk")
	assert.Equal(t, "milk", store.Filter())
	assert.Equal(t, []string{"Recipes", "Shopping"}, titles(store.List()))

	store.Search("WORK")
	assert.Equal(t, []string{"Work"}, titles(store.List()))

	store.Search("nothing matches this")
	assert.Empty(t, store.List())
	assert.Equal(t, 3, store.Len(), "filter must not touch the collection")
}

func TestStore_ListSortedByUpdatedDesc(t *testing.T) {
	store, _, clock := setupStore(t)
	ctx := context.Background()

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		n, err := store.Upsert(ctx, fmt.Sprintf("Note %d", i), "body", "")
		require.NoError(t, err)
		ids = append(ids, n.ID)
		clock.Advance(time.Duration(i+1) * time.Second)
	}

	// Touch the oldest note so it moves to the front.
	_, err := store.Upsert(ctx, "Note 0", "edited", ids[0])
	require.NoError(t, err)

	list := store.List()
	require.Len(t, list, 5)
	assert.Equal(t, ids[0], list[0].ID)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].UpdatedAt, list[i].UpdatedAt)
	}
}

func TestStore_ListTiesAreStable(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := store.Upsert(ctx, title, "same instant", "")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"first", "second", "third"}, titles(store.List()))
}

func TestStore_LoadSaveRoundTrip(t *testing.T) {
	store, storage, clock := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := store.Upsert(ctx, fmt.Sprintf("T%d", i), fmt.Sprintf("C%d", i), "")
		require.NoError(t, err)
		clock.Advance(time.Second)
	}
	require.NoError(t, store.Save(ctx))

	reopened := core.NewStore(storage)
	reopened.Load(ctx)

	assert.ElementsMatch(t, store.List(), reopened.List())
}

func TestStore_LoadDegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	payloads := map[string]string{
		"Malformed":   "[{oops",
		"Not A List":  `{"id":"x","title":"t"}`,
		"Scalar":      `42`,
		"Null":        `null`,
		"Empty Bytes": ``,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			storage := memory.NewStorage()
			require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte(payload)))

			store := core.NewStore(storage)
			store.Load(ctx)
			assert.Equal(t, 0, store.Len())
			assert.NotNil(t, store.List())
		})
	}

	t.Run("Read Failure", func(t *testing.T) {
		storage := &failingStorage{Storage: memory.NewStorage(), getErr: errors.New("disk on fire")}
		store := core.NewStore(storage)
		store.Load(ctx)
		assert.Equal(t, 0, store.Len())
	})
}

func TestStore_LoadsBrowserPayload(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	payload := `[{"id":"lz3k9x1a2b","title":"Hello","content":"World","createdAt":1726387200000,"updatedAt":1726387260000}]`
	require.NoError(t, storage.Set(ctx, core.DefaultKey, []byte(payload)))

	store := core.NewStore(storage)
	store.Load(ctx)

	note, ok := store.Get("lz3k9x1a2b")
	require.True(t, ok)
	assert.Equal(t, "Hello", note.Title)
	assert.Equal(t, int64(1726387200000), note.CreatedAt)
	assert.Equal(t, int64(1726387260000), note.UpdatedAt)
}

func TestStore_WriteFailureIsAWarning(t *testing.T) {
	storage := &failingStorage{Storage: memory.NewStorage(), setErr: errors.New("quota exceeded")}
	store := core.NewStore(storage)
	ctx := context.Background()

	note, err := store.Upsert(ctx, "Unsaved", "still in memory", "")
	require.Error(t, err)
	assert.True(t, core.IsPersistWarning(err))
	assert.False(t, errors.Is(err, core.ErrValidation))

	got, ok := store.Get(note.ID)
	require.True(t, ok, "in-memory state stays authoritative")
	assert.Equal(t, "Unsaved", got.Title)

	removed, err := store.Delete(ctx, note.ID)
	assert.True(t, removed)
	assert.True(t, core.IsPersistWarning(err))
	assert.Equal(t, 0, store.Len())
}

func TestStore_Export(t *testing.T) {
	t.Run("Empty Collection", func(t *testing.T) {
		store, _, _ := setupStore(t)

		records, err := store.Export()
		assert.ErrorIs(t, err, core.ErrNothingToExport)
		assert.Nil(t, records)
	})

	t.Run("Ignores Filter", func(t *testing.T) {
		store, _, clock := setupStore(t)
		ctx := context.Background()

		first, err := store.Upsert(ctx, "Shopping", "milk", "")
		require.NoError(t, err)
		clock.Advance(1500 * time.Millisecond)
		second, err := store.Upsert(ctx, "Work", "report", "")
		require.NoError(t, err)

		store.Search("milk")
		records, err := store.Export()
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, core.Record{
			Row:       1,
			ID:        second.ID,
			Title:     "Work",
			Content:   "report",
			CreatedAt: "2025-09-15T08:00:01.500Z",
			UpdatedAt: "2025-09-15T08:00:01.500Z",
		}, records[0])
		assert.Equal(t, 2, records[1].Row)
		assert.Equal(t, first.ID, records[1].ID)
		assert.Equal(t, "2025-09-15T08:00:00.000Z", records[1].CreatedAt)
		assert.Equal(t, []any{2, first.ID, "Shopping", "milk", "2025-09-15T08:00:00.000Z", "2025-09-15T08:00:00.000Z"}, records[1].Values())
	})
}

func TestStore_ScenarioShoppingAndWork(t *testing.T) {
	store, storage, clock := setupStore(t)
	ctx := context.Background()

	shopping, err := store.Upsert(ctx, "Shopping", "milk, eggs", "")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	clock.Advance(time.Second)
	_, err = store.Upsert(ctx, "Work", "finish report", "")
	require.NoError(t, err)

	store.Search("milk")
	found := store.List()
	require.Len(t, found, 1)
	assert.Equal(t, shopping.ID, found[0].ID)

	removed, err := store.Delete(ctx, shopping.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	store.Search("")
	remaining := store.List()
	require.Len(t, remaining, 1)
	assert.Equal(t, "Work", remaining[0].Title)
	assert.Equal(t, []string{"Work"}, titles(storedNotes(t, storage)))
}

func TestStore_DefaultIDsAreUnique(t *testing.T) {
	store := core.NewStore(memory.NewStorage())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n, err := store.Upsert(ctx, "t", "c", "")
		require.NoError(t, err)
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestStore_Subscribe(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()

	events, unsubscribe := store.Subscribe(10)

	note, err := store.Upsert(ctx, "A", "a", "")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "A", "b", note.ID)
	require.NoError(t, err)
	_, err = store.Delete(ctx, note.ID)
	require.NoError(t, err)
	_, err = store.ClearAll(ctx, core.ConfirmFunc(func(string) bool { return true }))
	require.NoError(t, err)
	store.Reload(ctx)

	unsubscribe()
	unsubscribe()

	var got []core.EventType
	for e := range events {
		got = append(got, e.Type)
	}
	assert.Equal(t, []core.EventType{
		core.EventCreate, core.EventModify, core.EventDelete, core.EventClear, core.EventReload,
	}, got)
}

func TestStore_WatchUnsupported(t *testing.T) {
	store, _, _ := setupStore(t)
	assert.ErrorIs(t, store.Watch(context.Background()), core.ErrWatchUnsupported)
}

func TestStore_State(t *testing.T) {
	store, _, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "Shopping", "milk", "")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "Work", "report", "")
	require.NoError(t, err)
	store.Search("milk")

	state, ok := store.State().(core.StoreState)
	require.True(t, ok)
	assert.Equal(t, core.StoreState{
		Key:         core.DefaultKey,
		Notes:       2,
		Visible:     1,
		Filter:      "milk",
		StorageType: "memory-storage",
	}, state)
	assert.Equal(t, "store", store.ComponentType())
}

func titles(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}
