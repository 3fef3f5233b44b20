package core

import "context"

// DefaultKey is the storage key holding the serialized note collection.
const DefaultKey = "notesApp.notes"

// Storage defines the contract for durable key-value storage.
// Adhering to this interface keeps the store independent of the
// underlying mechanism (files, SQLite, memory).
type Storage interface {
	// Get returns the raw payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the payload stored under key.
	Set(ctx context.Context, key string, data []byte) error

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by storages that can report external changes to a key.
type Watchable interface {
	// Watch emits an event each time the payload under key changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Confirmer gates destructive operations behind an explicit yes/no answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}
