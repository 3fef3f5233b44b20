// Package typed binds Go values to keys of a raw byte storage.
package typed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a stored payload cannot be decoded into the slot type.
var ErrMalformed = errors.New("malformed payload")

// Backend is the raw byte storage a Slot reads from and writes to.
// core.Storage satisfies it.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Slot provides type-safe access to a single key.
// Values are encoded as JSON.
type Slot[T any] struct {
	backend Backend
	key     string
}

// NewSlot creates a typed view over key.
func NewSlot[T any](backend Backend, key string) *Slot[T] {
	return &Slot[T]{backend: backend, key: key}
}

// Key returns the key the slot is bound to.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load reads and decodes the stored value.
// Backend errors are returned unchanged so callers can match their sentinels.
// Decoding failures wrap ErrMalformed.
func (s *Slot[T]) Load(ctx context.Context) (T, error) {
	var v T

	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return v, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return v, fmt.Errorf("%w: empty payload under %q", ErrMalformed, s.key)
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

// Store encodes v and writes it under the slot key.
func (s *Slot[T]) Store(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return s.backend.Set(ctx, s.key, data)
}
