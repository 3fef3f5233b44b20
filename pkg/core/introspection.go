package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Key         string `json:"key"`
	Notes       int    `json:"notes"`
	Visible     int    `json:"visible"`
	Filter      string `json:"filter,omitempty"`
	Subscribers int    `json:"subscribers"`
	StorageType string `json:"storage_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	visible := len(s.List())

	s.mu.RLock()
	state := StoreState{
		Key:     s.key,
		Notes:   len(s.notes),
		Visible: visible,
		Filter:  s.filter,
	}
	s.mu.RUnlock()

	s.subMu.Lock()
	state.Subscribers = len(s.subs)
	s.subMu.Unlock()

	state.StorageType = "unknown"
	if s.storage != nil {
		state.StorageType = "storage"
		if comp, ok := s.storage.(introspection.Component); ok {
			state.StorageType = comp.ComponentType()
		}
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
