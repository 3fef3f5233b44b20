// Package notebox is the composition root for the notebox note store.
//
// It wires the core Note Store (pkg/core) to a storage adapter
// (pkg/adapters/...) chosen through functional options.
//
// The store keeps notes in memory, mirrors the whole collection to a single
// storage key after every mutation, and degrades to an empty collection when
// that key is missing or unreadable. Write failures never block a mutation;
// they come back as persistence warnings (core.IsPersistWarning).
//
// Usage:
//
//	store, err := notebox.Open(ctx, "./data",
//		notebox.WithAdapter("fs"),
//		notebox.WithLogger(logger),
//	)
//
//	note, err := store.Upsert(ctx, "Shopping", "milk, eggs", "")
//	store.Search("milk")
//	for _, n := range store.List() { ... }
package notebox
