// Package kv is the key-value persistence service behind the itinerary.
//
// The itinerary keeps its whole collection in one named slot. A Store maps
// keys to opaque byte values and must replace a value atomically: a reader
// sees either the previous value or the new one. Backends:
//
//   - File: one JSON file per key, written with temp file + rename
//   - SQLite: a single kv table (mattn/go-sqlite3)
//   - Redis: plain string keys under a prefix (go-redis)
//   - Mongo: one document per key (mongo-driver)
//   - Memory: process-local map, used by tests and --ephemeral runs
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNotExist is returned by Get for a key that has never been written or
// has been deleted.
var ErrNotExist = os.ErrNotExist

// Store persists values by key.
type Store interface {
	// Get returns the value stored under key, or ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key atomically.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Slot is one named location in a Store.
type Slot struct {
	store Store
	key   string
}

// NewSlot binds key in store.
func NewSlot(store Store, key string) *Slot {
	return &Slot{store: store, key: key}
}

// Key returns the slot name.
func (s *Slot) Key() string {
	return s.key
}

// Read returns the slot content, or ErrNotExist when the slot is absent.
func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", s.key, err)
	}
	return data, nil
}

// Write replaces the slot content.
func (s *Slot) Write(ctx context.Context, data []byte) error {
	if err := s.store.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.key, err)
	}
	return nil
}

// Clear removes the slot.
func (s *Slot) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear slot %q: %w", s.key, err)
	}
	return nil
}
