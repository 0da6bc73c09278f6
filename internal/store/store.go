// Package store implements the itinerary record store: an ordered
// collection of entries kept in one key-value slot.
//
// The full ordered sequence is the unit of durability. Load reads and decodes
// the whole slot; Save encodes and writes the whole collection in one slot
// write. List order is insertion order and survives save/load cycles.
//
// Store has no internal locking; callers serialize access (see
// service.Service).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sarawak-explorer/itinerary/internal/clock"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/kv"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

// Store holds the in-memory view of the slot's entries.
type Store struct {
	slot    *kv.Slot
	clock   clock.Clock
	entries []itinerary.Entry
}

// New creates a Store over slot. The clock supplies the substitute
// date/time for stored entries whose schedule cannot be decoded.
func New(slot *kv.Slot, clk clock.Clock) *Store {
	return &Store{
		slot:    slot,
		clock:   clk,
		entries: []itinerary.Entry{},
	}
}

// Load replaces the in-memory view with the slot's content.
//
// An absent slot or a slot that is not a JSON array of records loads as an
// empty collection. Records whose date or time cannot be decoded are kept
// with the current date or time substituted. Only a failing backend read is
// returned, wrapped in itinerary.ErrPersistence.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.slot.Read(ctx)
	if err != nil {
		if errors.Is(err, kv.ErrNotExist) {
			s.entries = []itinerary.Entry{}
			return nil
		}
		return fmt.Errorf("%w: %w", itinerary.ErrPersistence, err)
	}

	var records []itinerary.Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Error("itinerary slot unreadable, starting empty", err, "slot", s.slot.Key())
		s.entries = []itinerary.Entry{}
		return nil
	}

	now := s.clock.Now()
	entries := make([]itinerary.Entry, 0, len(records))
	for _, r := range records {
		e, err := r.Entry(now)
		if err != nil {
			log.Error("stored schedule unreadable, using now", err, "slot", s.slot.Key(), "id", r.ID)
		}
		entries = append(entries, e)
	}
	s.entries = entries

	log.Debug("itinerary loaded", "slot", s.slot.Key(), "entries", len(entries))
	return nil
}

// Save writes the whole collection to the slot. On failure the in-memory
// view is ahead of the persisted one and the error wraps
// itinerary.ErrPersistence.
func (s *Store) Save(ctx context.Context) error {
	data, err := Encode(s.entries)
	if err != nil {
		return fmt.Errorf("%w: %w", itinerary.ErrPersistence, err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", itinerary.ErrPersistence, err)
	}

	log.Debug("itinerary saved", "slot", s.slot.Key(), "entries", len(s.entries))
	return nil
}

// Encode renders entries as the persisted JSON array, keeping their order.
func Encode(entries []itinerary.Entry) ([]byte, error) {
	records := make([]itinerary.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record())
	}
	return json.Marshal(records)
}

// List returns the entries in insertion order. The slice is a copy.
func (s *Store) List() []itinerary.Entry {
	out := make([]itinerary.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Has reports whether an entry with id exists.
func (s *Store) Has(id string) bool {
	return s.indexOf(id) >= 0
}

// Get returns the entry with id.
func (s *Store) Get(id string) (itinerary.Entry, error) {
	i := s.indexOf(id)
	if i < 0 {
		return itinerary.Entry{}, fmt.Errorf("%w: entry %q", itinerary.ErrNotFound, id)
	}
	return s.entries[i], nil
}

// Add appends e. It fails with itinerary.ErrDuplicateID when e.ID exists.
func (s *Store) Add(e itinerary.Entry) error {
	if s.Has(e.ID) {
		return fmt.Errorf("%w: entry %q", itinerary.ErrDuplicateID, e.ID)
	}
	s.entries = append(s.entries, e)
	return nil
}

// Update replaces the date and time of entry id in place. The label and the
// entry's position are kept.
func (s *Store) Update(id string, date schedule.Date, t schedule.TimeOfDay) (itinerary.Entry, error) {
	i := s.indexOf(id)
	if i < 0 {
		return itinerary.Entry{}, fmt.Errorf("%w: entry %q", itinerary.ErrNotFound, id)
	}
	s.entries[i] = s.entries[i].WithSchedule(date, t)
	return s.entries[i], nil
}

// Remove deletes entry id. Remaining entries keep their relative order.
func (s *Store) Remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: entry %q", itinerary.ErrNotFound, id)
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
