// Package service is the itinerary façade used by the CLI and the HTTP API.
//
// Every operation is one load-mutate-save cycle on the store under the
// service mutex, so the persisted slot is the source of truth and two
// callers never interleave their cycles. Edit sessions are handed out by
// NewSession and write through the same operations.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sarawak-explorer/itinerary/internal/catalog"
	"github.com/sarawak-explorer/itinerary/internal/clock"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
	"github.com/sarawak-explorer/itinerary/internal/session"
	"github.com/sarawak-explorer/itinerary/internal/store"
)

// maxIDAttempts bounds how often AddEntry asks for a fresh id when the
// generator returns one that is already stored.
const maxIDAttempts = 3

// Service owns the itinerary store.
type Service struct {
	mu      sync.Mutex
	store   *store.Store
	ids     itinerary.IDGenerator
	catalog catalog.Provider
	clock   clock.Clock
	lease   session.WriterLease
}

// New creates a Service. The store is loaded on every call, so it may be
// passed in unloaded.
func New(st *store.Store, ids itinerary.IDGenerator, cat catalog.Provider, clk clock.Clock) *Service {
	return &Service{
		store:   st,
		ids:     ids,
		catalog: cat,
		clock:   clk,
	}
}

// Catalog returns the catalog provider.
func (s *Service) Catalog() catalog.Provider {
	return s.catalog
}

// Clock returns the service clock.
func (s *Service) Clock() clock.Clock {
	return s.clock
}

// ListEntries returns all entries in insertion order.
func (s *Service) ListEntries(ctx context.Context) ([]itinerary.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}
	return s.store.List(), nil
}

// GetEntry returns one entry.
func (s *Service) GetEntry(ctx context.Context, id string) (itinerary.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(ctx); err != nil {
		return itinerary.Entry{}, err
	}
	return s.store.Get(id)
}

// AddEntry validates d, assigns a fresh id and persists the new entry at
// the end of the itinerary.
func (s *Service) AddEntry(ctx context.Context, d itinerary.Draft) (itinerary.Entry, error) {
	if err := itinerary.Validate(d); err != nil {
		return itinerary.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(ctx); err != nil {
		return itinerary.Entry{}, err
	}

	id, err := s.freshID()
	if err != nil {
		return itinerary.Entry{}, err
	}
	e, err := itinerary.NewEntry(id, d)
	if err != nil {
		return itinerary.Entry{}, err
	}
	if err := s.store.Add(e); err != nil {
		return itinerary.Entry{}, err
	}
	if err := s.store.Save(ctx); err != nil {
		log.Error("failed to persist new entry", err, "id", id)
		return itinerary.Entry{}, err
	}

	log.Info("entry added", "id", e.ID, "label", e.Title())
	return e, nil
}

// AddFromCatalog adds an entry labelled with a catalog attraction. The
// name and region are copied into the entry; later catalog changes do not
// affect it.
func (s *Service) AddFromCatalog(ctx context.Context, region, attractionID string, date schedule.Date, t schedule.TimeOfDay) (itinerary.Entry, error) {
	r, err := s.catalog.Region(region)
	if err != nil {
		return itinerary.Entry{}, fmt.Errorf("%w: %w", itinerary.ErrNotFound, err)
	}
	a, err := s.catalog.Find(r.Name, attractionID)
	if err != nil {
		return itinerary.Entry{}, fmt.Errorf("%w: %w", itinerary.ErrNotFound, err)
	}

	d := itinerary.Draft{Attraction: &itinerary.CatalogRef{Name: a.Name, Region: r.Name}}
	d.SetSchedule(date, t)
	return s.AddEntry(ctx, d)
}

// UpdateEntrySchedule changes the date and time of entry id. The label and
// the entry's position are kept.
func (s *Service) UpdateEntrySchedule(ctx context.Context, id string, date schedule.Date, t schedule.TimeOfDay) (itinerary.Entry, error) {
	if !date.Valid() || !t.Valid() {
		return itinerary.Entry{}, fmt.Errorf("%w: schedule %v %v", schedule.ErrFormat, date, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(ctx); err != nil {
		return itinerary.Entry{}, err
	}
	e, err := s.store.Update(id, date, t)
	if err != nil {
		return itinerary.Entry{}, err
	}
	if err := s.store.Save(ctx); err != nil {
		log.Error("failed to persist schedule change", err, "id", id)
		return itinerary.Entry{}, err
	}

	log.Info("entry rescheduled", "id", id, "date", date.String(), "time", t.String())
	return e, nil
}

// DeleteEntry removes entry id.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(ctx); err != nil {
		return err
	}
	if err := s.store.Remove(id); err != nil {
		return err
	}
	if err := s.store.Save(ctx); err != nil {
		log.Error("failed to persist removal", err, "id", id)
		return err
	}

	log.Info("entry removed", "id", id)
	return nil
}

// NewSession returns an idle edit session writing through s. Only one
// session per service may be composing or editing at a time.
func (s *Service) NewSession() *session.Session {
	return session.New(s, &s.lease, s.clock)
}

// freshID returns a generated id not present in the loaded store.
func (s *Service) freshID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.NewID()
		if !s.store.Has(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: id generator keeps returning stored ids", itinerary.ErrDuplicateID)
}
