// Package session implements the edit state machine for a single itinerary
// entry.
//
//	Idle --BeginCompose--> Composing --Confirm/Cancel--> Idle
//	Idle --BeginEdit--> EditingExisting --Save/Cancel--> Idle
//	Idle|EditingExisting --Delete--> Idle
//
// Every durable effect goes through a Writer, so a session never holds
// state that the store has not seen. A session out of Idle holds the
// writer's Lease; at most one session per service is composing or editing.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarawak-explorer/itinerary/internal/clock"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

var (
	// ErrInvalidTransition indicates an operation not allowed in the
	// session's current mode.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSessionBusy indicates another session already holds the lease.
	ErrSessionBusy = errors.New("another edit session is active")
)

// Mode is the session state.
type Mode int

const (
	Idle Mode = iota
	Composing
	EditingExisting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	case EditingExisting:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Writer applies durable changes to the itinerary.
type Writer interface {
	AddEntry(ctx context.Context, d itinerary.Draft) (itinerary.Entry, error)
	UpdateEntrySchedule(ctx context.Context, id string, date schedule.Date, t schedule.TimeOfDay) (itinerary.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// Lease grants exclusive write access to one session at a time.
type Lease interface {
	Acquire() error
	Release()
}

// Session is one user's add/view/edit flow. It is not safe for concurrent
// use; the lease only keeps separate sessions apart.
type Session struct {
	writer Writer
	lease  Lease
	clock  clock.Clock

	mode   Mode
	draft  itinerary.Draft
	target string
}

// New creates an idle session.
func New(w Writer, lease Lease, clk clock.Clock) *Session {
	return &Session{
		writer: w,
		lease:  lease,
		clock:  clk,
	}
}

// Mode returns the current state.
func (s *Session) Mode() Mode {
	return s.mode
}

// Draft returns a copy of the working fields.
func (s *Session) Draft() itinerary.Draft {
	return s.draft
}

// Target returns the id of the entry being edited, or "" when not editing.
func (s *Session) Target() string {
	return s.target
}

// BeginCompose starts a new entry with an empty description and the current
// date and time.
func (s *Session) BeginCompose() error {
	if s.mode != Idle {
		return s.invalid("begin compose")
	}
	if err := s.lease.Acquire(); err != nil {
		return err
	}

	s.draft = itinerary.Draft{}
	s.draft.SetSchedule(schedule.FromTime(s.clock.Now()))
	s.target = ""
	s.mode = Composing

	log.Debug("session composing")
	return nil
}

// SetDescription sets the free-text label of a new entry.
func (s *Session) SetDescription(desc string) error {
	if s.mode != Composing {
		return s.invalid("set description")
	}
	s.draft.Description = desc
	return nil
}

// SetAttraction labels a new entry with a catalog attraction.
func (s *Session) SetAttraction(ref itinerary.CatalogRef) error {
	if s.mode != Composing {
		return s.invalid("set attraction")
	}
	s.draft.Attraction = &ref
	return nil
}

// SetDate changes the draft date.
func (s *Session) SetDate(d schedule.Date) error {
	if s.mode == Idle {
		return s.invalid("set date")
	}
	if !d.Valid() {
		return fmt.Errorf("%w: date %v", schedule.ErrFormat, d)
	}
	s.draft.Date = &d
	return nil
}

// SetTime changes the draft time.
func (s *Session) SetTime(t schedule.TimeOfDay) error {
	if s.mode == Idle {
		return s.invalid("set time")
	}
	if !t.Valid() {
		return fmt.Errorf("%w: time %02d:%02d", schedule.ErrFormat, t.Hour, t.Minute)
	}
	s.draft.Time = &t
	return nil
}

// Confirm validates the draft and adds it as a new entry. On any error the
// session stays in Composing with the draft kept, so the user can fix it or
// retry.
func (s *Session) Confirm(ctx context.Context) (itinerary.Entry, error) {
	if s.mode != Composing {
		return itinerary.Entry{}, s.invalid("confirm")
	}
	if err := itinerary.Validate(s.draft); err != nil {
		return itinerary.Entry{}, err
	}

	e, err := s.writer.AddEntry(ctx, s.draft)
	if err != nil {
		return itinerary.Entry{}, err
	}

	s.toIdle()
	log.Debug("session confirmed", "id", e.ID)
	return e, nil
}

// BeginEdit opens a stored entry for rescheduling. The draft is seeded by
// decoding the record's date and time; a field that does not decode is
// seeded with the current date or time.
func (s *Session) BeginEdit(r itinerary.Record) error {
	if s.mode != Idle {
		return s.invalid("begin edit")
	}
	if r.ID == "" {
		return fmt.Errorf("%w: entry without id", itinerary.ErrNotFound)
	}
	if err := s.lease.Acquire(); err != nil {
		return err
	}

	e, err := r.Entry(s.clock.Now())
	if err != nil {
		log.Error("seeding edit with current time", err, "id", r.ID)
	}

	s.draft = itinerary.Draft{}
	if ft, ok := e.Label.(itinerary.FreeText); ok {
		s.draft.Description = ft.Description
	}
	if ref, ok := e.Label.(itinerary.CatalogRef); ok {
		s.draft.Attraction = &ref
	}
	s.draft.SetSchedule(e.Date, e.Time)
	s.target = r.ID
	s.mode = EditingExisting

	log.Debug("session editing", "id", r.ID)
	return nil
}

// Save writes the draft schedule to the target entry. Labels never change.
//
// If the target no longer exists the session returns to Idle and the
// not-found error is returned. Other failures keep the session editing.
func (s *Session) Save(ctx context.Context) (itinerary.Entry, error) {
	if s.mode != EditingExisting {
		return itinerary.Entry{}, s.invalid("save")
	}
	if s.draft.Date == nil || s.draft.Time == nil {
		return itinerary.Entry{}, &itinerary.ValidationError{Kind: itinerary.MissingSchedule}
	}

	e, err := s.writer.UpdateEntrySchedule(ctx, s.target, *s.draft.Date, *s.draft.Time)
	if err != nil {
		if errors.Is(err, itinerary.ErrNotFound) {
			s.toIdle()
		}
		return itinerary.Entry{}, err
	}

	s.toIdle()
	log.Debug("session saved", "id", e.ID)
	return e, nil
}

// Cancel discards the draft. Nothing is persisted.
func (s *Session) Cancel() error {
	if s.mode == Idle {
		return s.invalid("cancel")
	}
	s.toIdle()
	return nil
}

// Delete removes entry id. It is allowed while idle or editing and ends in
// Idle; a missing entry is reported but still ends the edit. A persistence
// failure leaves the session where it was.
func (s *Session) Delete(ctx context.Context, id string) error {
	if s.mode == Composing {
		return s.invalid("delete")
	}

	err := s.writer.DeleteEntry(ctx, id)
	if err != nil && !errors.Is(err, itinerary.ErrNotFound) {
		return err
	}
	if s.mode != Idle {
		s.toIdle()
	}
	return err
}

func (s *Session) toIdle() {
	if s.mode != Idle {
		s.lease.Release()
	}
	s.mode = Idle
	s.draft = itinerary.Draft{}
	s.target = ""
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.mode)
}
