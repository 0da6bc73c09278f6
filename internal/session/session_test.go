package session

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/sarawak-explorer/itinerary/internal/clock"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

func init() {
	log.SetOutput(io.Discard)
}

var testNow = time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)

// mockWriter records calls and keeps entries in a map.
type mockWriter struct {
	entries map[string]itinerary.Entry
	nextID  int
	failErr error

	adds    int
	updates int
	deletes int
}

func newMockWriter() *mockWriter {
	return &mockWriter{entries: make(map[string]itinerary.Entry)}
}

func (m *mockWriter) AddEntry(_ context.Context, d itinerary.Draft) (itinerary.Entry, error) {
	m.adds++
	if m.failErr != nil {
		return itinerary.Entry{}, m.failErr
	}
	m.nextID++
	e, err := itinerary.NewEntry(strconv.Itoa(m.nextID), d)
	if err != nil {
		return itinerary.Entry{}, err
	}
	m.entries[e.ID] = e
	return e, nil
}

func (m *mockWriter) UpdateEntrySchedule(_ context.Context, id string, date schedule.Date, t schedule.TimeOfDay) (itinerary.Entry, error) {
	m.updates++
	if m.failErr != nil {
		return itinerary.Entry{}, m.failErr
	}
	e, ok := m.entries[id]
	if !ok {
		return itinerary.Entry{}, itinerary.ErrNotFound
	}
	e = e.WithSchedule(date, t)
	m.entries[id] = e
	return e, nil
}

func (m *mockWriter) DeleteEntry(_ context.Context, id string) error {
	m.deletes++
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.entries[id]; !ok {
		return itinerary.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func newTestSession() (*Session, *mockWriter, *WriterLease) {
	w := newMockWriter()
	lease := &WriterLease{}
	return New(w, lease, clock.NewFakeClock(testNow)), w, lease
}

func TestBeginCompose_SeedsNow(t *testing.T) {
	s, _, lease := newTestSession()

	if err := s.BeginCompose(); err != nil {
		t.Fatalf("BeginCompose() error = %v", err)
	}
	if s.Mode() != Composing {
		t.Errorf("Mode() = %v, want composing", s.Mode())
	}
	if !lease.Held() {
		t.Error("lease not held while composing")
	}

	d := s.Draft()
	wantDate, wantTime := schedule.FromTime(testNow)
	if d.Date == nil || *d.Date != wantDate {
		t.Errorf("draft date = %v, want %v", d.Date, wantDate)
	}
	if d.Time == nil || *d.Time != wantTime {
		t.Errorf("draft time = %v, want %v", d.Time, wantTime)
	}
	if d.Description != "" {
		t.Errorf("draft description = %q, want empty", d.Description)
	}
}

func TestConfirm_AddsAndReturnsToIdle(t *testing.T) {
	s, w, lease := newTestSession()
	_ = s.BeginCompose()
	_ = s.SetDescription("Bako National Park")
	_ = s.SetTime(schedule.TimeOfDay{Hour: 9})

	e, err := s.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if e.Title() != "Bako National Park" {
		t.Errorf("entry title = %q", e.Title())
	}
	if e.Time != (schedule.TimeOfDay{Hour: 9}) {
		t.Errorf("entry time = %v, want 9:00 AM", e.Time)
	}
	if s.Mode() != Idle {
		t.Errorf("Mode() = %v, want idle", s.Mode())
	}
	if lease.Held() {
		t.Error("lease still held after confirm")
	}
	if len(w.entries) != 1 {
		t.Errorf("writer has %d entries, want 1", len(w.entries))
	}
}

func TestConfirm_ValidationKeepsComposing(t *testing.T) {
	tests := []struct {
		name string
		desc string
	}{
		{"empty", ""},
		{"whitespace", "   \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, w, _ := newTestSession()
			_ = s.BeginCompose()
			_ = s.SetDescription(tt.desc)

			_, err := s.Confirm(context.Background())
			var verr *itinerary.ValidationError
			if !errors.As(err, &verr) || verr.Kind != itinerary.EmptyDescription {
				t.Fatalf("Confirm() error = %v, want EmptyDescription", err)
			}
			if s.Mode() != Composing {
				t.Errorf("Mode() = %v, want composing", s.Mode())
			}
			if w.adds != 0 {
				t.Errorf("writer called %d times, want 0", w.adds)
			}
		})
	}
}

func TestConfirm_PersistenceFailureKeepsDraft(t *testing.T) {
	s, w, lease := newTestSession()
	w.failErr = itinerary.ErrPersistence
	_ = s.BeginCompose()
	_ = s.SetDescription("Semenggoh")

	_, err := s.Confirm(context.Background())
	if !errors.Is(err, itinerary.ErrPersistence) {
		t.Fatalf("Confirm() error = %v, want ErrPersistence", err)
	}
	if s.Mode() != Composing {
		t.Errorf("Mode() = %v, want composing", s.Mode())
	}
	if s.Draft().Description != "Semenggoh" {
		t.Errorf("draft description = %q, want kept", s.Draft().Description)
	}
	if !lease.Held() {
		t.Error("lease released after failed confirm")
	}

	// Retry succeeds once the backend recovers.
	w.failErr = nil
	if _, err := s.Confirm(context.Background()); err != nil {
		t.Fatalf("retry Confirm() error = %v", err)
	}
}

func TestConfirm_WithAttraction(t *testing.T) {
	s, _, _ := newTestSession()
	_ = s.BeginCompose()
	_ = s.SetAttraction(itinerary.CatalogRef{Name: "Fort Margherita", Region: "Kuching"})

	e, err := s.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if _, ok := e.Label.(itinerary.CatalogRef); !ok {
		t.Errorf("label = %T, want CatalogRef", e.Label)
	}
}

func TestCancel_PersistsNothing(t *testing.T) {
	s, w, lease := newTestSession()
	_ = s.BeginCompose()
	_ = s.SetDescription("Bau caves")

	if err := s.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if s.Mode() != Idle || lease.Held() {
		t.Errorf("after cancel mode = %v, lease held = %v", s.Mode(), lease.Held())
	}
	if w.adds+w.updates+w.deletes != 0 {
		t.Error("cancel touched the writer")
	}
}

func seededRecord(t *testing.T, w *mockWriter) itinerary.Record {
	t.Helper()
	d := itinerary.Draft{Description: "Bako National Park"}
	d.SetSchedule(schedule.Date{Year: 2025, Month: time.January, Day: 6}, schedule.TimeOfDay{Hour: 9})
	e, err := itinerary.NewEntry("1736130000000", d)
	if err != nil {
		t.Fatal(err)
	}
	w.entries[e.ID] = e
	return e.Record()
}

func TestBeginEdit_SeedsFromRecord(t *testing.T) {
	s, w, _ := newTestSession()
	r := seededRecord(t, w)

	if err := s.BeginEdit(r); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	if s.Mode() != EditingExisting || s.Target() != r.ID {
		t.Fatalf("mode = %v target = %q", s.Mode(), s.Target())
	}
	d := s.Draft()
	if *d.Date != (schedule.Date{Year: 2025, Month: time.January, Day: 6}) {
		t.Errorf("draft date = %v", *d.Date)
	}
	if *d.Time != (schedule.TimeOfDay{Hour: 9}) {
		t.Errorf("draft time = %v", *d.Time)
	}
}

func TestBeginEdit_UndecodableFallsBackToNow(t *testing.T) {
	s, _, _ := newTestSession()
	r := itinerary.Record{ID: "1", Date: "tomorrow", Time: "noon", Description: "x"}

	if err := s.BeginEdit(r); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	wantDate, wantTime := schedule.FromTime(testNow)
	if *s.Draft().Date != wantDate || *s.Draft().Time != wantTime {
		t.Errorf("draft = %v %v, want now", *s.Draft().Date, *s.Draft().Time)
	}
}

func TestSave_UpdatesScheduleOnly(t *testing.T) {
	s, w, lease := newTestSession()
	r := seededRecord(t, w)
	_ = s.BeginEdit(r)

	newDate := schedule.Date{Year: 2025, Month: time.January, Day: 7}
	_ = s.SetDate(newDate)
	_ = s.SetTime(schedule.TimeOfDay{Hour: 14, Minute: 15})

	e, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if e.Date != newDate || e.Time != (schedule.TimeOfDay{Hour: 14, Minute: 15}) {
		t.Errorf("saved schedule = %v %v", e.Date, e.Time)
	}
	if e.Title() != "Bako National Park" {
		t.Errorf("title changed to %q", e.Title())
	}
	if s.Mode() != Idle || lease.Held() {
		t.Errorf("after save mode = %v, lease held = %v", s.Mode(), lease.Held())
	}
}

func TestSave_NotFoundReturnsToIdle(t *testing.T) {
	s, w, lease := newTestSession()
	r := seededRecord(t, w)
	_ = s.BeginEdit(r)
	delete(w.entries, r.ID)

	_, err := s.Save(context.Background())
	if !errors.Is(err, itinerary.ErrNotFound) {
		t.Fatalf("Save() error = %v, want ErrNotFound", err)
	}
	if s.Mode() != Idle || lease.Held() {
		t.Errorf("after not found mode = %v, lease held = %v", s.Mode(), lease.Held())
	}
}

func TestSave_PersistenceFailureStaysEditing(t *testing.T) {
	s, w, _ := newTestSession()
	r := seededRecord(t, w)
	_ = s.BeginEdit(r)
	w.failErr = itinerary.ErrPersistence

	if _, err := s.Save(context.Background()); !errors.Is(err, itinerary.ErrPersistence) {
		t.Fatalf("Save() error = %v, want ErrPersistence", err)
	}
	if s.Mode() != EditingExisting || s.Target() != r.ID {
		t.Errorf("mode = %v target = %q, want editing %s", s.Mode(), s.Target(), r.ID)
	}
}

func TestDelete(t *testing.T) {
	t.Run("from idle", func(t *testing.T) {
		s, w, _ := newTestSession()
		r := seededRecord(t, w)
		if err := s.Delete(context.Background(), r.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if len(w.entries) != 0 {
			t.Error("entry not deleted")
		}
	})

	t.Run("from editing", func(t *testing.T) {
		s, w, lease := newTestSession()
		r := seededRecord(t, w)
		_ = s.BeginEdit(r)
		if err := s.Delete(context.Background(), r.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if s.Mode() != Idle || lease.Held() {
			t.Errorf("mode = %v, lease held = %v", s.Mode(), lease.Held())
		}
	})

	t.Run("missing is reported and ends edit", func(t *testing.T) {
		s, w, _ := newTestSession()
		r := seededRecord(t, w)
		_ = s.BeginEdit(r)
		delete(w.entries, r.ID)
		if err := s.Delete(context.Background(), r.ID); !errors.Is(err, itinerary.ErrNotFound) {
			t.Fatalf("Delete() error = %v, want ErrNotFound", err)
		}
		if s.Mode() != Idle {
			t.Errorf("mode = %v, want idle", s.Mode())
		}
	})

	t.Run("persistence failure keeps editing", func(t *testing.T) {
		s, w, _ := newTestSession()
		r := seededRecord(t, w)
		_ = s.BeginEdit(r)
		w.failErr = itinerary.ErrPersistence
		if err := s.Delete(context.Background(), r.ID); !errors.Is(err, itinerary.ErrPersistence) {
			t.Fatalf("Delete() error = %v, want ErrPersistence", err)
		}
		if s.Mode() != EditingExisting {
			t.Errorf("mode = %v, want editing", s.Mode())
		}
	})
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		setup func(s *Session, w *mockWriter, t *testing.T)
		op    func(s *Session) error
	}{
		{
			name: "confirm while idle",
			op: func(s *Session) error {
				_, err := s.Confirm(ctx)
				return err
			},
		},
		{
			name: "save while idle",
			op: func(s *Session) error {
				_, err := s.Save(ctx)
				return err
			},
		},
		{
			name: "cancel while idle",
			op:   func(s *Session) error { return s.Cancel() },
		},
		{
			name: "set date while idle",
			op:   func(s *Session) error { return s.SetDate(schedule.Date{Year: 2025, Month: 1, Day: 1}) },
		},
		{
			name:  "compose twice",
			setup: func(s *Session, _ *mockWriter, _ *testing.T) { _ = s.BeginCompose() },
			op:    func(s *Session) error { return s.BeginCompose() },
		},
		{
			name:  "save while composing",
			setup: func(s *Session, _ *mockWriter, _ *testing.T) { _ = s.BeginCompose() },
			op: func(s *Session) error {
				_, err := s.Save(ctx)
				return err
			},
		},
		{
			name:  "delete while composing",
			setup: func(s *Session, _ *mockWriter, _ *testing.T) { _ = s.BeginCompose() },
			op:    func(s *Session) error { return s.Delete(ctx, "1") },
		},
		{
			name: "relabel while editing",
			setup: func(s *Session, w *mockWriter, t *testing.T) {
				_ = s.BeginEdit(seededRecord(t, w))
			},
			op: func(s *Session) error { return s.SetDescription("new label") },
		},
		{
			name: "confirm while editing",
			setup: func(s *Session, w *mockWriter, t *testing.T) {
				_ = s.BeginEdit(seededRecord(t, w))
			},
			op: func(s *Session) error {
				_, err := s.Confirm(ctx)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, w, _ := newTestSession()
			if tt.setup != nil {
				tt.setup(s, w, t)
			}
			if err := tt.op(s); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestLease_OneActiveSession(t *testing.T) {
	w := newMockWriter()
	lease := &WriterLease{}
	clk := clock.NewFakeClock(testNow)
	first := New(w, lease, clk)
	second := New(w, lease, clk)

	if err := first.BeginCompose(); err != nil {
		t.Fatal(err)
	}
	if err := second.BeginCompose(); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("second BeginCompose() error = %v, want ErrSessionBusy", err)
	}
	if second.Mode() != Idle {
		t.Errorf("second Mode() = %v, want idle", second.Mode())
	}

	_ = first.Cancel()
	if err := second.BeginCompose(); err != nil {
		t.Errorf("BeginCompose() after release error = %v", err)
	}
}
