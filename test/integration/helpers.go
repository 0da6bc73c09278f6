package integration

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sarawak-explorer/itinerary/internal/catalog"
	"github.com/sarawak-explorer/itinerary/internal/clock"
	"github.com/sarawak-explorer/itinerary/internal/fsops"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/kv"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/service"
	"github.com/sarawak-explorer/itinerary/internal/store"
)

func init() {
	log.SetOutput(io.Discard)
}

var testNow = time.Date(2025, 1, 5, 20, 0, 0, 0, time.FixedZone("MYT", 8*60*60))

// diskBackends are the backends that keep data across a reopen without an
// external server.
var diskBackends = []string{kv.BackendFile, kv.BackendSQLite}

// testStack is a fully wired service over a real backend in a temp dir.
type testStack struct {
	dir   string
	opts  kv.Options
	fs    fsops.FS
	clock *clock.FakeClock
	kv    kv.Store
	slot  *kv.Slot
	svc   *service.Service
}

func setupStack(t *testing.T, backend string) *testStack {
	t.Helper()
	dir := t.TempDir()
	s := &testStack{
		dir: dir,
		opts: kv.Options{
			Backend:    backend,
			Dir:        filepath.Join(dir, "data"),
			SQLitePath: filepath.Join(dir, "itinerary.db"),
		},
		fs:    fsops.NewRealFS(),
		clock: clock.NewFakeClock(testNow),
	}
	s.open(t)
	return s
}

// open (re)connects to the backend and builds a service that loads the slot
// from scratch.
func (s *testStack) open(t *testing.T) {
	t.Helper()
	backend, err := kv.Open(context.Background(), s.fs, s.opts)
	if err != nil {
		t.Fatalf("kv.Open(%s) error = %v", s.opts.Backend, err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	s.kv = backend
	s.slot = kv.NewSlot(backend, "itinerary")
	s.svc = service.New(store.New(s.slot, s.clock), itinerary.NewTimestampIDs(s.clock), catalog.Default(), s.clock)
}

// reopen closes the backend and opens it again, as a restarted process would.
func (s *testStack) reopen(t *testing.T) {
	t.Helper()
	if err := s.kv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	s.open(t)
}

func titles(entries []itinerary.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title())
	}
	return out
}
