package itinerary

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/sarawak-explorer/itinerary/internal/clock"
)

// IDGenerator produces entry ids that sort by creation order.
type IDGenerator interface {
	NewID() string
}

// TimestampIDs issues the current Unix time in milliseconds as a decimal
// string. Two ids issued in the same millisecond are bumped apart so ids from
// one generator are strictly increasing.
type TimestampIDs struct {
	clock clock.Clock

	mu   sync.Mutex
	last int64
}

// NewTimestampIDs creates a TimestampIDs reading time from clk.
func NewTimestampIDs(clk clock.Clock) *TimestampIDs {
	return &TimestampIDs{clock: clk}
}

// NewID returns the next id.
func (g *TimestampIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUIDIDs issues version 7 UUIDs, which embed a millisecond timestamp and
// sort by creation time.
type UUIDIDs struct{}

// NewID returns a fresh UUIDv7 string.
func (UUIDIDs) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewIDGenerator returns the generator for a configured scheme:
// "timestamp" (default) or "uuid7".
func NewIDGenerator(scheme string, clk clock.Clock) (IDGenerator, error) {
	switch scheme {
	case "", "timestamp":
		return NewTimestampIDs(clk), nil
	case "uuid7":
		return UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", scheme)
	}
}
