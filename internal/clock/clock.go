// Package clock supplies "now" to the itinerary core.
//
// New entries default their schedule to the current wall-clock date and time,
// and entry ids are derived from the current timestamp, so every component
// that needs the time receives a Clock instead of calling time.Now directly.
package clock

import (
	"time"

	// Zone data is embedded so the default Asia/Kuching zone resolves on
	// hosts without a zoneinfo database.
	_ "time/tzdata"
)

// Clock provides the current instant.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock reads the system time, converted to a fixed location.
type RealClock struct {
	loc *time.Location
}

// NewRealClock returns a RealClock reporting times in loc.
// A nil location means time.Local.
func NewRealClock(loc *time.Location) *RealClock {
	if loc == nil {
		loc = time.Local
	}
	return &RealClock{loc: loc}
}

// Now returns the current system time in the clock's location.
func (c *RealClock) Now() time.Time {
	if c.loc == nil {
		return time.Now()
	}
	return time.Now().In(c.loc)
}

// Location returns the location times are reported in.
func (c *RealClock) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// FakeClock implements Clock with a settable time for testing.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Set updates the fixed time.
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}

// Advance moves the fixed time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// LoadLocation resolves an IANA zone name. An empty name yields time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
