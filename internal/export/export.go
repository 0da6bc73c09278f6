// Package export renders the itinerary for use outside the app: an
// iCalendar feed for calendar clients and a printable PDF.
package export

import (
	"sort"
	"time"

	"github.com/sarawak-explorer/itinerary/internal/itinerary"
)

// DefaultDuration is the length given to an entry when none is configured.
// Entries only carry a start time.
const DefaultDuration = time.Hour

// Options controls rendering.
type Options struct {
	// Location interprets entry dates and times. Nil means time.Local.
	Location *time.Location

	// Duration is the event length. Zero means DefaultDuration.
	Duration time.Duration

	// Title heads the document.
	Title string

	// Now stamps the output.
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) duration() time.Duration {
	if o.Duration <= 0 {
		return DefaultDuration
	}
	return o.Duration
}

func (o Options) title() string {
	if o.Title == "" {
		return "Sarawak Itinerary"
	}
	return o.Title
}

// Chronological returns a copy of entries sorted by date and time. Entries
// with the same schedule keep their insertion order.
func Chronological(entries []itinerary.Entry) []itinerary.Entry {
	out := make([]itinerary.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		a := out[i].Date.At(out[i].Time, time.UTC)
		b := out[j].Date.At(out[j].Time, time.UTC)
		return a.Before(b)
	})
	return out
}

// location returns the place an entry happens at, if known.
func location(e itinerary.Entry) string {
	if ref, ok := e.Label.(itinerary.CatalogRef); ok {
		return ref.Region
	}
	return ""
}

// summary is the event title: the attraction name or the description.
func summary(e itinerary.Entry) string {
	if ref, ok := e.Label.(itinerary.CatalogRef); ok {
		return ref.Name
	}
	return e.Title()
}
