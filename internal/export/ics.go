package export

import (
	"fmt"
	"io"

	ical "github.com/arran4/golang-ical"

	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/log"
)

// uidDomain qualifies entry ids into iCalendar UIDs.
const uidDomain = "itinerary.sarawak-explorer"

// ICS writes entries as a VCALENDAR with one VEVENT per entry. Event UIDs
// are derived from entry ids, so re-importing an updated export replaces
// events instead of duplicating them.
func ICS(w io.Writer, entries []itinerary.Entry, opts Options) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//sarawak-explorer//itinerary//EN")
	cal.SetName(opts.title())

	loc := opts.location()
	for _, e := range entries {
		start := e.Date.At(e.Time, loc)

		ev := cal.AddEvent(fmt.Sprintf("%s@%s", e.ID, uidDomain))
		ev.SetDtStampTime(opts.Now)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(opts.duration()))
		ev.SetSummary(summary(e))
		if where := location(e); where != "" {
			ev.SetLocation(where)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}

	log.Debug("ics export completed", "event_count", len(entries))
	return nil
}
