package itinerary

import (
	"errors"
	"fmt"
	"time"

	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

// Record is the persisted JSON shape of an entry. Exactly one of
// Description or Name+Region is set.
type Record struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description,omitempty"`
	Name        string `json:"name,omitempty"`
	Region      string `json:"region,omitempty"`
}

// Record encodes the entry for storage.
func (e Entry) Record() Record {
	r := Record{
		ID:   e.ID,
		Date: schedule.EncodeDate(e.Date),
		Time: schedule.EncodeTime(e.Time),
	}
	switch l := e.Label.(type) {
	case CatalogRef:
		r.Name = l.Name
		r.Region = l.Region
	case FreeText:
		r.Description = l.Description
	}
	return r
}

// Entry decodes a stored record. Unreadable date or time fields are replaced
// by the date or time of now; the entry is always usable and the returned
// error only reports what was substituted.
func (r Record) Entry(now time.Time) (Entry, error) {
	e := Entry{ID: r.ID}
	if r.Name != "" {
		e.Label = CatalogRef{Name: r.Name, Region: r.Region}
	} else {
		e.Label = FreeText{Description: r.Description}
	}

	nowDate, nowTime := schedule.FromTime(now)
	var errs []error

	d, err := schedule.DecodeDate(r.Date)
	if err != nil {
		d = nowDate
		errs = append(errs, err)
	}
	t, err := schedule.DecodeTime(r.Time)
	if err != nil {
		t = nowTime
		errs = append(errs, err)
	}
	e.Date = d
	e.Time = t

	if len(errs) > 0 {
		return e, fmt.Errorf("entry %q: %w", r.ID, errors.Join(errs...))
	}
	return e, nil
}
