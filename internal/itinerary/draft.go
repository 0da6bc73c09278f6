package itinerary

import (
	"fmt"
	"strings"

	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

// Draft is the not-yet-persisted form of an entry. A nil Date or Time means
// the field has not been chosen.
type Draft struct {
	Description string
	Attraction  *CatalogRef
	Date        *schedule.Date
	Time        *schedule.TimeOfDay
}

// Label returns the label the draft would produce. An attraction wins over
// the description.
func (d Draft) Label() Label {
	if d.Attraction != nil {
		return *d.Attraction
	}
	return FreeText{Description: strings.TrimSpace(d.Description)}
}

// SetSchedule sets both date and time.
func (d *Draft) SetSchedule(date schedule.Date, t schedule.TimeOfDay) {
	d.Date = &date
	d.Time = &t
}

// Validate checks the model rules: a non-empty description or attraction
// name, and a present, in-range date and time. Out-of-range values fail with
// schedule.ErrFormat.
func Validate(d Draft) error {
	name := ""
	if d.Attraction != nil {
		name = strings.TrimSpace(d.Attraction.Name)
	}
	if strings.TrimSpace(d.Description) == "" && name == "" {
		return &ValidationError{Kind: EmptyDescription}
	}
	if d.Attraction != nil && name == "" {
		return &ValidationError{Kind: EmptyDescription}
	}
	if d.Date == nil || d.Time == nil {
		return &ValidationError{Kind: MissingSchedule}
	}
	if !d.Date.Valid() || !d.Time.Valid() {
		return fmt.Errorf("%w: schedule %04d-%02d-%02d %02d:%02d out of range", schedule.ErrFormat,
			d.Date.Year, int(d.Date.Month), d.Date.Day, d.Time.Hour, d.Time.Minute)
	}
	return nil
}
