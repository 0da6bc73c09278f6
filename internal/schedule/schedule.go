package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrFormat indicates a date or time string that cannot be decoded.
var ErrFormat = errors.New("invalid format")

// TimeOfDay is a wall-clock time with minute granularity.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay returns the time hour:minute, rejecting values outside
// 0–23 and 0–59.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute}
	if !t.Valid() {
		return TimeOfDay{}, fmt.Errorf("%w: time %02d:%02d out of range", ErrFormat, hour, minute)
	}
	return t, nil
}

// Valid reports whether the hour and minute are in range.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// String returns the canonical 12-hour form.
func (t TimeOfDay) String() string {
	return EncodeTime(t)
}

// Date is a Gregorian calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the given day, rejecting impossible dates such as Feb 30.
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: date %04d-%02d-%02d does not exist", ErrFormat, year, int(month), day)
	}
	return d, nil
}

// MinYear and MaxYear bound the years DateLayout can encode and decode.
const (
	MinYear = 1
	MaxYear = 9999
)

// Valid reports whether the date names a real calendar day in a year the
// persisted layout can represent.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	norm := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return norm.Year() == d.Year && norm.Month() == d.Month && norm.Day() == d.Day
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// String returns the canonical day string.
func (d Date) String() string {
	return EncodeDate(d)
}

// At combines the date with a time of day in loc.
func (d Date) At(t TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, loc)
}

// FromTime splits an instant into its calendar date and time of day, in the
// instant's own location. Seconds are dropped.
func FromTime(t time.Time) (Date, TimeOfDay) {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseSchedule decodes a date string and a time string together.
func ParseSchedule(date, timeOfDay string) (Date, TimeOfDay, error) {
	d, err := DecodeDate(date)
	if err != nil {
		return Date{}, TimeOfDay{}, err
	}
	t, err := DecodeTime(timeOfDay)
	if err != nil {
		return Date{}, TimeOfDay{}, err
	}
	return d, t, nil
}
