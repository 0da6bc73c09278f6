package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the persisted day representation, e.g. "Mon Jan 06 2025".
const DateLayout = "Mon Jan 02 2006"

// isoDateLayout is accepted on input only.
const isoDateLayout = "2006-01-02"

// timePattern matches EncodeTime output exactly: hour 1-12 without a leading
// zero, minute 00-59, one space, then the meridiem.
var timePattern = regexp.MustCompile(`^([1-9]|1[0-2]):([0-5][0-9]) ([AaPp][Mm])$`)

// EncodeTime renders t as "h:mm AM" or "h:mm PM": no leading zero on the
// hour, two-digit minute. t must be valid.
func EncodeTime(t TimeOfDay) string {
	meridiem := "AM"
	if t.Hour >= 12 {
		meridiem = "PM"
	}
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, meridiem)
}

// DecodeTime parses the form produced by EncodeTime. Surrounding whitespace
// is ignored and the meridiem is case-insensitive; nothing else is lenient.
// 12 AM is midnight and 12 PM is noon.
func DecodeTime(s string) (TimeOfDay, error) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: time %q: want h:mm AM|PM with hour 1-12", ErrFormat, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// EncodeDate renders d using DateLayout. d must be valid.
func EncodeDate(d Date) string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// DecodeDate parses DateLayout or ISO "2006-01-02". The weekday name in
// DateLayout must be well formed but is not checked against the date.
func DecodeDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, isoDateLayout} {
		t, err := time.Parse(layout, s)
		if err == nil {
			if d, _ := FromTime(t); d.Valid() {
				return d, nil
			}
		}
	}
	return Date{}, fmt.Errorf("%w: date %q: want %q", ErrFormat, s, DateLayout)
}
