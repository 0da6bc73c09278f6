package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestNewTimeOfDay(t *testing.T) {
	tests := []struct {
		hour, minute int
		wantErr      bool
	}{
		{0, 0, false},
		{23, 59, false},
		{24, 0, true},
		{-1, 0, true},
		{12, 60, true},
	}

	for _, tt := range tests {
		_, err := NewTimeOfDay(tt.hour, tt.minute)
		if tt.wantErr != (err != nil) {
			t.Errorf("NewTimeOfDay(%d, %d) error = %v, wantErr %v", tt.hour, tt.minute, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrFormat) {
			t.Errorf("NewTimeOfDay(%d, %d) error should wrap ErrFormat", tt.hour, tt.minute)
		}
	}
}

func TestNewDate(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		day     int
		wantErr bool
	}{
		{"regular", 2025, time.January, 6, false},
		{"leap day", 2024, time.February, 29, false},
		{"not a leap year", 2025, time.February, 29, true},
		{"day zero", 2025, time.March, 0, true},
		{"month thirteen", 2025, 13, 1, true},
		{"april 31", 2025, time.April, 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDate(tt.year, tt.month, tt.day)
			if tt.wantErr != (err != nil) {
				t.Errorf("NewDate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromTimeAndAt(t *testing.T) {
	loc := time.FixedZone("MYT", 8*60*60)
	instant := time.Date(2025, time.January, 6, 14, 30, 45, 0, loc)

	d, tod := FromTime(instant)
	if d != (Date{2025, time.January, 6}) {
		t.Errorf("FromTime date = %+v", d)
	}
	if tod != (TimeOfDay{14, 30}) {
		t.Errorf("FromTime time = %+v", tod)
	}

	back := d.At(tod, loc)
	if !back.Equal(instant.Truncate(time.Minute)) {
		t.Errorf("At() = %v, want %v", back, instant.Truncate(time.Minute))
	}
	if d.Weekday() != time.Monday {
		t.Errorf("Weekday() = %v, want Monday", d.Weekday())
	}
}

func TestParseSchedule(t *testing.T) {
	d, tod, err := ParseSchedule("Tue Jan 07 2025", "9:00 AM")
	if err != nil {
		t.Fatalf("ParseSchedule() error = %v", err)
	}
	if d.String() != "Tue Jan 07 2025" || tod.String() != "9:00 AM" {
		t.Errorf("ParseSchedule() = %v %v", d, tod)
	}

	if _, _, err := ParseSchedule("Tue Jan 07 2025", "noon"); !errors.Is(err, ErrFormat) {
		t.Errorf("bad time error = %v, want ErrFormat", err)
	}
	if _, _, err := ParseSchedule("someday", "9:00 AM"); !errors.Is(err, ErrFormat) {
		t.Errorf("bad date error = %v, want ErrFormat", err)
	}
}
