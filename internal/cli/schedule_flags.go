package cli

import (
	"time"

	"github.com/sarawak-explorer/itinerary/internal/schedule"
	"github.com/sarawak-explorer/itinerary/internal/session"
)

// parseTimeFlag accepts the stored "h:mm AM" form or 24-hour "15:04".
func parseTimeFlag(s string) (schedule.TimeOfDay, error) {
	t, err := schedule.DecodeTime(s)
	if err == nil {
		return t, nil
	}
	if clock, perr := time.Parse("15:04", s); perr == nil {
		return schedule.NewTimeOfDay(clock.Hour(), clock.Minute())
	}
	return schedule.TimeOfDay{}, err
}

// applySchedule sets whichever of date and time were given on the session.
func applySchedule(s *session.Session, date, tod string) error {
	if date != "" {
		d, err := schedule.DecodeDate(date)
		if err != nil {
			return err
		}
		if err := s.SetDate(d); err != nil {
			return err
		}
	}
	if tod != "" {
		t, err := parseTimeFlag(tod)
		if err != nil {
			return err
		}
		if err := s.SetTime(t); err != nil {
			return err
		}
	}
	return nil
}

// cancelPending discards an unfinished draft so the writer lease is freed.
func cancelPending(s *session.Session) {
	if s.Mode() != session.Idle {
		_ = s.Cancel()
	}
}
