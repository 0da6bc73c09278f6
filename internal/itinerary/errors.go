package itinerary

import (
	"errors"

	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

var (
	// ErrNotFound indicates that no entry has the requested id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates an add with an id that is already stored.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrPersistence indicates the persistent slot could not be read or written.
	ErrPersistence = errors.New("persistence failure")

	// ErrValidation indicates a draft that breaks the model rules.
	ErrValidation = errors.New("validation failed")
)

// ValidationKind names the rule a draft broke.
type ValidationKind int

const (
	// EmptyDescription means neither a description nor an attraction was given.
	EmptyDescription ValidationKind = iota + 1

	// MissingSchedule means the date or the time is absent.
	MissingSchedule
)

func (k ValidationKind) String() string {
	switch k {
	case EmptyDescription:
		return "trip description is required"
	case MissingSchedule:
		return "date and time are required"
	default:
		return "invalid draft"
	}
}

// ValidationError reports which rule a draft broke.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Kind.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UserMessage turns an error from the itinerary core into the short message
// shown to a user.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr) && verr.Kind == EmptyDescription:
		return "Trip description is required"
	case errors.As(err, &verr) && verr.Kind == MissingSchedule:
		return "Pick a date and a time"
	case errors.Is(err, schedule.ErrFormat):
		return "Date or time is not readable"
	case errors.Is(err, ErrNotFound):
		return "Itinerary item no longer exists"
	case errors.Is(err, ErrDuplicateID):
		return "Itinerary item already exists"
	case errors.Is(err, ErrPersistence):
		return "Could not save the itinerary, please retry"
	default:
		return err.Error()
	}
}
