package itinerary

import (
	"encoding/json"
	"fmt"

	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

// Label is the human-readable part of an entry: FreeText or CatalogRef.
type Label interface {
	// Text returns the label as shown in a list.
	Text() string

	isLabel()
}

// FreeText is a label typed by the user.
type FreeText struct {
	Description string
}

func (l FreeText) Text() string {
	return l.Description
}

func (FreeText) isLabel() {}

// CatalogRef is a label copied from a catalog attraction when the entry was
// created. It is a historical label, not a live reference: the attraction is
// never looked up again.
type CatalogRef struct {
	Name   string
	Region string
}

func (l CatalogRef) Text() string {
	if l.Region == "" {
		return l.Name
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Region)
}

func (CatalogRef) isLabel() {}

// Entry is one scheduled itinerary item.
type Entry struct {
	ID    string
	Date  schedule.Date
	Time  schedule.TimeOfDay
	Label Label
}

// NewEntry validates d and builds an entry with the given id.
func NewEntry(id string, d Draft) (Entry, error) {
	if err := Validate(d); err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:    id,
		Date:  *d.Date,
		Time:  *d.Time,
		Label: d.Label(),
	}, nil
}

// WithSchedule returns a copy of e with a new date and time. The id and the
// label are kept.
func (e Entry) WithSchedule(date schedule.Date, t schedule.TimeOfDay) Entry {
	e.Date = date
	e.Time = t
	return e
}

// Title is the label text, or "" when the entry has no label.
func (e Entry) Title() string {
	if e.Label == nil {
		return ""
	}
	return e.Label.Text()
}

// MarshalJSON writes the persisted record form.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}
