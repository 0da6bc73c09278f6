// Package itinerary defines the itinerary entry model.
//
// An Entry is one scheduled visit: an immutable id, a calendar date, a time
// of day and a Label. The label is a tagged union, either free text typed by
// the user or a reference to a catalog attraction (name + region), so an
// entry can never carry both shapes or neither.
//
// Drafts are the in-progress form of an entry. Validate checks a draft before
// it is turned into an Entry; Record is the persisted JSON form.
package itinerary
