// Package schedule holds the calendar-date and time-of-day values attached to
// itinerary entries, and the text codec used when they cross the persisted
// store boundary.
//
// Times are written on a 12-hour clock ("2:30 PM") and dates as a
// locale-stable day string ("Mon Jan 06 2025"). Decoding is strict about
// shape and range so that every stored value round-trips to the same
// wall-clock instant:
//
//   - DecodeTime(EncodeTime(t)) == t for every minute of the day
//   - DecodeDate(EncodeDate(d)) == d for every valid Gregorian date
//
// Malformed input yields an error wrapping ErrFormat.
package schedule
