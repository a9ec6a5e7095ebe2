package model

import "time"

// CalendarClassification is the display status of a calendar entry.
// Absence of entries for a date means the date is available. "pending" is
// reserved for held-but-unconfirmed requests; no lifecycle transition
// currently produces it, but occupancy checks honor it.
type CalendarClassification string

const (
	ClassificationBooked  CalendarClassification = "booked"
	ClassificationPending CalendarClassification = "pending"
)

// CalendarEntry is a read-only projection of a booking onto a single date.
type CalendarEntry struct {
	BookingID      string                 `json:"booking_id"`
	VenueID        string                 `json:"venue_id"`
	Date           time.Time              `json:"date"`
	Start          time.Time              `json:"start"`
	End            time.Time              `json:"end"`
	Classification CalendarClassification `json:"classification"`
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
