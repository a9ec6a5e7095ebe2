package service

import (
	"time"

	"venuebook/internal/calendar"
)

// AvailabilityChecker answers whether a venue is free for a proposed
// [start, end) range by consulting the in-memory calendar index.
type AvailabilityChecker struct {
	index *calendar.Index
}

func NewAvailabilityChecker(index *calendar.Index) *AvailabilityChecker {
	return &AvailabilityChecker{index: index}
}

// Conflicts returns the IDs of active bookings overlapping [start, end) on
// the venue, deduplicated, in calendar order. Ranges that merely touch
// (one's end equals the other's start) do not conflict.
//
// excludeID skips one booking's own entries; pass it when re-checking a
// booking that may still be indexed, the empty string otherwise.
func (c *AvailabilityChecker) Conflicts(venueID string, start, end time.Time, excludeID string) []string {
	start, end = start.UTC(), end.UTC()

	var conflicts []string
	seen := make(map[string]struct{})

	for _, date := range calendar.DatesSpanned(start, end) {
		for _, entry := range c.index.EntriesFor(venueID, date) {
			if entry.BookingID == excludeID {
				continue
			}
			if _, dup := seen[entry.BookingID]; dup {
				continue
			}
			if entry.Start.Before(end) && start.Before(entry.End) {
				seen[entry.BookingID] = struct{}{}
				conflicts = append(conflicts, entry.BookingID)
			}
		}
	}

	return conflicts
}
