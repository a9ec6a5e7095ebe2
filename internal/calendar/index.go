// Package calendar maintains the in-memory occupancy projection of
// bookings: for every (venue, date) pair, the entries of the non-cancelled
// bookings overlapping that date. It is the single source the availability
// check reads, and it is updated synchronously with every accepted booking
// mutation.
package calendar

import (
	"iter"
	"sync"
	"time"

	"venuebook/pkg/model"
)

type bookingRef struct {
	venueID string
	dates   []time.Time
}

// Index answers per-date occupancy queries in constant time. All methods
// are safe for concurrent use; mutation during a booking commit happens
// under the venue's lock, reads may come from any goroutine.
type Index struct {
	mu      sync.RWMutex
	byVenue map[string]map[time.Time][]model.CalendarEntry
	byID    map[string]bookingRef
}

func NewIndex() *Index {
	return &Index{
		byVenue: make(map[string]map[time.Time][]model.CalendarEntry),
		byID:    make(map[string]bookingRef),
	}
}

// Rebuild resets the index from a full set of bookings, typically the
// repository's non-cancelled bookings at service start.
func (i *Index) Rebuild(bookings []*model.Booking) {
	i.mu.Lock()
	i.byVenue = make(map[string]map[time.Time][]model.CalendarEntry)
	i.byID = make(map[string]bookingRef)
	i.mu.Unlock()

	for _, b := range bookings {
		i.Upsert(b)
	}
}

// Upsert projects the booking onto every date it occupies. Re-inserting an
// unchanged booking is a no-op in effect: existing entries are replaced,
// never duplicated. A cancelled booking is removed instead.
func (i *Index) Upsert(b *model.Booking) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.removeLocked(b.ID)

	if !b.Active() {
		return
	}

	dates := DatesSpanned(b.StartTime, b.EndTime)
	for _, date := range dates {
		venueDates, ok := i.byVenue[b.VenueID]
		if !ok {
			venueDates = make(map[time.Time][]model.CalendarEntry)
			i.byVenue[b.VenueID] = venueDates
		}
		venueDates[date] = append(venueDates[date], model.CalendarEntry{
			BookingID:      b.ID,
			VenueID:        b.VenueID,
			Date:           date,
			Start:          b.StartTime,
			End:            b.EndTime,
			Classification: model.ClassificationBooked,
		})
	}

	i.byID[b.ID] = bookingRef{venueID: b.VenueID, dates: dates}
}

// Remove deletes every entry of the booking; its dates become available
// again. Removing an unknown booking is a no-op.
func (i *Index) Remove(bookingID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.removeLocked(bookingID)
}

func (i *Index) removeLocked(bookingID string) {
	ref, ok := i.byID[bookingID]
	if !ok {
		return
	}
	delete(i.byID, bookingID)

	venueDates := i.byVenue[ref.venueID]
	for _, date := range ref.dates {
		entries := venueDates[date]
		kept := entries[:0:0]
		for _, e := range entries {
			if e.BookingID != bookingID {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(venueDates, date)
		} else {
			venueDates[date] = kept
		}
	}
	if len(venueDates) == 0 {
		delete(i.byVenue, ref.venueID)
	}
}

// Contains reports whether the booking currently has entries in the index.
func (i *Index) Contains(bookingID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.byID[bookingID]
	return ok
}

// EntriesFor returns the entries occupying a single date for a venue.
func (i *Index) EntriesFor(venueID string, date time.Time) []model.CalendarEntry {
	i.mu.RLock()
	defer i.mu.RUnlock()

	entries := i.byVenue[venueID][model.DateOf(date)]
	if len(entries) == 0 {
		return nil
	}
	out := make([]model.CalendarEntry, len(entries))
	copy(out, entries)
	return out
}

// EntriesInRange yields entries for a venue ordered by date ascending over
// the inclusive [from, to] date range. The sequence is lazy and restartable;
// iterating it has no side effects and each restart observes the current
// index state.
func (i *Index) EntriesInRange(venueID string, from, to time.Time) iter.Seq[model.CalendarEntry] {
	first := model.DateOf(from)
	last := model.DateOf(to)

	return func(yield func(model.CalendarEntry) bool) {
		for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
			for _, e := range i.EntriesFor(venueID, date) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// DatesSpanned lists the UTC calendar dates a half-open [start, end) time
// range occupies. A range ending exactly at midnight does not occupy the
// following day.
func DatesSpanned(start, end time.Time) []time.Time {
	first := model.DateOf(start)
	last := model.DateOf(end)
	if end.Equal(last) {
		last = last.AddDate(0, 0, -1)
	}
	if last.Before(first) {
		last = first
	}

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
