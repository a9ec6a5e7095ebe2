// Package events publishes booking lifecycle events for external consumers
// (notification senders, analytics). The core only emits; delivery is an
// external concern.
package events

import (
	"time"

	"github.com/google/uuid"

	"venuebook/pkg/model"
)

type Type string

const (
	TypeBookingCreated     Type = "booking.created"
	TypeBookingCancelled   Type = "booking.cancelled"
	TypeBookingCompleted   Type = "booking.completed"
	TypeBookingReactivated Type = "booking.reactivated"
)

type BookingEvent struct {
	ID          string              `json:"id"`
	Type        Type                `json:"type"`
	BookingID   string              `json:"booking_id"`
	VenueID     string              `json:"venue_id"`
	RequesterID string              `json:"requester_id"`
	Status      model.BookingStatus `json:"status"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     time.Time           `json:"end_time"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

func NewBookingEvent(t Type, b *model.Booking) BookingEvent {
	return BookingEvent{
		ID:          uuid.NewString(),
		Type:        t,
		BookingID:   b.ID,
		VenueID:     b.VenueID,
		RequesterID: b.RequesterID,
		Status:      b.Status,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		OccurredAt:  time.Now().UTC(),
	}
}
