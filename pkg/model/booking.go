package model

import "time"

type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "upcoming"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is a lifecycle-tracked reservation of a venue for a time range.
// Bookings are never deleted; cancellation is a status transition so the
// history stays intact.
type Booking struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	VenueID     string        `json:"venue_id" bson:"venue_id" validate:"required"`
	RequesterID string        `json:"requester_id" bson:"requester_id" validate:"required"`
	Title       string        `json:"title" bson:"title" validate:"required,min=2,max=100"`
	EventType   string        `json:"event_type,omitempty" bson:"event_type,omitempty" validate:"omitempty,max=50"`
	StartTime   time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Guests      int           `json:"guests" bson:"guests" validate:"required,min=1"`
	Cost        float64       `json:"cost" bson:"cost" validate:"min=0"`
	Status      BookingStatus `json:"status" bson:"status" validate:"required,oneof=upcoming completed cancelled"`
	Notes       string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

// Active reports whether the booking still occupies its dates.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled
}

// BookingRequest is the raw submission before normalization. Duration and
// guest count are deliberately untagged: they get ordered semantic checks
// with dedicated error codes instead of generic struct validation.
type BookingRequest struct {
	VenueID         string    `json:"venue_id" validate:"required"`
	Title           string    `json:"title" validate:"required,min=2,max=100"`
	EventType       string    `json:"event_type" validate:"omitempty,max=50"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Guests          int       `json:"guests"`
	Notes           string    `json:"notes" validate:"omitempty,max=500"`
}

type StatusChangeRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=upcoming completed cancelled"`
}

// BookingFilter narrows listBookings; zero values mean "any".
type BookingFilter struct {
	VenueID string
	Status  BookingStatus
	From    *time.Time
	To      *time.Time
}
