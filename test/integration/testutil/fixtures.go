package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"venuebook/pkg/model"
)

// BookingRequestBuilder assembles booking submissions for tests.
type BookingRequestBuilder struct {
	req model.BookingRequest
}

func NewBookingRequest(venueID string) *BookingRequestBuilder {
	return &BookingRequestBuilder{
		req: model.BookingRequest{
			VenueID:         venueID,
			Title:           "Integration Test Event",
			EventType:       "corporate",
			StartTime:       time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour),
			DurationMinutes: 120,
			Guests:          10,
		},
	}
}

func (b *BookingRequestBuilder) WithTitle(title string) *BookingRequestBuilder {
	b.req.Title = title
	return b
}

func (b *BookingRequestBuilder) WithStart(start time.Time) *BookingRequestBuilder {
	b.req.StartTime = start
	return b
}

func (b *BookingRequestBuilder) WithDuration(minutes int) *BookingRequestBuilder {
	b.req.DurationMinutes = minutes
	return b
}

func (b *BookingRequestBuilder) WithGuests(guests int) *BookingRequestBuilder {
	b.req.Guests = guests
	return b
}

func (b *BookingRequestBuilder) Build() model.BookingRequest {
	return b.req
}

// EnsureVenue upserts a venue directly in the database, bypassing the API;
// the catalog has no write endpoints.
func (m *MongoHelper) EnsureVenue(t *testing.T, venue model.Venue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.GetCollection(VenuesCollection).ReplaceOne(
		ctx,
		bson.M{"_id": venue.ID},
		venue,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		t.Fatalf("failed to upsert venue %s: %v", venue.ID, err)
	}
}
