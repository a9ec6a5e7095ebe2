package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"venuebook/pkg/model"
	"venuebook/test/integration/testutil"
)

const testVenueID = "it-grand-hall"

func setup(t *testing.T) (*testutil.MongoHelper, *testutil.Client, func()) {
	t.Helper()

	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t, "it-requester")

	mongo.EnsureVenue(t, model.Venue{
		ID:        testVenueID,
		Name:      "Integration Grand Hall",
		Location:  "Test District",
		Capacity:  100,
		BasePrice: 250,
	})

	return mongo, client, func() { env.Cleanup(t, mongo) }
}

func TestBookingLifecycle(t *testing.T) {
	mongo, client, teardown := setup(t)
	defer teardown()

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)

	// Create.
	resp := client.POST(t, "/api/v1/bookings",
		testutil.NewBookingRequest(testVenueID).WithStart(start).WithGuests(80).Build())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Booking
	resp.Data(t, &created)
	if created.Status != model.StatusUpcoming {
		t.Fatalf("expected upcoming, got %s", created.Status)
	}
	if created.Cost != 500 {
		t.Fatalf("expected cost 500 for 2h at 250/h, got %v", created.Cost)
	}

	// Overlapping request conflicts and names the holder.
	resp = client.POST(t, "/api/v1/bookings",
		testutil.NewBookingRequest(testVenueID).WithStart(start.Add(time.Hour)).Build())
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	testutil.AssertErrorCode(t, resp, "UNAVAILABLE")
	testutil.AssertContains(t, resp, created.ID)

	// Back-to-back is fine.
	resp = client.POST(t, "/api/v1/bookings",
		testutil.NewBookingRequest(testVenueID).WithStart(start.Add(2*time.Hour)).Build())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	// Cancel, then the original slot opens up again.
	resp = client.POST(t, fmt.Sprintf("/api/v1/bookings/id/%s/status", created.ID),
		model.StatusChangeRequest{Status: model.StatusCancelled})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = client.POST(t, "/api/v1/bookings",
		testutil.NewBookingRequest(testVenueID).WithStart(start).WithGuests(80).Build())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	if n := mongo.CountDocuments(t, testutil.BookingsCollection, bson.M{}); n != 3 {
		t.Fatalf("expected 3 stored bookings (one cancelled), got %d", n)
	}
}

func TestBookingValidationCodes(t *testing.T) {
	_, client, teardown := setup(t)
	defer teardown()

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)

	tests := []struct {
		name       string
		req        model.BookingRequest
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown venue",
			req:        testutil.NewBookingRequest("no-such-venue").WithStart(start).Build(),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNKNOWN_VENUE",
		},
		{
			name:       "past start",
			req:        testutil.NewBookingRequest(testVenueID).WithStart(time.Now().UTC().Add(-time.Hour)).Build(),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_DATE",
		},
		{
			name:       "zero duration",
			req:        testutil.NewBookingRequest(testVenueID).WithStart(start).WithDuration(0).Build(),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_DURATION",
		},
		{
			name:       "over capacity",
			req:        testutil.NewBookingRequest(testVenueID).WithStart(start).WithGuests(101).Build(),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "CAPACITY_EXCEEDED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := client.POST(t, "/api/v1/bookings", tt.req)
			testutil.AssertStatusCode(t, resp, tt.wantStatus)
			testutil.AssertErrorCode(t, resp, tt.wantCode)
		})
	}
}

func TestConcurrentBookingCreation(t *testing.T) {
	_, client, teardown := setup(t)
	defer teardown()

	start := time.Now().UTC().Add(96 * time.Hour).Truncate(time.Hour)
	req := testutil.NewBookingRequest(testVenueID).WithStart(start).Build()

	const attempts = 5
	var wg sync.WaitGroup
	statuses := make(chan int, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			resp := client.POSTAs(t, fmt.Sprintf("racer-%d", n), "/api/v1/bookings", req)
			statuses <- resp.StatusCode
		}(i)
	}
	wg.Wait()
	close(statuses)

	created, conflicted := 0, 0
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly 1 created, got %d (%d conflicted)", created, conflicted)
	}
}

func TestCalendarViewShowsBookedDates(t *testing.T) {
	_, client, teardown := setup(t)
	defer teardown()

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
	resp := client.POST(t, "/api/v1/bookings",
		testutil.NewBookingRequest(testVenueID).WithStart(start).Build())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Booking
	resp.Data(t, &created)

	from := start.AddDate(0, 0, -1).Format("2006-01-02")
	to := start.AddDate(0, 0, 2).Format("2006-01-02")
	resp = client.GET(t, fmt.Sprintf("/api/v1/calendar?venue_id=%s&from=%s&to=%s", testVenueID, from, to))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var view struct {
		Entries []model.CalendarEntry `json:"entries"`
	}
	resp.Data(t, &view)
	if len(view.Entries) != 1 {
		testutil.PrintResponse(t, resp)
		t.Fatalf("expected 1 calendar entry, got %d", len(view.Entries))
	}
	if view.Entries[0].BookingID != created.ID {
		t.Fatalf("entry booking id = %s, want %s", view.Entries[0].BookingID, created.ID)
	}
}

func TestListBookingsFilters(t *testing.T) {
	_, client, teardown := setup(t)
	defer teardown()

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
	for i := 0; i < 3; i++ {
		resp := client.POST(t, "/api/v1/bookings",
			testutil.NewBookingRequest(testVenueID).
				WithTitle(fmt.Sprintf("Event %d", i)).
				WithStart(start.Add(time.Duration(i)*3*time.Hour)).
				Build())
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	}

	resp := client.GET(t, "/api/v1/bookings?venue_id="+testVenueID+"&status=upcoming")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var list struct {
		Data       []model.Booking `json:"data"`
		TotalCount int64           `json:"total_count"`
	}
	if err := resp.UnmarshalBody(&list); err != nil {
		t.Fatalf("failed to unmarshal list: %v", err)
	}
	if list.TotalCount != 3 || len(list.Data) != 3 {
		t.Fatalf("expected 3 bookings, got total=%d len=%d", list.TotalCount, len(list.Data))
	}
	for i := 1; i < len(list.Data); i++ {
		if list.Data[i].StartTime.Before(list.Data[i-1].StartTime) {
			t.Fatal("bookings are not ordered by start time")
		}
	}
}
