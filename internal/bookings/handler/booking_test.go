package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "venuebook/pkg/errors"
	httputil "venuebook/pkg/http"
	"venuebook/pkg/logger"
	"venuebook/pkg/middleware"
	"venuebook/pkg/model"
)

type mockBookingService struct {
	submitFunc          func(ctx context.Context, req *model.BookingRequest, requesterID string) (*model.Booking, error)
	changeStatusFunc    func(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error)
	getByIDFunc         func(ctx context.Context, id string) (*model.Booking, error)
	listFunc            func(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	calendarViewFunc    func(ctx context.Context, venueID string, from, to time.Time) ([]model.CalendarEntry, error)
	completeElapsedFunc func(ctx context.Context) (int, error)
}

func (m *mockBookingService) Submit(ctx context.Context, req *model.BookingRequest, requesterID string) (*model.Booking, error) {
	return m.submitFunc(ctx, req, requesterID)
}

func (m *mockBookingService) ChangeStatus(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error) {
	return m.changeStatusFunc(ctx, id, target)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBookingService) List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.listFunc(ctx, filter, limit, offset)
}

func (m *mockBookingService) CalendarView(ctx context.Context, venueID string, from, to time.Time) ([]model.CalendarEntry, error) {
	return m.calendarViewFunc(ctx, venueID, from, to)
}

func (m *mockBookingService) CompleteElapsed(ctx context.Context) (int, error) {
	return m.completeElapsedFunc(ctx)
}

func (m *mockBookingService) RebuildIndex(_ context.Context) error { return nil }

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatText, Service: "test"})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func withRequester(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.RequesterKey, id))
}

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		VenueID:   "grand-hall",
		Title:     "Product Launch",
		StartTime: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC),
		Guests:    80,
		Status:    model.StatusUpcoming,
	}
}

func TestCreateBooking(t *testing.T) {
	svc := &mockBookingService{
		submitFunc: func(_ context.Context, req *model.BookingRequest, requesterID string) (*model.Booking, error) {
			assert.Equal(t, "grand-hall", req.VenueID)
			assert.Equal(t, "alice", requesterID)
			return sampleBooking(), nil
		},
	}
	router := newTestRouter(svc)

	body := `{"venue_id":"grand-hall","title":"Product Launch","start_time":"2026-03-10T18:00:00Z","duration_minutes":180,"guests":80}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req = withRequester(req, "alice")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", resp.Data.ID)
	assert.Equal(t, model.StatusUpcoming, resp.Data.Status)
}

func TestCreateBooking_MissingRequester(t *testing.T) {
	svc := &mockBookingService{
		submitFunc: func(_ context.Context, _ *model.BookingRequest, _ string) (*model.Booking, error) {
			t.Fatal("service must not be called without a requester")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_ConflictSurfacesDetails(t *testing.T) {
	svc := &mockBookingService{
		submitFunc: func(_ context.Context, _ *model.BookingRequest, _ string) (*model.Booking, error) {
			return nil, apperrors.New("UNAVAILABLE", "venue grand-hall is unavailable for the requested time", http.StatusConflict).
				WithDetails(map[string]any{"conflicting_booking_ids": []string{"b-1"}})
		},
	}
	router := newTestRouter(svc)

	body := `{"venue_id":"grand-hall","title":"Clash","start_time":"2026-03-10T19:00:00Z","duration_minutes":60,"guests":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req = withRequester(req, "bob")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNAVAILABLE", resp.Code)
	assert.Contains(t, resp.Details, "conflicting_booking_ids")
}

func TestCreateBooking_InvalidBody(t *testing.T) {
	svc := &mockBookingService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{not json`))
	req = withRequester(req, "alice")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBookings_Filters(t *testing.T) {
	var gotFilter model.BookingFilter
	svc := &mockBookingService{
		listFunc: func(_ context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
			gotFilter = filter
			assert.Equal(t, 10, limit)
			assert.Equal(t, int64(20), offset)
			return []*model.Booking{sampleBooking()}, 1, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings?venue_id=grand-hall&status=upcoming&from=2026-03-01&to=2026-04-01T00:00:00Z&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "grand-hall", gotFilter.VenueID)
	assert.Equal(t, model.StatusUpcoming, gotFilter.Status)
	require.NotNil(t, gotFilter.From)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *gotFilter.From)
	require.NotNil(t, gotFilter.To)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *gotFilter.To)
}

func TestListBookings_BadTimeParam(t *testing.T) {
	svc := &mockBookingService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?from=yesterday", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBooking(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			if id == "0f8fad5b-d9cb-469f-a165-70867728950e" {
				return sampleBooking(), nil
			}
			return nil, apperrors.NotFoundWithID("booking", id)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/0f8fad5b-d9cb-469f-a165-70867728950e", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/unknown", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChangeStatus(t *testing.T) {
	svc := &mockBookingService{
		changeStatusFunc: func(_ context.Context, id string, target model.BookingStatus) (*model.Booking, error) {
			assert.Equal(t, model.StatusCancelled, target)
			b := sampleBooking()
			b.Status = target
			return b, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/bookings/id/0f8fad5b-d9cb-469f-a165-70867728950e/status",
		strings.NewReader(`{"status":"cancelled"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusCancelled, resp.Data.Status)
}

func TestChangeStatus_InvalidTransition(t *testing.T) {
	svc := &mockBookingService{
		changeStatusFunc: func(_ context.Context, _ string, _ model.BookingStatus) (*model.Booking, error) {
			return nil, apperrors.New("INVALID_TRANSITION", "cannot transition booking from completed to upcoming", http.StatusConflict)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/bookings/id/0f8fad5b-d9cb-469f-a165-70867728950e/status",
		strings.NewReader(`{"status":"upcoming"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCalendarView(t *testing.T) {
	svc := &mockBookingService{
		calendarViewFunc: func(_ context.Context, venueID string, from, to time.Time) ([]model.CalendarEntry, error) {
			assert.Equal(t, "grand-hall", venueID)
			return []model.CalendarEntry{{
				BookingID:      "b-1",
				VenueID:        venueID,
				Date:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				Start:          time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
				End:            time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC),
				Classification: model.ClassificationBooked,
			}}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar?venue_id=grand-hall&from=2026-03-09&to=2026-03-12", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			VenueID string                `json:"venue_id"`
			Entries []model.CalendarEntry `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "grand-hall", resp.Data.VenueID)
	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, "b-1", resp.Data.Entries[0].BookingID)
}

func TestCalendarView_MissingParams(t *testing.T) {
	svc := &mockBookingService{}
	router := newTestRouter(svc)

	for _, url := range []string{
		"/api/v1/calendar?from=2026-03-09&to=2026-03-12",
		"/api/v1/calendar?venue_id=grand-hall&to=2026-03-12",
		"/api/v1/calendar?venue_id=grand-hall&from=2026-03-09",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}
