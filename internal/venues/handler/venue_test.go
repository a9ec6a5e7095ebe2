package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "venuebook/pkg/errors"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

type mockVenueService struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Venue, error)
	listFunc    func(ctx context.Context, limit int, offset int64) ([]*model.Venue, int64, error)
}

func (m *mockVenueService) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockVenueService) List(ctx context.Context, limit int, offset int64) ([]*model.Venue, int64, error) {
	return m.listFunc(ctx, limit, offset)
}

func newTestRouter(svc *mockVenueService) *httprouter.Router {
	log := logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatText, Service: "test"})
	router := httprouter.New()
	NewVenueHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestListVenues(t *testing.T) {
	svc := &mockVenueService{
		listFunc: func(_ context.Context, limit int, offset int64) ([]*model.Venue, int64, error) {
			return []*model.Venue{
				{ID: "grand-hall", Name: "Grand Hall", Capacity: 100, BasePrice: 250},
				{ID: "loft", Name: "The Loft", Capacity: 30, BasePrice: 120},
			}, 2, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data       []model.Venue `json:"data"`
		TotalCount int64         `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.TotalCount)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "grand-hall", resp.Data[0].ID)
}

func TestGetVenue(t *testing.T) {
	svc := &mockVenueService{
		getByIDFunc: func(_ context.Context, id string) (*model.Venue, error) {
			if id == "grand-hall" {
				return &model.Venue{ID: "grand-hall", Name: "Grand Hall", Capacity: 100}, nil
			}
			return nil, apperrors.NotFoundWithID("venue", id)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/id/grand-hall", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data model.Venue `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Grand Hall", resp.Data.Name)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/venues/id/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListVenues_BadPagination(t *testing.T) {
	svc := &mockVenueService{
		listFunc: func(_ context.Context, _ int, _ int64) ([]*model.Venue, int64, error) {
			return nil, 0, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
