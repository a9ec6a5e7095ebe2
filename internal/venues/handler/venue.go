package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"venuebook/internal/venues/service"
	"venuebook/pkg/config"
	httputil "venuebook/pkg/http"
	"venuebook/pkg/logger"
	"venuebook/pkg/middleware"
)

type VenueHandler struct {
	service service.VenueService
	logger  *logger.Logger
}

func NewVenueHandler(svc service.VenueService, log *logger.Logger) *VenueHandler {
	return &VenueHandler{
		service: svc,
		logger:  log,
	}
}

func (h *VenueHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/v1/venues", h.listVenues)
	router.HandlerFunc(http.MethodGet, "/api/v1/venues/id/:id", h.getVenue)
}

func (h *VenueHandler) listVenues(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", config.DefaultPaginationLimit)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	offset, err := httputil.QueryInt(r, "offset", 0)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	limit = config.NormalizePaginationLimit(limit)
	normalizedOffset := config.NormalizeOffset(int64(offset))

	venues, total, err := h.service.List(r.Context(), limit, normalizedOffset)
	if err != nil {
		h.logger.Error("failed to list venues",
			"request_id", middleware.RequestIDFrom(r.Context()),
			"error", err,
		)
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WritePaginated(w, venues, total, limit, int(normalizedOffset))
}

func (h *VenueHandler) getVenue(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	venue, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, venue)
}
