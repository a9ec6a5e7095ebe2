package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"venuebook/internal/bookings/service"
	"venuebook/pkg/config"
	apperrors "venuebook/pkg/errors"
	httputil "venuebook/pkg/http"
	"venuebook/pkg/logger"
	"venuebook/pkg/middleware"
	"venuebook/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	logger  *logger.Logger
}

func NewBookingHandler(svc service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		logger:  log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/bookings", h.createBooking)
	router.HandlerFunc(http.MethodGet, "/api/v1/bookings", h.listBookings)
	router.HandlerFunc(http.MethodGet, "/api/v1/bookings/id/:id", h.getBooking)
	router.HandlerFunc(http.MethodPost, "/api/v1/bookings/id/:id/status", h.changeStatus)
	router.HandlerFunc(http.MethodGet, "/api/v1/calendar", h.calendarView)
}

func (h *BookingHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.RequesterFrom(r.Context())
	if requesterID == "" {
		_ = httputil.WriteError(w, apperrors.InvalidInput("missing "+middleware.RequesterHeader+" header"))
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.Submit(r.Context(), &req, requesterID)
	if err != nil {
		h.logError(r, "failed to create booking", err)
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

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

	bookings, total, err := h.service.List(r.Context(), filter, limit, normalizedOffset)
	if err != nil {
		h.logError(r, "failed to list bookings", err)
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WritePaginated(w, bookings, total, limit, int(normalizedOffset))
}

func (h *BookingHandler) getBooking(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) changeStatus(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	var req model.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logError(r, "failed to change booking status", err)
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) calendarView(w http.ResponseWriter, r *http.Request) {
	venueID := r.URL.Query().Get("venue_id")
	if venueID == "" {
		_ = httputil.WriteError(w, apperrors.InvalidInput("missing venue_id parameter"))
		return
	}

	from, err := parseTimeParam(r, "from")
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	if from == nil || to == nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("from and to parameters are required"))
		return
	}

	entries, err := h.service.CalendarView(r.Context(), venueID, *from, *to)
	if err != nil {
		h.logError(r, "failed to build calendar view", err)
		_ = httputil.WriteError(w, err)
		return
	}

	_ = httputil.WriteSuccess(w, map[string]any{
		"venue_id": venueID,
		"from":     from.UTC(),
		"to":       to.UTC(),
		"entries":  entries,
	})
}

func (h *BookingHandler) logError(r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		"request_id", middleware.RequestIDFrom(r.Context()),
		"error", err,
	)
}

func parseListFilter(r *http.Request) (model.BookingFilter, error) {
	filter := model.BookingFilter{
		VenueID: r.URL.Query().Get("venue_id"),
		Status:  model.BookingStatus(r.URL.Query().Get("status")),
	}

	from, err := parseTimeParam(r, "from")
	if err != nil {
		return model.BookingFilter{}, err
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		return model.BookingFilter{}, err
	}
	filter.From = from
	filter.To = to

	return filter, nil
}

// parseTimeParam accepts RFC 3339 timestamps and bare dates. A bare date
// means midnight UTC of that day.
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		utc := t.UTC()
		return &utc, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s (want RFC 3339 or YYYY-MM-DD)", name, raw))
}
