package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bookingserrors "venuebook/internal/bookings/errors"
	"venuebook/internal/bookings/repository"
	bookingvalidator "venuebook/internal/bookings/validator"
	"venuebook/internal/calendar"
	"venuebook/pkg/config"
	apperrors "venuebook/pkg/errors"
	"venuebook/pkg/events"
	"venuebook/pkg/lock"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

// Domain error codes surfaced over HTTP. Request-shape problems use the
// shared VALIDATION_ERROR code; these cover the semantic layer above it.
const (
	CodeUnknownVenue      = "UNKNOWN_VENUE"
	CodeInvalidDate       = "INVALID_DATE"
	CodeInvalidDuration   = "INVALID_DURATION"
	CodeCapacityExceeded  = "CAPACITY_EXCEEDED"
	CodeUnavailable       = "UNAVAILABLE"
	CodeInvalidTransition = "INVALID_TRANSITION"
)

type BookingService interface {
	Submit(ctx context.Context, req *model.BookingRequest, requesterID string) (*model.Booking, error)
	ChangeStatus(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	CalendarView(ctx context.Context, venueID string, from, to time.Time) ([]model.CalendarEntry, error)
	CompleteElapsed(ctx context.Context) (int, error)
	RebuildIndex(ctx context.Context) error
}

type bookingService struct {
	cfg       *config.Config
	repo      repository.BookingRepository
	validator *bookingvalidator.BookingValidator
	catalog   bookingvalidator.VenueCatalog
	index     *calendar.Index
	checker   *AvailabilityChecker
	locks     *lock.KeyedMutex
	publisher events.Publisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	validator *bookingvalidator.BookingValidator,
	catalog bookingvalidator.VenueCatalog,
	index *calendar.Index,
	publisher events.Publisher,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		cfg:       cfg,
		repo:      repo,
		validator: validator,
		catalog:   catalog,
		index:     index,
		checker:   NewAvailabilityChecker(index),
		locks:     lock.NewKeyedMutex(),
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RebuildIndex reloads the calendar index from storage. Called once at
// startup before the service accepts traffic.
func (s *bookingService) RebuildIndex(ctx context.Context) error {
	active, err := s.repo.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("rebuild calendar index: %w", err)
	}
	s.index.Rebuild(active)
	s.logger.Info("calendar index rebuilt", "active_bookings", len(active))
	return nil
}

// Submit validates a booking request, checks availability under the venue
// lock and persists the booking as upcoming.
func (s *bookingService) Submit(ctx context.Context, req *model.BookingRequest, requesterID string) (*model.Booking, error) {
	draft, err := s.validator.ValidateRequest(ctx, req, requesterID)
	if err != nil {
		return nil, s.mapValidationError(err)
	}

	release, err := s.acquireVenue(ctx, draft.VenueID)
	if err != nil {
		return nil, err
	}
	defer release()

	if conflicts := s.checker.Conflicts(draft.VenueID, draft.StartTime, draft.EndTime, ""); len(conflicts) > 0 {
		return nil, unavailableError(draft.VenueID, conflicts)
	}

	draft.Status = model.StatusUpcoming
	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, apperrors.Internal("failed to create booking", err)
	}
	s.index.Upsert(draft)

	s.publish(ctx, events.TypeBookingCreated, draft)
	s.logger.Info("booking created",
		"booking_id", draft.ID,
		"venue_id", draft.VenueID,
		"start_time", draft.StartTime,
		"end_time", draft.EndTime,
	)

	return draft, nil
}

// ChangeStatus applies a lifecycle transition. Reactivating a cancelled
// booking re-checks availability; its dates may have been taken since.
func (s *bookingService) ChangeStatus(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireVenue(ctx, booking.VenueID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock; the status may have moved while waiting.
	booking, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Active() && !s.index.Contains(booking.ID) {
		panic(fmt.Sprintf("calendar index out of sync: active booking %s has no entries", booking.ID))
	}

	if err := validateTransition(booking.Status, target); err != nil {
		return nil, err
	}

	if target == model.StatusUpcoming {
		if conflicts := s.checker.Conflicts(booking.VenueID, booking.StartTime, booking.EndTime, booking.ID); len(conflicts) > 0 {
			return nil, unavailableError(booking.VenueID, conflicts)
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, booking.Status, target); err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("booking", id)
		case errors.Is(err, bookingserrors.ErrStaleStatus):
			return nil, apperrors.Conflict(fmt.Sprintf("booking %s was modified concurrently", id))
		default:
			return nil, apperrors.Internal("failed to update booking status", err)
		}
	}

	prev := booking.Status
	booking.Status = target
	booking.UpdatedAt = s.now()
	s.index.Upsert(booking)

	s.publish(ctx, transitionEvent(target), booking)
	s.logger.Info("booking status changed",
		"booking_id", booking.ID,
		"venue_id", booking.VenueID,
		"from", prev,
		"to", target,
	)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("booking", id)
		case errors.Is(err, bookingserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid booking id: %s", id))
		default:
			return nil, apperrors.Internal("failed to get booking", err)
		}
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status filter: %s", filter.Status))
	}

	bookings, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", err)
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, total, nil
}

// CalendarView returns the indexed entries for a venue across the dates
// from covers through the date of to, bounded by the configured maximum
// range.
func (s *bookingService) CalendarView(ctx context.Context, venueID string, from, to time.Time) ([]model.CalendarEntry, error) {
	if !from.Before(to) {
		return nil, apperrors.InvalidInput("calendar range start must precede end")
	}
	maxRange := time.Duration(s.cfg.CalendarMaxRangeDays) * 24 * time.Hour
	if to.Sub(from) > maxRange {
		return nil, apperrors.InvalidInput(fmt.Sprintf("calendar range exceeds %d days", s.cfg.CalendarMaxRangeDays))
	}

	if _, err := s.catalog.FindByID(ctx, venueID); err != nil {
		return nil, apperrors.New(CodeUnknownVenue, fmt.Sprintf("unknown venue: %s", venueID), http.StatusUnprocessableEntity)
	}

	entries := []model.CalendarEntry{}
	for entry := range s.index.EntriesInRange(venueID, from, to) {
		entries = append(entries, entry)
	}
	return entries, nil
}

// CompleteElapsed transitions every upcoming booking whose end time has
// passed to completed. Driven by the sweep loop, not by reads.
func (s *bookingService) CompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.repo.FindElapsed(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("find elapsed bookings: %w", err)
	}

	completed := 0
	for _, booking := range elapsed {
		if _, err := s.ChangeStatus(ctx, booking.ID, model.StatusCompleted); err != nil {
			s.logger.Error("failed to complete elapsed booking",
				"booking_id", booking.ID,
				"error", err,
			)
			continue
		}
		completed++
	}
	return completed, nil
}

// acquireVenue serializes writers per venue. A context that expires while
// waiting surfaces as a timeout, not as a conflict.
func (s *bookingService) acquireVenue(ctx context.Context, venueID string) (func(), error) {
	release, err := s.locks.Acquire(ctx, venueID)
	if err != nil {
		return nil, apperrors.Timeout(fmt.Sprintf("timed out waiting for venue %s", venueID))
	}
	return release, nil
}

func (s *bookingService) publish(ctx context.Context, t events.Type, b *model.Booking) {
	if err := s.publisher.Publish(ctx, events.NewBookingEvent(t, b)); err != nil {
		s.logger.Error("failed to publish booking event",
			"event_type", t,
			"booking_id", b.ID,
			"error", err,
		)
	}
}

// mapValidationError translates validator failures into the error contract.
func (s *bookingService) mapValidationError(err error) error {
	var verrs bookingvalidator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			fields[ve.Field] = ve.Message
		}
		return apperrors.Validation("invalid booking request", fields)
	}

	switch {
	case errors.Is(err, bookingserrors.ErrUnknownVenue):
		return apperrors.New(CodeUnknownVenue, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, bookingserrors.ErrInvalidDate):
		return apperrors.New(CodeInvalidDate, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, bookingserrors.ErrInvalidDuration):
		return apperrors.New(CodeInvalidDuration, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, bookingserrors.ErrCapacityExceeded):
		return apperrors.New(CodeCapacityExceeded, err.Error(), http.StatusUnprocessableEntity)
	default:
		return apperrors.Internal("booking validation failed", err)
	}
}

// validateTransition enforces the lifecycle state machine: upcoming may be
// cancelled or completed, cancelled may be reactivated, completed is final.
func validateTransition(from, to model.BookingStatus) error {
	if !to.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("invalid status: %s", to))
	}

	allowed := false
	switch from {
	case model.StatusUpcoming:
		allowed = to == model.StatusCancelled || to == model.StatusCompleted
	case model.StatusCancelled:
		allowed = to == model.StatusUpcoming
	case model.StatusCompleted:
		allowed = false
	}

	if !allowed {
		return apperrors.New(
			CodeInvalidTransition,
			fmt.Sprintf("cannot transition booking from %s to %s", from, to),
			http.StatusConflict,
		)
	}
	return nil
}

func unavailableError(venueID string, conflicts []string) error {
	return apperrors.New(
		CodeUnavailable,
		fmt.Sprintf("venue %s is unavailable for the requested time", venueID),
		http.StatusConflict,
	).WithDetails(map[string]any{
		"conflicting_booking_ids": conflicts,
	})
}

func transitionEvent(target model.BookingStatus) events.Type {
	switch target {
	case model.StatusCancelled:
		return events.TypeBookingCancelled
	case model.StatusCompleted:
		return events.TypeBookingCompleted
	default:
		return events.TypeBookingReactivated
	}
}
