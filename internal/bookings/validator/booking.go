package validator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	bookingserrors "venuebook/internal/bookings/errors"
	venueserrors "venuebook/internal/venues/errors"
	"venuebook/pkg/model"
	"venuebook/pkg/sanitizer"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// VenueCatalog resolves venue records for validation. The catalog is owned
// elsewhere; the validator only reads it.
type VenueCatalog interface {
	FindByID(ctx context.Context, id string) (*model.Venue, error)
}

// BookingValidator normalizes raw booking requests and runs the ordered
// semantic checks: venue resolution, start date, duration, guest count.
// The first violated check wins; a passing request comes back as a booking
// draft with no identifier and no status.
type BookingValidator struct {
	validate    *validator.Validate
	catalog     VenueCatalog
	now         func() time.Time
	maxDuration time.Duration
}

func NewBookingValidator(catalog VenueCatalog, now func() time.Time, maxDuration time.Duration) *BookingValidator {
	return &BookingValidator{
		validate:    validator.New(),
		catalog:     catalog,
		now:         now,
		maxDuration: maxDuration,
	}
}

// ValidateRequest sanitizes and validates a raw request, returning a
// normalized booking draft. It has no side effects.
func (v *BookingValidator) ValidateRequest(ctx context.Context, req *model.BookingRequest, requesterID string) (*model.Booking, error) {
	req.Title = sanitizer.SanitizeTitle(req.Title)
	req.EventType = sanitizer.SanitizeEventType(req.EventType)
	req.Notes = sanitizer.SanitizeNotes(req.Notes)

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, v.translateValidationErrors(validationErrs)
		}
		return nil, err
	}

	venue, err := v.catalog.FindByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueserrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrUnknownVenue, req.VenueID)
		}
		return nil, fmt.Errorf("resolve venue: %w", err)
	}

	start := req.StartTime.UTC()
	if start.Before(v.now().UTC()) {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidDate, start.Format(time.RFC3339))
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	if duration <= 0 || duration > v.maxDuration {
		return nil, fmt.Errorf("%w: %dm (max %s)", bookingserrors.ErrInvalidDuration, req.DurationMinutes, v.maxDuration)
	}

	if req.Guests <= 0 || req.Guests > venue.Capacity {
		return nil, fmt.Errorf("%w: %d guests, venue capacity %d", bookingserrors.ErrCapacityExceeded, req.Guests, venue.Capacity)
	}

	return &model.Booking{
		VenueID:     venue.ID,
		RequesterID: requesterID,
		Title:       req.Title,
		EventType:   req.EventType,
		StartTime:   start,
		EndTime:     start.Add(duration),
		Guests:      req.Guests,
		Cost:        bookingCost(venue.BasePrice, duration),
		Notes:       req.Notes,
	}, nil
}

// bookingCost charges the venue's base price per started hour.
func bookingCost(basePrice float64, duration time.Duration) float64 {
	hours := math.Ceil(duration.Hours())
	return basePrice * hours
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
