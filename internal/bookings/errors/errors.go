package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrUnknownVenue: the request names a venue the catalog cannot resolve.
	ErrUnknownVenue = errors.New("unknown venue")

	// ErrInvalidDate: the requested start is in the past.
	ErrInvalidDate = errors.New("start date is in the past")

	// ErrInvalidDuration: non-positive or above the configured maximum.
	ErrInvalidDuration = errors.New("invalid booking duration")

	// ErrCapacityExceeded: guest count is not positive or exceeds venue capacity.
	ErrCapacityExceeded = errors.New("guest count exceeds venue capacity")

	// ErrStaleStatus: a conditional status write found the booking in a
	// different status than the caller read.
	ErrStaleStatus = errors.New("booking status changed concurrently")
)
