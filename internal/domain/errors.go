package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing traveler field, people/traveler mismatch).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInsufficientSeats is returned when a reservation asks for more seats
// than a schedule has left. It is a user-facing rejection, not a retry
// condition. Handlers should map this to HTTP 409 Conflict.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrInvalidTransition is returned when a status change is not permitted by
// the booking or attendance state machine, including a scan of an
// already-resolved booking. Handlers should map this to HTTP 409 Conflict.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrForbidden is returned when the authenticated user lacks the capability
// for an operation (e.g. a traveler invoking a staff-only transition).
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")
