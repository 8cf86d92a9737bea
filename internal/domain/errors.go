package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers
// map these to HTTP statuses; anything else is an internal error.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrCapacityExceeded is a business-rule rejection, not a transport
	// failure: the event has no seats left.
	ErrCapacityExceeded = errors.New("event capacity exceeded")

	ErrInvitationUsed    = errors.New("invitation already used")
	ErrInvitationExpired = errors.New("invitation expired")

	// ErrInvalidTransition is returned for a disallowed event status
	// change (e.g. publishing a cancelled event).
	ErrInvalidTransition = errors.New("invalid status transition")
)
