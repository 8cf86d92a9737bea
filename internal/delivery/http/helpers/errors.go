package helpers

import (
	"errors"
	"net/http"

	"cerclepartages/internal/domain"
)

// WriteDomainError maps a domain sentinel error onto the response
// envelope. Unknown errors become a 500; callers log those themselves
// before delegating here.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		// Login-shaped failures deliberately collapse to one message.
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded):
		WriteJSONError(w, http.StatusConflict, ErrCodeCapacityExceeded, err.Error())
	case errors.Is(err, domain.ErrInvitationUsed),
		errors.Is(err, domain.ErrInvitationExpired),
		errors.Is(err, domain.ErrInvalidTransition):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}

// IsDomainError reports whether err maps to a client-facing status,
// i.e. the controller should not log it as a server failure.
func IsDomainError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrInvalidInput, domain.ErrUserNotFound, domain.ErrForbidden,
		domain.ErrNotFound, domain.ErrDuplicateEmail, domain.ErrCapacityExceeded,
		domain.ErrInvitationUsed, domain.ErrInvitationExpired, domain.ErrInvalidTransition,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
