// Package apperr holds the sentinel errors the services return and their
// mapping onto HTTP status codes. Handlers match with errors.Is so services
// are free to wrap these with extra context.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotAuthenticated means no resolvable caller identity was attached
	// to the request.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUserNotFound means the caller's identity does not map to a known
	// user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrAdminRequired means the caller is known but lacks the admin role.
	ErrAdminRequired = errors.New("admin access required")

	ErrInstanceNotFound = errors.New("instance not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrPetNotFound      = errors.New("pet not found")

	// State conflicts. Retrying without re-reading state would hit the
	// same conflict, so these are surfaced to the caller as-is.
	ErrAlreadyConfirmed      = errors.New("instance already confirmed")
	ErrCannotSnoozeConfirmed = errors.New("cannot snooze a confirmed instance")

	ErrInvalidArgument = errors.New("invalid argument")
)

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrAdminRequired):
		return http.StatusForbidden
	case errors.Is(err, ErrInstanceNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrScheduleNotFound),
		errors.Is(err, ErrPetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyConfirmed), errors.Is(err, ErrCannotSnoozeConfirmed):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
