// Package apperr defines the engine's error taxonomy: validation errors
// (rejected before any mutation), state conflicts (the operation is a no-op
// on the store, surfaced as a distinct user-actionable condition), and
// not-found errors. Each condition carries a stable code so consumers can
// switch on it without string matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups error conditions by how consumers should treat them.
type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindNotFound
)

// Error is a typed engine error. Compare with errors.Is against the package
// sentinels, or errors.As to recover the code and kind.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Is matches any error that carries the same code, so wrapped sentinels
// compare equal to the originals.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func newErr(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, msg: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error with the given code.
func Validation(code, format string, args ...any) *Error {
	return newErr(KindValidation, code, format, args...)
}

// Conflict creates a state-conflict error with the given code.
func Conflict(code, format string, args ...any) *Error {
	return newErr(KindConflict, code, format, args...)
}

// NotFound creates a not-found error with the given code.
func NotFound(code, format string, args ...any) *Error {
	return newErr(KindNotFound, code, format, args...)
}

// Sentinels for every condition the engine surfaces. Operations return these
// (optionally wrapped) so callers can use errors.Is.
var (
	ErrHabitNotFound   = NotFound("HabitNotFound", "habit not found")
	ErrSessionNotFound = NotFound("SessionNotFound", "session not found")

	ErrSessionAlreadyActive  = Conflict("SessionAlreadyActive", "a session is already active for this habit")
	ErrNoActiveSession       = Conflict("NoActiveSession", "no active session for this habit")
	ErrAlreadyCompletedToday = Conflict("AlreadyCompletedToday", "habit already completed today")
	ErrNoFreezesRemaining    = Conflict("NoFreezesRemaining", "no freezes remaining")
	ErrAlreadyResolvedToday  = Conflict("AlreadyResolvedToday", "today is already resolved for this habit")

	ErrNotTimerMode             = Validation("NotTimerMode", "habit is not timer-tracked")
	ErrNotManualMode            = Validation("NotManualMode", "habit is not manually tracked")
	ErrNotFreezable             = Validation("NotFreezable", "habit is not freezable")
	ErrManualOverrideNotAllowed = Validation("ManualOverrideNotAllowed", "manual time entry is not allowed for this habit")
	ErrInvalidDuration          = Validation("InvalidDuration", "duration must be greater than zero")
)

// Invalid creates a field validation error.
func Invalid(format string, args ...any) *Error {
	return Validation("InvalidInput", format, args...)
}

// CodeOf returns the stable code of err, or "" for untyped errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an error to the response status the API uses:
// validation 422, conflict 409, not-found 404, anything else 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
