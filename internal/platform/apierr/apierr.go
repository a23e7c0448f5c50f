package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Invalid wraps msg as a 400 with ErrInvalidArgument in its chain.
func Invalid(code, msg string) *Error {
	return New(http.StatusBadRequest, code, fmt.Errorf("%w: %s", ErrInvalidArgument, msg))
}

func NotFound(code, msg string) *Error {
	return New(http.StatusNotFound, code, fmt.Errorf("%w: %s", ErrNotFound, msg))
}

func Conflict(code, msg string) *Error {
	return New(http.StatusConflict, code, fmt.Errorf("%w: %s", ErrConflict, msg))
}

func Unauthorized(code, msg string) *Error {
	return New(http.StatusUnauthorized, code, fmt.Errorf("%w: %s", ErrUnauthorized, msg))
}

// Resolve picks the HTTP status and code for err. Errors that are not an
// *Error are classified by their sentinel, falling back to 500.
func Resolve(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status, ae.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, "too_many_requests"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
