package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the typed failure every service returns. The handler layer maps
// Status straight onto the HTTP response; Code is a stable machine-readable
// discriminator for clients.
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

// NotFound covers both "does not exist" and "exists but belongs to someone
// else" — callers must not be able to tell the two apart.
func NotFound(msg string) *Error {
	return New(http.StatusNotFound, "not_found", errors.New(msg))
}

func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, "unauthorized", errors.New(msg))
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, "forbidden", errors.New(msg))
}

func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, "bad_request", errors.New(msg))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal", err)
}

// From extracts a typed *Error from an error chain, wrapping anything
// unrecognized as Internal so transaction failures surface as 500s.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

func IsStatus(err error, status int) bool {
	ae := From(err)
	return ae != nil && ae.Status == status
}
