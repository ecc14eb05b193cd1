package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is what the API reports to a client: a stable code, a human message and the HTTP
// status it travels with. Err holds the cause for logs only.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New declares an API error without a cause.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap reports cause to the client as code/status/message; cause stays reachable via errors.Is.
func Wrap(cause error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: cause}
}

// Templates for every failure the scheduler API reports. Call sites Clone them with a
// message naming the schedule, proposal or section involved.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "no such schedule or section")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "a valid student token is required")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "request clashes with saved data")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "feature is not configured on this server")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "request payload is invalid")
	ErrSearchSpace        = New("SEARCH_SPACE_TOO_LARGE", http.StatusUnprocessableEntity, "too many schedule combinations")
	ErrGone               = New("GONE", http.StatusGone, "link or proposal has expired")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "scheduler failed unexpectedly")
	ErrUpstream           = New("UPSTREAM_UNAVAILABLE", http.StatusBadGateway, "registrar feed unavailable")
)

// ErrCacheMiss means no generation is cached under a key. Services treat it as a cold
// start, so it is never rendered.
var ErrCacheMiss = errors.New("generation not cached")

// FromError turns err into the *Error a handler renders. Causes without one become
// ErrInternal so raw driver text never reaches a student.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a template; a non-empty message replaces the generic one.
func Clone(template *Error, message string) *Error {
	if template == nil {
		return nil
	}
	out := *template
	if message != "" {
		out.Message = message
	}
	return &out
}

// HasCode reports whether err is, or wraps, an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
