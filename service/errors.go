package service

import (
	"errors"
	"strings"
)

var (
	// ErrBusy is returned while a request for the same session is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrActionUnavailable is returned for actions the current phase does not allow.
	ErrActionUnavailable = errors.New("action not available in the current state")
	ErrSessionNotFound   = errors.New("session not found")
)

// ValidationError is a local precondition failure. It is never sent to the
// document service.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return "missing required fields: " + strings.Join(e.Fields, ", ")
	}
	return e.Reason
}

// IsValidation returns true if err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
