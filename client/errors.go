package client

import (
	"errors"
	"fmt"
)

// TransportError reports a document-service request that could not be
// completed: network failure, non-success status or an unreadable body.
type TransportError struct {
	Op         string
	StatusCode int
	// Message is the server-provided message when one was returned.
	Message string
	err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.err)
	}
	return e.Op + ": request failed"
}

func (e *TransportError) Unwrap() error {
	return e.err
}

// IsTransport returns true if err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}
