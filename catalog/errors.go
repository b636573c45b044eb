package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is the message carried by every FormatError.
const ErrInvalidFormat = "Invalid response format"

// TransportError is returned when the catalog request fails at the HTTP level:
// either the server answered with a non-2xx status or the request never
// completed.
type TransportError struct {
	Status     int    // 0 for network-level failures
	StatusText string // reason phrase of the response, if any
	Wrapped    error  // underlying network error, if any
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return e.StatusText
	}
	if e.Wrapped != nil {
		return e.Wrapped.Error()
	}
	return ""
}

func (e *TransportError) Unwrap() error {
	return e.Wrapped
}

// FormatError is returned when a 2xx response body is not a models envelope.
type FormatError struct {
	Wrapped error // decode failure, if any
}

func (e *FormatError) Error() string {
	return ErrInvalidFormat
}

func (e *FormatError) Unwrap() error {
	return e.Wrapped
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsFormat reports whether err is, or wraps, a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Describe returns a log-friendly description of a catalog error, including
// the status code for HTTP failures.
func Describe(err error) string {
	var te *TransportError
	if errors.As(err, &te) && te.Status > 0 {
		return fmt.Sprintf("transport error (status %d): %s", te.Status, te.StatusText)
	}
	if te != nil {
		return fmt.Sprintf("transport error: %v", te.Wrapped)
	}
	if IsFormat(err) {
		return "format error: " + ErrInvalidFormat
	}
	return err.Error()
}
