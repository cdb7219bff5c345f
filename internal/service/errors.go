package service

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates the service replied with a body that is
// not JSON or does not have the expected shape.
var ErrMalformedResponse = errors.New("malformed response")

// TransportError is a failed call to the service: the request could not be
// sent, the status was not 2xx, or the body was malformed.
type TransportError struct {
	// Op is the endpoint, e.g. "/answer".
	Op string

	// StatusCode is 0 when no response was received.
	StatusCode int
	Status     string
	Body       string

	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("Failed %s: %s: %v", e.Op, e.Status, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("Failed %s: %s", e.Op, e.Status)
	default:
		return fmt.Sprintf("Failed %s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

func malformed(op string, statusCode int, status string, format string, args ...any) *TransportError {
	return &TransportError{
		Op:         op,
		StatusCode: statusCode,
		Status:     status,
		Err:        fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...)),
	}
}
