package transport

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHeaders   = errors.New("transport: invalid header configuration")
	ErrUnexpectedStatus = errors.New("transport: unexpected status code")
	ErrDecode           = errors.New("transport: failed to decode response body")
)

// StatusError reports a non-2xx response. It matches ErrUnexpectedStatus.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: unexpected status %d from %s", e.Code, e.URL)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// StatusCode extracts the HTTP status from a StatusError chain, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
