package storefront

import (
	"errors"

	"github.com/stovelib/stove/core/transport"
)

var (
	ErrPageNotFound     = errors.New("storefront: page not found")
	ErrParseDegraded    = errors.New("storefront: expected element not found")
	ErrInvalidInput     = errors.New("storefront: invalid input")
	ErrUnexpectedResult = errors.New("storefront: unexpected api result")

	// ErrUnexpectedStatus matches non-2xx API responses.
	ErrUnexpectedStatus = transport.ErrUnexpectedStatus
)
