package stove

import (
	"errors"

	"github.com/stovelib/stove/core/auth"
	"github.com/stovelib/stove/core/library"
	"github.com/stovelib/stove/core/storefront"
	"github.com/stovelib/stove/core/transport"
)

var (
	ErrInvalidConfig  = errors.New("stove: invalid configuration")
	ErrUnknownBackend = errors.New("stove: unknown session backend")
	ErrClosed         = errors.New("stove: client closed")

	// ErrAuthenticationExpired is the only failure a host should act on:
	// the user has to sign in again.
	ErrAuthenticationExpired = auth.ErrAuthenticationExpired
	ErrPageNotFound          = storefront.ErrPageNotFound
	ErrConfigurationMissing  = library.ErrConfigurationMissing
)

// IsAuthError reports whether err asks for a new login.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthenticationExpired)
}

// IsTransient reports whether err is a network failure worth retrying later.
func IsTransient(err error) bool {
	return transport.IsTransient(err)
}
