package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationExpired means the host should ask the user to log in
	// again. Every other authentication error wraps it.
	ErrAuthenticationExpired = errors.New("auth: authentication expired")

	// ErrNotAuthenticated is returned when no valid session can be found or extracted.
	ErrNotAuthenticated = fmt.Errorf("auth: not authenticated: %w", ErrAuthenticationExpired)

	// ErrLoginCancelled is returned when the login window closes before the
	// user reaches the storefront.
	ErrLoginCancelled = fmt.Errorf("auth: login cancelled: %w", ErrAuthenticationExpired)
)

var (
	errNoMember    = errors.New("member number not present")
	errBadTokenFmt = errors.New("bearer token is not a JWT")
)
