package games

import (
	"fmt"

	"github.com/stovelib/stove/core/auth"
)

// ErrUnauthorized is returned when the API keeps rejecting the session after
// one refresh. It matches auth.ErrAuthenticationExpired.
var ErrUnauthorized = fmt.Errorf("games: unauthorized after refresh: %w", auth.ErrAuthenticationExpired)
