package library

import "errors"

// ErrConfigurationMissing is returned when account import is not enabled.
// Hosts treat it as a clean, empty import.
var ErrConfigurationMissing = errors.New("library: account connection not configured")
