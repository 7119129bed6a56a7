package config

import "errors"

// ErrParse wraps failures reported by the environment parser.
var ErrParse = errors.New("config: failed to parse environment")
