package sqlite

import "errors"

var (
	ErrEmptyPath         = errors.New("empty sqlite database path")
	ErrOpen              = errors.New("failed to open sqlite database")
	ErrMigrate           = errors.New("failed to migrate sqlite database")
	ErrHealthcheckFailed = errors.New("sqlite healthcheck failed")
)
