package session

import "errors"

var (
	// ErrNotFound is returned by backends for a missing key.
	ErrNotFound = errors.New("session: value not found")
	// ErrInvalidSession is returned when saving a session without token or member number.
	ErrInvalidSession = errors.New("session: token and member number are required")
	// ErrSaveSession wraps backend failures while persisting.
	ErrSaveSession = errors.New("session: failed to save session")
	// ErrDeleteSession wraps backend failures while clearing.
	ErrDeleteSession = errors.New("session: failed to delete session")
	// ErrLoadSession wraps backend failures while reading.
	ErrLoadSession = errors.New("session: failed to load session")
	// ErrBackendClosed is returned by MemoryBackend once it is closed.
	ErrBackendClosed = errors.New("session: backend closed")
)
