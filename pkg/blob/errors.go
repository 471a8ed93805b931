package blob

import "errors"

// Sentinel errors returned by blob store implementations. Backend-specific
// failures are wrapped so callers can match with errors.Is.
var (
	// ErrNotFound indicates no blob exists under the requested key.
	ErrNotFound = errors.New("blob not found")

	// ErrEmptyKey indicates an operation was called with an empty key.
	ErrEmptyKey = errors.New("blob key cannot be empty")

	// ErrStoreClosed indicates the store was used after Close.
	ErrStoreClosed = errors.New("blob store is closed")
)
