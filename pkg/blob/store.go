package blob

import (
	"context"
	"io"
)

// ============================================================================
// Blob Store Interface
// ============================================================================

// Store provides content-addressed-by-key payload storage.
//
// Keys are opaque strings minted by the lifecycle engine; the store never
// interprets them. Payloads are immutable: a key is written exactly once and
// deleted at most once, so implementations do not need versioning or
// overwrite semantics (Put over an existing key simply replaces it).
//
// Error Contract:
//   - Get/Open on a missing key return ErrNotFound (possibly wrapped)
//   - Delete on a missing key succeeds (idempotent)
//   - any operation with an empty key returns ErrEmptyKey
//
// Thread Safety:
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores data under key, replacing any existing payload.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the full payload stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Open returns a streaming reader over the payload stored under key.
	// The caller must close the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether a payload is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Size returns the payload length in bytes for key.
	Size(ctx context.Context, key string) (uint64, error)

	// Delete removes the payload stored under key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteBatch removes many payloads. Returns a map of key to error for
	// the keys that failed; an empty map means every delete succeeded.
	// Missing keys count as success.
	DeleteBatch(ctx context.Context, keys []string) (map[string]error, error)

	// List returns every stored key, in no particular order.
	List(ctx context.Context) ([]string, error)

	// Count returns the number of stored payloads.
	Count(ctx context.Context) (int, error)

	// Healthcheck verifies the backend can serve requests.
	Healthcheck(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
