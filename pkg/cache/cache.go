// Package cache stores rendered artifacts between runs.
//
// A render job is deterministic in its inputs: the figure's resolved layout
// and draw attributes, its size and resolution, and the backend with its
// output formats. The pipeline hashes these into a key with a [Keyer] and
// skips layout and drawing when the [Cache] already holds the artifacts.
//
// Three implementations are provided:
//   - [FileCache]: JSON entries in a local directory (the CLI default)
//   - [RedisCache]: entries in a Redis database, shared between machines
//   - [NullCache]: stores nothing, for --no-cache runs and tests
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases the cache's resources.
	Close() error
}
