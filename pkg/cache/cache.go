// Package cache provides byte-level caching for conversion results and
// rendered artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//
// All backends implement [Cache] and honor per-entry TTLs.
//
// # Keys
//
// A [Keyer] derives keys from content hashes so that identical input always
// maps to the same entry:
//
//	k := cache.NewDefaultKeyer()
//	graphKey := k.GraphKey("markdown", cache.Hash(content))
//	svgKey := k.ArtifactKey(graphHash, cache.ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] prefixes every key, which keeps several deployments apart
// when they share one Redis.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
