// Package cache stores layout results between runs.
//
// A [Cache] is a plain byte store with expiration. Three backends exist:
// [NullCache] (caching disabled), [FileCache] for the CLI, and [RedisCache]
// for servers sharing results. Keys are derived by a [Keyer] from the hash
// of the input snapshot and the options that change the result.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Default lifetimes of cached entries.
const (
	TTLColumns = 24 * time.Hour
	TTLArrange = 24 * time.Hour
	TTLRender  = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Backends accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend   string // BackendNone, BackendFile or BackendRedis
	Dir       string // directory of the file backend
	RedisAddr string // host:port of the redis backend
	Logger    *log.Logger
}

// Open creates the cache described by opts. An empty backend disables
// caching.
func Open(ctx context.Context, opts Options) (Cache, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory")
		}
		logger.Debug("using file cache", "dir", opts.Dir)
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		logger.Debug("using redis cache", "addr", opts.RedisAddr)
		c, err := NewRedisCache(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
}
