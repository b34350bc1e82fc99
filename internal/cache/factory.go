package cache

import (
	"log/slog"
	"time"
)

// Options holds configuration for cache creation.
type Options struct {
	// RedisURL is the Redis connection URL. Empty selects the in-memory backend.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for the memory cache (0 = unlimited).
	MaxSize int
}

// New creates a cache backend from the given options. When a Redis URL is
// configured but the server is unreachable, it falls back to the in-memory
// backend so a cache outage never takes the site down.
func New(opts Options) Cacher {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = time.Hour
	}

	if opts.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
		if err == nil {
			slog.Info("using redis cache", "prefix", opts.Prefix)
			return rc
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxSize:         opts.MaxSize,
		CleanupInterval: time.Minute,
	})
}
