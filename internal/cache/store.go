// Package cache is the per-user local cache: a byte store (Redis, or process
// memory when Redis is unavailable) and a typed adapter on top of it.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned when a key is absent or expired.
	ErrMiss = errors.New("cache: miss")
	// ErrIncompatible is returned when a stored blob cannot be read by this
	// schema version.
	ErrIncompatible = errors.New("cache: incompatible entry")
)

// Store is a key/value store. A ttl of zero means no expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr increments the integer at key, setting ttl on it, and returns the new value.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
