// Package cachemanager provides string-keyed TTL caches used to avoid
// re-fetching diff text and file contents on every render.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a string-keyed cache with per-entry TTL.
type CacheManager[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	GetMultiple(ctx context.Context, keys []string) (map[string]V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...string) error
	Flush(ctx context.Context) error
}
