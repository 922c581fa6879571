// Package cache is the shared client cache. Reads prefer the cached value and
// revalidate lazily; InvalidateAndRefetch forces a background refetch.
package cache

import (
	"context"
	"time"
)

// Entry is a cached value and its freshness.
type Entry struct {
	Key       string
	Value     []byte
	FetchedAt time.Time
	Stale     bool
}

// Store persists entries. Get returns sentinel.ErrNotFound for unknown keys and
// MarkStale returns it when there is nothing to mark.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, entry Entry) error
	MarkStale(ctx context.Context, key string) error
}

// Cache is the contract consumers depend on.
type Cache interface {
	InvalidateAndRefetch(key string)
	Read(ctx context.Context, key string) (Entry, bool)
}
