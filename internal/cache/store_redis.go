package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"eventshell/pkg/platform/sentinel"
)

const (
	// Redis key prefix for cache entries
	entryKeyPrefix = "eventshell:cache:"

	fieldValue     = "value"
	fieldFetchedAt = "fetched_at"
	fieldStale     = "stale"
)

// RedisStore keeps entries in Redis hashes so several shells on one host share
// the same listings.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRetention expires entries that have not been rewritten within d.
func WithRetention(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) { s.retention = d }
}

// NewRedisStore constructs a Redis-backed entry store.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	fields, err := s.client.HGetAll(ctx, entryKeyPrefix+key).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("%w: read cache entry %s: %w", sentinel.ErrUnavailable, key, err)
	}
	if len(fields) == 0 {
		return Entry{}, fmt.Errorf("cache entry %s: %w", key, sentinel.ErrNotFound)
	}
	fetchedAt, err := strconv.ParseInt(fields[fieldFetchedAt], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return Entry{
		Key:       key,
		Value:     []byte(fields[fieldValue]),
		FetchedAt: time.Unix(0, fetchedAt).UTC(),
		Stale:     fields[fieldStale] == "1",
	}, nil
}

// Put replaces the entry atomically and refreshes its retention.
func (s *RedisStore) Put(ctx context.Context, entry Entry) error {
	key := entryKeyPrefix + entry.Key
	stale := "0"
	if entry.Stale {
		stale = "1"
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldValue, entry.Value,
			fieldFetchedAt, strconv.FormatInt(entry.FetchedAt.UnixNano(), 10),
			fieldStale, stale,
		)
		if s.retention > 0 {
			pipe.Expire(ctx, key, s.retention)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: write cache entry %s: %w", sentinel.ErrUnavailable, entry.Key, err)
	}
	return nil
}

// MarkStale flags an existing entry. WATCH keeps a concurrent Put from being
// resurrected as a partial hash.
func (s *RedisStore) MarkStale(ctx context.Context, key string) error {
	redisKey := entryKeyPrefix + key
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, redisKey).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("cache entry %s: %w", key, sentinel.ErrNotFound)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, redisKey, fieldStale, "1")
			return nil
		})
		return err
	}, redisKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: mark cache entry %s stale: %w", sentinel.ErrUnavailable, key, err)
	}
	return nil
}
