//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventshell/internal/cache"
	"eventshell/pkg/platform/sentinel"
	"eventshell/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = cache.NewRedisStore(s.redis.Client, cache.WithRetention(time.Hour))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	fetchedAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Put(ctx, cache.Entry{Key: "open-events", Value: []byte(`[{"id":"e1"}]`), FetchedAt: fetchedAt}))

	entry, err := s.store.Get(ctx, "open-events")
	s.Require().NoError(err)
	s.Equal(`[{"id":"e1"}]`, string(entry.Value))
	s.True(fetchedAt.Equal(entry.FetchedAt))
	s.False(entry.Stale)
}

func (s *RedisStoreSuite) TestMarkStale() {
	ctx := context.Background()
	s.ErrorIs(s.store.MarkStale(ctx, "missing"), sentinel.ErrNotFound)

	s.Require().NoError(s.store.Put(ctx, cache.Entry{Key: "k", Value: []byte("v"), FetchedAt: time.Now()}))
	s.Require().NoError(s.store.MarkStale(ctx, "k"))

	entry, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.True(entry.Stale)

	s.Require().NoError(s.store.Put(ctx, cache.Entry{Key: "k", Value: []byte("v2"), FetchedAt: time.Now()}))
	entry, err = s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.False(entry.Stale)
}

func (s *RedisStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
