//go:build integration

package credential_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventshell/internal/credential"
	"eventshell/internal/identity"
	"eventshell/pkg/platform/sentinel"
	"eventshell/pkg/testutil/containers"
)

type RedisSourceSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisSourceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSourceSuite))
}

func (s *RedisSourceSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisSourceSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

type recorder struct {
	mu  sync.Mutex
	got []identity.Identity
}

func (r *recorder) record(id identity.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, id)
}

func (r *recorder) snapshot() []identity.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]identity.Identity(nil), r.got...)
}

func (s *RedisSourceSuite) TestEmitsSignedOutWhenNothingStored() {
	src := credential.NewRedisSource(s.redis.Client, "shell-empty")
	rec := &recorder{}

	unsubscribe, err := src.Subscribe(context.Background(), rec.record)
	s.Require().NoError(err)
	defer unsubscribe()

	s.Equal([]identity.Identity{identity.SignedOut()}, rec.snapshot())
}

func (s *RedisSourceSuite) TestRelaysPublishedChangesInOrder() {
	ctx := context.Background()
	src := credential.NewRedisSource(s.redis.Client, "shell-a")
	s.Require().NoError(src.Publish(ctx, identity.Anonymous("u1")))

	rec := &recorder{}
	unsubscribe, err := src.Subscribe(ctx, rec.record)
	s.Require().NoError(err)
	defer unsubscribe()

	s.Require().NoError(src.Publish(ctx, identity.Authenticated("user-999")))
	s.Require().NoError(src.Publish(ctx, identity.SignedOut()))

	want := []identity.Identity{identity.Anonymous("u1"), identity.Authenticated("user-999"), identity.SignedOut()}
	s.Eventually(func() bool { return len(rec.snapshot()) == len(want) }, 5*time.Second, 20*time.Millisecond)
	s.Equal(want, rec.snapshot())
}

func (s *RedisSourceSuite) TestUnsubscribeStopsRelay() {
	ctx := context.Background()
	src := credential.NewRedisSource(s.redis.Client, "shell-b")
	rec := &recorder{}

	unsubscribe, err := src.Subscribe(ctx, rec.record)
	s.Require().NoError(err)
	unsubscribe()
	unsubscribe()

	s.Require().NoError(src.Publish(ctx, identity.Anonymous("late")))
	s.Never(func() bool { return len(rec.snapshot()) > 1 }, 300*time.Millisecond, 20*time.Millisecond)
}

func (s *RedisSourceSuite) TestPublishRejectsUnresolved() {
	src := credential.NewRedisSource(s.redis.Client, "shell-c")
	s.Error(src.Publish(context.Background(), identity.Unresolved()))
}

func (s *RedisSourceSuite) TestRelayDropsUnresolvedChanges() {
	ctx := context.Background()
	src := credential.NewRedisSource(s.redis.Client, "shell-d")
	rec := &recorder{}

	unsubscribe, err := src.Subscribe(ctx, rec.record)
	s.Require().NoError(err)
	defer unsubscribe()

	channel := "eventshell:identity:changes:shell-d"
	s.Require().NoError(s.redis.Client.Publish(ctx, channel, `{"kind":"unresolved"}`).Err())
	s.Require().NoError(src.Publish(ctx, identity.Anonymous("u2")))

	want := []identity.Identity{identity.SignedOut(), identity.Anonymous("u2")}
	s.Eventually(func() bool { return len(rec.snapshot()) == len(want) }, 5*time.Second, 20*time.Millisecond)
	s.Equal(want, rec.snapshot())
}

func (s *RedisSourceSuite) TestStoredUnresolvedIsAnError() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, "eventshell:identity:shell-e", `{"kind":"unresolved"}`, 0).Err())

	src := credential.NewRedisSource(s.redis.Client, "shell-e")
	_, err := src.Current(ctx)
	s.ErrorIs(err, sentinel.ErrInvalidState)
}
