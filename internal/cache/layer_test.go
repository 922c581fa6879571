package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/suite"

	"eventshell/pkg/platform/sentinel"
)

type LayerSuite struct {
	suite.Suite
	store *InMemoryStore
	layer *Layer

	clockMu sync.Mutex
	now     time.Time
}

func (s *LayerSuite) SetupTest() {
	s.now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore()
	s.layer = NewLayer(s.store,
		WithStaleAfter(time.Minute),
		WithClock(s.clock),
		WithBackOff(func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
		}),
	)
}

func (s *LayerSuite) TearDownTest() {
	s.layer.Close()
}

func TestLayerSuite(t *testing.T) {
	suite.Run(t, new(LayerSuite))
}

func (s *LayerSuite) clock() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.now
}

func (s *LayerSuite) advance(d time.Duration) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.now = s.now.Add(d)
}

func countingFetcher(calls *atomic.Int32, value string) Fetcher {
	return func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(value), nil
	}
}

func (s *LayerSuite) TestRead() {
	s.Run("miss schedules a fetch", func() {
		var calls atomic.Int32
		s.layer.Register("k-miss", countingFetcher(&calls, "v1"))

		_, ok := s.layer.Read(context.Background(), "k-miss")
		s.False(ok)
		s.layer.Wait()

		entry, ok := s.layer.Read(context.Background(), "k-miss")
		s.Require().True(ok)
		s.Equal("v1", string(entry.Value))
		s.False(entry.Stale)
		s.Equal(int32(1), calls.Load())
	})

	s.Run("fresh entry is served without refetch", func() {
		var calls atomic.Int32
		s.layer.Register("k-fresh", countingFetcher(&calls, "v"))
		s.Require().NoError(s.store.Put(context.Background(), Entry{Key: "k-fresh", Value: []byte("cached"), FetchedAt: s.clock()}))

		entry, ok := s.layer.Read(context.Background(), "k-fresh")
		s.layer.Wait()

		s.Require().True(ok)
		s.Equal("cached", string(entry.Value))
		s.Zero(calls.Load())
	})

	s.Run("expired entry is served stale and revalidated lazily", func() {
		var calls atomic.Int32
		s.layer.Register("k-old", countingFetcher(&calls, "new"))
		s.Require().NoError(s.store.Put(context.Background(), Entry{Key: "k-old", Value: []byte("old"), FetchedAt: s.clock()}))
		s.advance(2 * time.Minute)

		entry, ok := s.layer.Read(context.Background(), "k-old")
		s.Require().True(ok)
		s.True(entry.Stale)
		s.Equal("old", string(entry.Value))

		s.layer.Wait()
		entry, ok = s.layer.Read(context.Background(), "k-old")
		s.Require().True(ok)
		s.False(entry.Stale)
		s.Equal("new", string(entry.Value))
		s.Equal(int32(1), calls.Load())
	})
}

func (s *LayerSuite) TestInvalidateAndRefetch() {
	s.Run("bypasses a fresh cached value", func() {
		var calls atomic.Int32
		s.layer.Register("open", countingFetcher(&calls, "latest"))
		s.Require().NoError(s.store.Put(context.Background(), Entry{Key: "open", Value: []byte("cached"), FetchedAt: s.clock()}))

		s.layer.InvalidateAndRefetch("open")

		s.layer.Wait()
		entry, ok := s.layer.Read(context.Background(), "open")
		s.Require().True(ok)
		s.Equal("latest", string(entry.Value))
		s.False(entry.Stale)
		s.Equal(int32(1), calls.Load())
	})

	s.Run("returns before the fetch completes", func() {
		release := make(chan struct{})
		s.layer.Register("slow", func(context.Context) ([]byte, error) {
			<-release
			return []byte("done"), nil
		})

		returned := make(chan struct{})
		go func() {
			s.layer.InvalidateAndRefetch("slow")
			close(returned)
		}()
		s.Eventually(func() bool {
			select {
			case <-returned:
				return true
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond)

		close(release)
		s.layer.Wait()
	})

	s.Run("failed refetch is retried then keeps serving stale", func() {
		var calls atomic.Int32
		s.layer.Register("flaky", func(context.Context) ([]byte, error) {
			calls.Add(1)
			return nil, fmt.Errorf("upstream down: %w", sentinel.ErrUnavailable)
		})
		s.Require().NoError(s.store.Put(context.Background(), Entry{Key: "flaky", Value: []byte("kept"), FetchedAt: s.clock()}))

		s.layer.InvalidateAndRefetch("flaky")
		s.layer.Wait()

		s.Equal(int32(3), calls.Load())
		stored, err := s.store.Get(context.Background(), "flaky")
		s.Require().NoError(err)
		s.True(stored.Stale)
		s.Equal("kept", string(stored.Value))
	})

	s.Run("non-transient failure is fetched once", func() {
		var calls atomic.Int32
		s.layer.Register("gone", func(context.Context) ([]byte, error) {
			calls.Add(1)
			return nil, fmt.Errorf("GET /v1/events/open: %w", sentinel.ErrNotFound)
		})

		s.layer.InvalidateAndRefetch("gone")
		s.layer.Wait()

		s.Equal(int32(1), calls.Load())
	})

	s.Run("decode failures are not retried", func() {
		var calls atomic.Int32
		s.layer.Register("garbled", func(context.Context) ([]byte, error) {
			calls.Add(1)
			return nil, errors.New("decode open events: unexpected EOF")
		})

		_, err := s.layer.Refresh(context.Background(), "garbled")
		s.Error(err)
		s.Equal(int32(1), calls.Load())
	})

	s.Run("unknown key is a no-op", func() {
		s.NotPanics(func() { s.layer.InvalidateAndRefetch("nobody-registered") })
		s.layer.Wait()
	})
}

func (s *LayerSuite) TestRefresh() {
	s.Run("reports missing fetcher", func() {
		_, err := s.layer.Refresh(context.Background(), "none")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("shares one fetch between concurrent callers", func() {
		var calls atomic.Int32
		started := make(chan struct{})
		release := make(chan struct{})
		s.layer.Register("shared", func(context.Context) ([]byte, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			<-release
			return []byte("v"), nil
		})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.layer.Refresh(context.Background(), "shared")
		}()
		<-started
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.layer.Refresh(context.Background(), "shared")
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		s.Equal(int32(1), calls.Load())
	})
}

func (s *LayerSuite) TestClose() {
	var calls atomic.Int32
	s.layer.Register("after-close", countingFetcher(&calls, "v"))

	s.layer.Close()
	s.layer.InvalidateAndRefetch("after-close")
	s.layer.Wait()

	s.Zero(calls.Load())
}

type slowStaleStore struct {
	*InMemoryStore
	release chan struct{}
	marked  atomic.Bool
}

func (s *slowStaleStore) MarkStale(ctx context.Context, key string) error {
	<-s.release
	s.marked.Store(true)
	return s.InMemoryStore.MarkStale(ctx, key)
}

func TestInvalidateAndRefetchDoesNotWaitForStore(t *testing.T) {
	store := &slowStaleStore{InMemoryStore: NewInMemoryStore(), release: make(chan struct{})}
	layer := NewLayer(store, WithBackOff(func() backoff.BackOff { return &backoff.StopBackOff{} }))
	defer layer.Close()

	var calls atomic.Int32
	layer.Register("open-events", countingFetcher(&calls, "fresh"))

	returned := make(chan struct{})
	go func() {
		layer.InvalidateAndRefetch("open-events")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("InvalidateAndRefetch blocked on the store")
	}
	if store.marked.Load() {
		t.Fatal("entry marked stale before the store was released")
	}

	close(store.release)
	layer.Wait()

	if !store.marked.Load() {
		t.Fatal("entry was never marked stale")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one fetch, got %d", got)
	}
}
