package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"eventshell/pkg/platform/sentinel"
)

// Fetcher loads the authoritative value for one key.
type Fetcher func(ctx context.Context) ([]byte, error)

// DefaultStaleAfter is how long a fetched value is served without revalidation.
const DefaultStaleAfter = 30 * time.Second

// Layer is the shared cache. Reads serve whatever is stored and schedule a
// background revalidation when the entry is stale or missing. Concurrent
// refetches of one key are collapsed into a single fetch.
type Layer struct {
	store      Store
	staleAfter time.Duration
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
	now        func() time.Time
	tracer     trace.Tracer

	mu       sync.RWMutex
	fetchers map[string]Fetcher

	group  singleflight.Group
	ctx    context.Context
	cancel context.CancelFunc

	lifeMu sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Layer.
type Option func(*Layer)

// WithStaleAfter sets how long entries are considered fresh.
func WithStaleAfter(d time.Duration) Option {
	return func(l *Layer) {
		if d > 0 {
			l.staleAfter = d
		}
	}
}

// WithBackOff sets the retry policy for refetches. A new policy is built per
// refetch.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(l *Layer) {
		if newBackOff != nil {
			l.newBackOff = newBackOff
		}
	}
}

// WithLogger sets the layer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Layer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source used for staleness.
func WithClock(now func() time.Time) Option {
	return func(l *Layer) {
		if now != nil {
			l.now = now
		}
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	return backoff.WithMaxRetries(b, 5)
}

// NewLayer builds a cache layer over store.
func NewLayer(store Store, opts ...Option) *Layer {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Layer{
		store:      store,
		staleAfter: DefaultStaleAfter,
		newBackOff: defaultBackOff,
		logger:     slog.Default(),
		now:        time.Now,
		tracer:     otel.Tracer("eventshell/internal/cache"),
		fetchers:   make(map[string]Fetcher),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Register binds a fetcher to key, replacing any previous one.
func (l *Layer) Register(key string, fetch Fetcher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fetchers[key] = fetch
}

// Read returns the stored entry and whether one exists. Entry.Stale reports
// whether the value is past its freshness window or was invalidated; in that
// case, and when nothing is stored, a background revalidation is scheduled.
func (l *Layer) Read(ctx context.Context, key string) (Entry, bool) {
	entry, err := l.store.Get(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		readsTotal.WithLabelValues("miss").Inc()
		l.revalidate(key)
		return Entry{}, false
	}
	if err != nil {
		readsTotal.WithLabelValues("error").Inc()
		l.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return Entry{}, false
	}

	if !entry.Stale && l.now().Sub(entry.FetchedAt) > l.staleAfter {
		entry.Stale = true
	}
	if entry.Stale {
		readsTotal.WithLabelValues("stale").Inc()
		l.revalidate(key)
		return entry, true
	}
	readsTotal.WithLabelValues("fresh").Inc()
	return entry, true
}

// InvalidateAndRefetch marks key stale and refetches it, both in the
// background. It returns immediately. Unavailable upstreams are retried, other
// failures are not; either way the failure is logged and the stale value keeps
// being served.
func (l *Layer) InvalidateAndRefetch(key string) {
	forcedRevalidationsTotal.WithLabelValues(key).Inc()
	l.background(key, true)
}

// Refresh fetches key now and stores the result. Concurrent calls for the same
// key share one fetch.
func (l *Layer) Refresh(ctx context.Context, key string) (Entry, error) {
	v, err, _ := l.group.Do(key, func() (any, error) {
		return l.refetch(ctx, key)
	})
	if err != nil {
		return Entry{}, err
	}
	return v.(Entry), nil
}

// Wait blocks until every scheduled background refetch has finished.
func (l *Layer) Wait() {
	l.wg.Wait()
}

// Close cancels background refetches and waits for them to exit.
func (l *Layer) Close() {
	l.lifeMu.Lock()
	l.closed = true
	l.lifeMu.Unlock()
	l.cancel()
	l.wg.Wait()
}

func (l *Layer) fetcher(key string) (Fetcher, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fetch, ok := l.fetchers[key]
	return fetch, ok
}

func (l *Layer) revalidate(key string) {
	l.background(key, false)
}

// background refetches key off the caller's goroutine. With invalidate set the
// stored entry is marked stale first, so readers see it as stale until the
// refetch lands.
func (l *Layer) background(key string, invalidate bool) {
	l.lifeMu.Lock()
	if l.closed {
		l.lifeMu.Unlock()
		return
	}
	l.wg.Add(1)
	l.lifeMu.Unlock()
	go func() {
		defer l.wg.Done()
		if invalidate {
			if err := l.store.MarkStale(l.ctx, key); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				l.logger.Warn("cache invalidate failed", "key", key, "error", err)
			}
		}
		if _, err := l.Refresh(l.ctx, key); err != nil {
			l.logger.Warn("cache revalidation failed; serving stale value", "key", key, "error", err)
		}
	}()
}

func (l *Layer) refetch(ctx context.Context, key string) (Entry, error) {
	fetch, ok := l.fetcher(key)
	if !ok {
		return Entry{}, fmt.Errorf("no fetcher registered for %s: %w", key, sentinel.ErrNotFound)
	}

	ctx, span := l.tracer.Start(ctx, "cache.refetch", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	start := time.Now()
	defer func() {
		refetchDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	var value []byte
	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		v, err := fetch(ctx)
		if err != nil {
			// Only an unreachable upstream can heal on retry.
			if !errors.Is(err, sentinel.ErrUnavailable) {
				return backoff.Permanent(err)
			}
			return err
		}
		value = v
		return nil
	}, backoff.WithContext(l.newBackOff(), ctx))
	span.SetAttributes(attribute.Int("cache.attempts", attempts))
	if err != nil {
		refetchTotal.WithLabelValues("failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "refetch failed")
		return Entry{}, fmt.Errorf("refetch %s after %d attempts: %w", key, attempts, err)
	}

	entry := Entry{Key: key, Value: value, FetchedAt: l.now()}
	if err := l.store.Put(ctx, entry); err != nil {
		refetchTotal.WithLabelValues("failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return Entry{}, err
	}
	refetchTotal.WithLabelValues("success").Inc()
	return entry, nil
}

var _ Cache = (*Layer)(nil)
