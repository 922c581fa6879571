// Package freshness forces the open-events listing to be refetched once per
// mount of the application shell.
//
// The shared cache prefers cached values and revalidates lazily, which is the
// right default everywhere except the first events listing a user sees: a stale
// listing there hides newly opened events.
package freshness

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OpenEventsKey is the cache slot of the open-events listing. Binding touches
// this key and no other.
const OpenEventsKey = "open-events"

var mountsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "eventshell_freshness_mounts_total",
	Help: "Forced open-events revalidations issued on mount",
})

// Invalidator is the slice of the shared cache the binding needs.
type Invalidator interface {
	InvalidateAndRefetch(key string)
}

// Binding issues one forced revalidation per instance. Build a new Binding for
// every mount; calling Mount again on the same instance does nothing.
type Binding struct {
	cache  Invalidator
	logger *slog.Logger
	once   sync.Once
	ran    bool
	mu     sync.Mutex
}

// Option configures a Binding.
type Option func(*Binding)

// WithLogger sets the binding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binding) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBinding builds a binding for one mount.
func NewBinding(cache Invalidator, opts ...Option) *Binding {
	b := &Binding{
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Mount instructs the cache to invalidate and refetch the open-events listing.
// Only the first call per Binding has an effect. It does not wait for, or look
// at, the refetch outcome.
func (b *Binding) Mount() {
	b.once.Do(func() {
		b.cache.InvalidateAndRefetch(OpenEventsKey)
		mountsTotal.Inc()
		b.logger.Debug("forced open-events revalidation", "key", OpenEventsKey)

		b.mu.Lock()
		b.ran = true
		b.mu.Unlock()
	})
}

// Mounted reports whether the revalidation was issued.
func (b *Binding) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ran
}
