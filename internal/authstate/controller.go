// Package authstate owns the application shell's view of who the user is.
//
// A Controller subscribes once to a credential source and exposes the latest
// identity together with a resolved flag. The flag flips to true on the first
// emission (or on source failure) and never reverts.
package authstate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"eventshell/internal/credential"
	"eventshell/internal/identity"
	"eventshell/pkg/platform/sentinel"
)

// Snapshot is a read-only view of the controller state.
type Snapshot struct {
	Identity identity.Identity `json:"identity"`
	Resolved bool              `json:"resolved"`
}

type watcher struct {
	id uint64
	fn func(Snapshot)
}

// Controller applies credential source emissions in delivery order, last writer
// wins. Only the controller mutates its state.
type Controller struct {
	source credential.Source
	logger *slog.Logger

	// dispatchMu serializes state changes with watcher notification so watchers
	// observe emissions in order.
	dispatchMu sync.Mutex

	mu          sync.Mutex
	state       Snapshot
	started     bool
	closed      bool
	unsubscribe credential.Unsubscribe
	watchers    []watcher
	nextWatchID uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a controller over source. It does not subscribe until Start.
func New(source credential.Source, opts ...Option) *Controller {
	c := &Controller{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Start subscribes to the credential source. Only the first call subscribes;
// later calls return nil. Starting a closed controller returns ErrInvalidState.
//
// A source that fails to initialize is treated as an authoritative signed-out
// signal: the controller resolves to SignedOut and Start still returns nil.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("start closed controller: %w", sentinel.ErrInvalidState)
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	// Sources may emit synchronously from Subscribe, so no lock is held here.
	unsubscribe, err := c.source.Subscribe(ctx, c.apply)
	if err != nil {
		sourceFailuresTotal.Inc()
		c.logger.WarnContext(ctx, "credential source failed to initialize; resolving as signed out",
			"error", err,
		)
		c.apply(identity.SignedOut())
		return nil
	}

	c.mu.Lock()
	if c.closed {
		// Close ran while Subscribe was in flight.
		c.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		return nil
	}
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

// Close unsubscribes from the source. It is safe before Start, before any
// emission, and when called repeatedly. Emissions arriving after Close are
// ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Snapshot returns the current identity and resolved flag.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Watch calls fn with the current snapshot and then with every later change, in
// emission order. Registering before Start guarantees no emission is missed.
// fn runs with notifications serialized and must not call Watch itself.
func (c *Controller) Watch(fn func(Snapshot)) (cancel func()) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	c.nextWatchID++
	watchID := c.nextWatchID
	c.watchers = append(c.watchers, watcher{id: watchID, fn: fn})
	current := c.state
	c.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { c.removeWatcher(watchID) })
	}
}

func (c *Controller) apply(id identity.Identity) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = Snapshot{Identity: id, Resolved: true}
	next := c.state
	targets := make([]watcher, len(c.watchers))
	copy(targets, c.watchers)
	c.mu.Unlock()

	emissionsTotal.WithLabelValues(id.Kind.String()).Inc()
	resolvedGauge.Set(1)
	c.logger.Debug("identity changed", "identity", id.Kind.String())

	for _, w := range targets {
		if !c.watching(w.id) {
			continue
		}
		w.fn(next)
	}
}

func (c *Controller) watching(watchID uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.watchers {
		if w.id == watchID {
			return true
		}
	}
	return false
}

func (c *Controller) removeWatcher(watchID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.watchers[:0]
	for _, w := range c.watchers {
		if w.id != watchID {
			kept = append(kept, w)
		}
	}
	c.watchers = kept
}
