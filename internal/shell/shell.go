// Package shell is the application shell: the hosting scope that owns the
// authentication state controller, the scope binding, and the once-per-mount
// freshness binding.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"eventshell/internal/authstate"
	"eventshell/internal/freshness"
	"eventshell/internal/scope"
	"eventshell/pkg/platform/sentinel"
)

// Shell composes the synchronization core. Mount and Unmount bracket one
// lifetime; a Shell is not reusable after Unmount.
type Shell struct {
	controller *authstate.Controller
	cache      freshness.Invalidator
	logger     *slog.Logger
	eventID    string
	binding    *scope.Binding

	mu        sync.Mutex
	freshness *freshness.Binding
	mounted   bool
	unmounted bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the shell logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventID sets the initial event selector.
func WithEventID(eventID string) Option {
	return func(s *Shell) { s.eventID = eventID }
}

// New builds a shell over an explicitly owned controller and the shared cache.
func New(controller *authstate.Controller, cache freshness.Invalidator, opts ...Option) *Shell {
	s := &Shell{
		controller: controller,
		cache:      cache,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	// Bound before the controller starts so the first emission is seen.
	s.binding = scope.NewBinding(controller, s.eventID)
	return s
}

// Mount starts the controller and forces the open-events revalidation.
// Mounting an already mounted shell re-runs nothing; mounting after Unmount
// returns ErrInvalidState.
func (s *Shell) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return fmt.Errorf("mount after unmount: %w", sentinel.ErrInvalidState)
	}
	if s.mounted {
		fb := s.freshness
		s.mu.Unlock()
		// A repeated mount call is a re-render of the same mount.
		fb.Mount()
		return nil
	}
	s.mounted = true
	s.freshness = freshness.NewBinding(s.cache, freshness.WithLogger(s.logger))
	fb := s.freshness
	s.mu.Unlock()

	if err := s.controller.Start(ctx); err != nil {
		return err
	}
	fb.Mount()
	s.logger.InfoContext(ctx, "shell mounted", "event_id", s.eventID)
	return nil
}

// Unmount closes the controller subscription and detaches the binding. It is
// safe to call before Mount and more than once.
func (s *Shell) Unmount() {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return
	}
	s.unmounted = true
	s.mu.Unlock()

	s.controller.Close()
	s.binding.Close()
	s.logger.Info("shell unmounted")
}

// Render re-runs the mount effects of the current mount, which are no-ops after
// the first run, and returns the derived scoping context.
func (s *Shell) Render() scope.Context {
	s.mu.Lock()
	fb := s.freshness
	s.mu.Unlock()
	if fb != nil {
		fb.Mount()
	}
	return s.binding.Current()
}

// Scope returns the scope binding.
func (s *Shell) Scope() *scope.Binding {
	return s.binding
}

// State returns the controller snapshot.
func (s *Shell) State() authstate.Snapshot {
	return s.controller.Snapshot()
}
