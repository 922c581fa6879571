package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventshell/internal/authstate"
	"eventshell/internal/events"
	"eventshell/internal/platform/metrics"
	"eventshell/internal/platform/middleware"
	"eventshell/internal/scope"
)

// StateReader exposes the authentication state snapshot.
type StateReader interface {
	State() authstate.Snapshot
}

// ScopeSelector reads the derived scope and moves the event selector.
type ScopeSelector interface {
	Current() scope.Context
	SetEventID(eventID string)
}

// OpenEventsReader serves the cached open-events listing.
type OpenEventsReader interface {
	OpenEvents(ctx context.Context) (events.Listing, error)
}

// ActivityLister fetches activities for a scoping context.
type ActivityLister interface {
	ListActivities(ctx context.Context, sc scope.Context) ([]events.Activity, error)
}

// Deps are the collaborators of the HTTP surface. Sessions may be nil when the
// credential source is not driven from this process. Checks back /healthz.
type Deps struct {
	State      StateReader
	Scope      ScopeSelector
	OpenEvents OpenEventsReader
	Activities ActivityLister
	Sessions   SessionService
	Checks     map[string]HealthChecker
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// NewRouter wires all endpoints. Every request carries the scoping context
// derived when it arrived.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	health := &HealthHandler{checks: d.Checks}
	r.Get("/healthz", health.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Scope(d.Scope.Current))

		state := &StateHandler{state: d.State, scope: d.Scope}
		r.Get("/state", state.handleGetState)
		r.Put("/scope/event", state.handleSetEvent)
		r.Delete("/scope/event", state.handleClearEvent)

		ev := &EventsHandler{openEvents: d.OpenEvents, activities: d.Activities, logger: logger}
		r.Get("/events/open", ev.handleOpenEvents)
		r.Get("/activities", ev.handleActivities)

		if d.Sessions != nil {
			NewSessionHandler(d.Sessions).Register(r)
		}
	})
	return r
}
