// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// The derived scoping context travels through here so nested consumers (HTTP
// handlers, data access clients) read the same {userId, eventId} pair the shell
// derived for the request.
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithScope(ctx, binding.Current())
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in consumers (read values):
//
//	sc := requestcontext.Scope(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"

	"eventshell/internal/scope"
)

// Context key types (unexported for encapsulation).
type (
	scopeKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyScope       = scopeKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Scope retrieves the derived scoping context.
// Returns the zero value (no user, no event) if not set.
func Scope(ctx context.Context) scope.Context {
	if sc, ok := ctx.Value(ContextKeyScope).(scope.Context); ok {
		return sc
	}
	return scope.Context{}
}

// WithScope injects a derived scoping context.
func WithScope(ctx context.Context, sc scope.Context) context.Context {
	return context.WithValue(ctx, ContextKeyScope, sc)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
