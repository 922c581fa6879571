// Package credential holds the credential sources that report identity
// changes to the authentication state controller.
//
// Every Source must emit at least once after Subscribe (SignedOut counts) and
// deliver emissions in the order it produces them.
package credential

import (
	"context"

	"eventshell/internal/identity"
)

// Unsubscribe cancels a subscription. Implementations make it safe to call more
// than once and from inside an onChange callback.
type Unsubscribe func()

// Source is an opaque provider of identity-changed events.
type Source interface {
	Subscribe(ctx context.Context, onChange func(identity.Identity)) (Unsubscribe, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, onChange func(identity.Identity)) (Unsubscribe, error)

func (f SourceFunc) Subscribe(ctx context.Context, onChange func(identity.Identity)) (Unsubscribe, error) {
	return f(ctx, onChange)
}
