// Package scope derives the user and event keys that downstream data fetching
// is scoped by.
//
// Only anonymous identities contribute a user key here: their ephemeral id is
// used directly. Authenticated identities leave the user key unset on purpose;
// consumers that need a registered user's domain id resolve it from the stable
// id through their own path.
package scope

import (
	"encoding/json"

	"eventshell/internal/identity"
)

// Context is the derived {userId, eventId} pair. Empty strings mean absent.
// Values are immutable; recompute instead of mutating.
type Context struct {
	UserID  string
	EventID string
}

// Derive projects an identity and the caller-selected event id into a Context.
// It never fails: absent inputs yield absent fields.
func Derive(id identity.Identity, eventID string) Context {
	ctx := Context{EventID: eventID}
	if ephemeral, ok := id.EphemeralID(); ok {
		ctx.UserID = ephemeral
	}
	return ctx
}

func (c Context) HasUserID() bool  { return c.UserID != "" }
func (c Context) HasEventID() bool { return c.EventID != "" }

type wireContext struct {
	UserID  *string `json:"user_id"`
	EventID *string `json:"event_id"`
}

// MarshalJSON renders absent fields as null.
func (c Context) MarshalJSON() ([]byte, error) {
	var w wireContext
	if c.HasUserID() {
		w.UserID = &c.UserID
	}
	if c.HasEventID() {
		w.EventID = &c.EventID
	}
	return json.Marshal(w)
}
