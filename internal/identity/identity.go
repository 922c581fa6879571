// Package identity models the authentication state reported by a credential
// source.
//
// An Identity is a tagged union: exactly one Kind is active and ID is only
// meaningful for Anonymous (ephemeral id) and Authenticated (stable id). The zero
// value is Unresolved, which is what a controller holds before the first
// emission arrives.
package identity

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which variant of Identity is active.
type Kind string

// Supported identity kinds.
const (
	KindUnresolved    Kind = ""
	KindSignedOut     Kind = "signed_out"
	KindAnonymous     Kind = "anonymous"
	KindAuthenticated Kind = "authenticated"
)

var validKinds = map[Kind]bool{
	KindUnresolved:    true,
	KindSignedOut:     true,
	KindAnonymous:     true,
	KindAuthenticated: true,
}

// String returns the wire name of the kind. Unresolved renders as "unresolved".
func (k Kind) String() string {
	if k == KindUnresolved {
		return "unresolved"
	}
	return string(k)
}

// ParseKind converts a wire name back into a Kind.
func ParseKind(s string) (Kind, error) {
	if s == "unresolved" {
		return KindUnresolved, nil
	}
	k := Kind(s)
	if s == "" || !validKinds[k] {
		return "", fmt.Errorf("unknown identity kind: %q", s)
	}
	return k, nil
}

// Identity is the current authentication state snapshot.
type Identity struct {
	Kind Kind
	ID   string
}

// Unresolved is the state before a credential source has reported anything.
func Unresolved() Identity { return Identity{} }

// SignedOut is the authoritative "no identity" state.
func SignedOut() Identity { return Identity{Kind: KindSignedOut} }

// Anonymous wraps the disposable id assigned to an unregistered user.
func Anonymous(ephemeralID string) Identity {
	return Identity{Kind: KindAnonymous, ID: ephemeralID}
}

// Authenticated wraps the durable id of a registered user.
func Authenticated(stableID string) Identity {
	return Identity{Kind: KindAuthenticated, ID: stableID}
}

func (i Identity) IsUnresolved() bool    { return i.Kind == KindUnresolved }
func (i Identity) IsSignedOut() bool     { return i.Kind == KindSignedOut }
func (i Identity) IsAnonymous() bool     { return i.Kind == KindAnonymous }
func (i Identity) IsAuthenticated() bool { return i.Kind == KindAuthenticated }

// EphemeralID returns the anonymous id and whether the identity is anonymous.
func (i Identity) EphemeralID() (string, bool) {
	if i.Kind != KindAnonymous {
		return "", false
	}
	return i.ID, true
}

// StableID returns the registered user id and whether the identity is authenticated.
func (i Identity) StableID() (string, bool) {
	if i.Kind != KindAuthenticated {
		return "", false
	}
	return i.ID, true
}

// Validate reports whether the identity is a well-formed variant: only
// Anonymous and Authenticated carry an id, and they must carry one.
func (i Identity) Validate() error {
	if !validKinds[i.Kind] {
		return fmt.Errorf("unknown identity kind: %q", string(i.Kind))
	}
	switch i.Kind {
	case KindAnonymous, KindAuthenticated:
		if i.ID == "" {
			return fmt.Errorf("%s identity requires an id", i.Kind)
		}
	default:
		if i.ID != "" {
			return fmt.Errorf("%s identity must not carry an id", i.Kind)
		}
	}
	return nil
}

func (i Identity) String() string {
	if i.ID == "" {
		return i.Kind.String()
	}
	return i.Kind.String() + "(" + i.ID + ")"
}

type wireIdentity struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// MarshalJSON encodes the identity as {"kind":"...","id":"..."}.
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireIdentity{Kind: i.Kind.String(), ID: i.ID})
}

// UnmarshalJSON decodes and validates the wire form.
func (i *Identity) UnmarshalJSON(data []byte) error {
	var w wireIdentity
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := ParseKind(w.Kind)
	if err != nil {
		return err
	}
	decoded := Identity{Kind: kind, ID: w.ID}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*i = decoded
	return nil
}
