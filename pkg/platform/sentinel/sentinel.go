package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Sources, stores and the cache layer
// return these (optionally wrapped) so callers can branch with errors.Is:
// - ErrNotFound: no value stored under the key
// - ErrInvalidState: component used outside its lifecycle (e.g. Start after Close)
// - ErrUnavailable: credential source or backing store temporarily unavailable
// - ErrInvalidToken: credential could not be verified
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidToken = errors.New("invalid token")
)
