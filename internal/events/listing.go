package events

import (
	"context"

	"eventshell/internal/cache"
	"eventshell/internal/freshness"
)

// OpenEventsKey names the cache slot of the open-events listing.
const OpenEventsKey = freshness.OpenEventsKey

// Registrar is the part of the cache layer that accepts fetchers.
type Registrar interface {
	Register(key string, fetch cache.Fetcher)
}

// RegisterOpenEvents wires the open-events listing into the cache.
func RegisterOpenEvents(r Registrar, client *Client) {
	r.Register(OpenEventsKey, client.ListOpenEventsRaw)
}

// Listing is the cached view of the open-events listing.
type Listing struct {
	Events []Event `json:"events"`
	Stale  bool    `json:"stale"`
	Cached bool    `json:"cached"`
}

// Reader reads the open-events listing through the shared cache.
type Reader struct {
	cache cache.Cache
}

func NewReader(c cache.Cache) *Reader {
	return &Reader{cache: c}
}

// OpenEvents returns whatever the cache holds. An absent entry yields an empty,
// uncached listing while the cache fetches in the background.
func (r *Reader) OpenEvents(ctx context.Context) (Listing, error) {
	entry, ok := r.cache.Read(ctx, OpenEventsKey)
	if !ok {
		return Listing{Events: []Event{}}, nil
	}
	events, err := DecodeEvents(entry.Value)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Events: events, Stale: entry.Stale, Cached: true}, nil
}
