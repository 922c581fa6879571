package events

import "time"

// Event is an entry of the open-events listing.
type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	OpenedAt time.Time `json:"opened_at"`
	Status   string    `json:"status"`
}

// Activity is an event-scoped activity as returned by the platform API.
type Activity struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id,omitempty"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
}
