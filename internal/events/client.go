// Package events holds the typed request wrappers over the platform API that
// consume the derived scoping context.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventshell/internal/scope"
	"eventshell/pkg/platform/circuit"
	"eventshell/pkg/platform/sentinel"
)

const (
	openEventsPath = "/v1/events/open"
	activitiesPath = "/v1/events/%s/activities"

	// Header carrying the anonymous scoping id.
	headerAnonymousUser = "X-Anonymous-User-Id"

	maxErrorBody = 4 << 10
)

// Client calls the platform REST API.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	breaker *circuit.Breaker
	logger  *slog.Logger
}

type ClientOption func(*Client)

// WithClientLogger sets the logger used for breaker transitions.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBreaker fails calls fast with ErrUnavailable while b is open.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(c *Client) {
		c.breaker = b
	}
}

// NewClient builds a client for baseURL with a request timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ListOpenEventsRaw fetches the open-events listing as raw JSON. It is what the
// cache stores.
func (c *Client) ListOpenEventsRaw(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.BaseURL+openEventsPath, scope.Context{})
}

// ListOpenEvents fetches and decodes the open-events listing.
func (c *Client) ListOpenEvents(ctx context.Context) ([]Event, error) {
	raw, err := c.ListOpenEventsRaw(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeEvents(raw)
}

// ListActivities fetches the activities of the scoped event. The anonymous user
// id, when present, is forwarded so the API can filter to that user.
func (c *Client) ListActivities(ctx context.Context, sc scope.Context) ([]Activity, error) {
	if !sc.HasEventID() {
		return nil, fmt.Errorf("list activities: no event selected: %w", sentinel.ErrInvalidState)
	}
	raw, err := c.get(ctx, c.BaseURL+fmt.Sprintf(activitiesPath, url.PathEscape(sc.EventID)), sc)
	if err != nil {
		return nil, err
	}
	var activities []Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return activities, nil
}

func (c *Client) get(ctx context.Context, target string, sc scope.Context) ([]byte, error) {
	if c.HTTP == nil {
		return nil, errors.New("events client http is nil")
	}
	if c.breaker != nil && !c.breaker.Allow() {
		return nil, fmt.Errorf("%w: GET %s: circuit %s open", sentinel.ErrUnavailable, target, c.breaker.Name())
	}
	body, err := c.do(ctx, target, sc)
	if c.breaker != nil {
		c.recordOutcome(ctx, err)
	}
	return body, err
}

// recordOutcome feeds the breaker. Only an unreachable upstream counts as a
// failure; 4xx answers prove it is up.
func (c *Client) recordOutcome(ctx context.Context, err error) {
	if errors.Is(err, sentinel.ErrUnavailable) {
		if change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "platform API circuit opened",
				"breaker", c.breaker.Name(),
				"error", err,
			)
		}
		return
	}
	if change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "platform API circuit closed", "breaker", c.breaker.Name())
	}
}

func (c *Client) do(ctx context.Context, target string, sc scope.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if sc.HasUserID() {
		req.Header.Set(headerAnonymousUser, sc.UserID)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", sentinel.ErrUnavailable, target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("GET %s: %w", target, sentinel.ErrNotFound)
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: GET %s: status %d: %s", sentinel.ErrUnavailable, target, resp.StatusCode, strings.TrimSpace(string(body)))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("GET %s: status %d: %s", target, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

// DecodeEvents parses an open-events listing payload.
func DecodeEvents(raw []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode open events: %w", err)
	}
	return events, nil
}
