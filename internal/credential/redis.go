package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"eventshell/internal/identity"
	"eventshell/pkg/platform/sentinel"
)

const (
	// Redis key prefix for the current identity of a shell.
	identityKeyPrefix = "eventshell:identity:"
	// Redis pub/sub channel prefix for identity changes of a shell.
	identityChannelPrefix = "eventshell:identity:changes:"
)

// RedisSource follows the identity of one shell through Redis: the current
// value lives under a key and every change is published on a channel. This lets
// a credential provider running in another process drive the shell.
type RedisSource struct {
	client  *redis.Client
	key     string
	channel string
	logger  *slog.Logger
}

// RedisSourceOption configures a RedisSource.
type RedisSourceOption func(*RedisSource)

// WithRedisLogger sets the logger used for undecodable messages.
func WithRedisLogger(logger *slog.Logger) RedisSourceOption {
	return func(s *RedisSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRedisSource builds a source for the shell named name.
func NewRedisSource(client *redis.Client, name string, opts ...RedisSourceOption) *RedisSource {
	s := &RedisSource{
		client:  client,
		key:     identityKeyPrefix + name,
		channel: identityChannelPrefix + name,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe joins the change channel, emits the stored identity (SignedOut when
// none is stored), then relays published changes until unsubscribed.
func (s *RedisSource) Subscribe(ctx context.Context, onChange func(identity.Identity)) (Unsubscribe, error) {
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}

	// Join the channel before reading the key so no change published in between is lost.
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("%w: subscribe %s: %w", sentinel.ErrUnavailable, s.channel, err)
	}

	current, err := s.Current(ctx)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	onChange(current)

	messages := pubsub.Channel()
	go func() {
		for msg := range messages {
			id, err := decodeIdentity([]byte(msg.Payload))
			if err != nil {
				s.logger.Warn("dropping identity change",
					"channel", msg.Channel,
					"error", err,
				)
				continue
			}
			onChange(id)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { _ = pubsub.Close() })
	}, nil
}

// Current reads the stored identity. A missing key means SignedOut.
func (s *RedisSource) Current(ctx context.Context) (identity.Identity, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return identity.SignedOut(), nil
	}
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: read %s: %w", sentinel.ErrUnavailable, s.key, err)
	}
	id, err := decodeIdentity(raw)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("read %s: %w", s.key, err)
	}
	return id, nil
}

// decodeIdentity parses a stored or published identity. Unresolved is not a
// state a provider can report, so it is rejected like a malformed payload.
func decodeIdentity(raw []byte) (identity.Identity, error) {
	var id identity.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return identity.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if id.IsUnresolved() {
		return identity.Identity{}, fmt.Errorf("unresolved identity: %w", sentinel.ErrInvalidState)
	}
	return id, nil
}

// Publish stores id as current and notifies subscribers in one transaction.
func (s *RedisSource) Publish(ctx context.Context, id identity.Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if id.IsUnresolved() {
		return fmt.Errorf("cannot publish unresolved identity: %w", sentinel.ErrInvalidState)
	}
	payload, err := json.Marshal(id)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key, payload, 0)
		pipe.Publish(ctx, s.channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: publish identity: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

var _ Source = (*RedisSource)(nil)
