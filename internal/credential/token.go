package credential

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"eventshell/internal/identity"
	"eventshell/pkg/platform/sentinel"
)

// Claims are the JWT claims carried by a platform session token. The subject is
// the user id; Anonymous marks it as an ephemeral id.
type Claims struct {
	Anonymous bool `json:"anon,omitempty"`
	jwt.RegisteredClaims
}

// TokenSource derives identities from signed session tokens. It always has a
// current identity: the one restored from WithInitialToken, or SignedOut.
type TokenSource struct {
	*Broadcaster

	signingKey []byte
	issuer     string
	logger     *slog.Logger
	newID      func() string
	now        func() time.Time
}

// TokenOption configures a TokenSource.
type TokenOption func(*tokenConfig)

type tokenConfig struct {
	issuer       string
	initialToken string
	logger       *slog.Logger
	newID        func() string
	now          func() time.Time
}

// WithIssuer sets the expected and issued "iss" claim.
func WithIssuer(issuer string) TokenOption {
	return func(c *tokenConfig) { c.issuer = issuer }
}

// WithInitialToken restores the identity from a previously persisted token.
// An invalid or expired token resolves to SignedOut.
func WithInitialToken(token string) TokenOption {
	return func(c *tokenConfig) { c.initialToken = token }
}

// WithTokenLogger sets the logger used for restore failures.
func WithTokenLogger(logger *slog.Logger) TokenOption {
	return func(c *tokenConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides how ephemeral anonymous ids are minted.
func WithIDGenerator(newID func() string) TokenOption {
	return func(c *tokenConfig) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// WithClock overrides the time source used for token validation and issuing.
func WithClock(now func() time.Time) TokenOption {
	return func(c *tokenConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenSource builds a TokenSource and emits its initial identity.
func NewTokenSource(signingKey string, opts ...TokenOption) *TokenSource {
	cfg := tokenConfig{
		issuer: "eventshell",
		logger: slog.Default(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	s := &TokenSource{
		Broadcaster: NewBroadcaster(),
		signingKey:  []byte(signingKey),
		issuer:      cfg.issuer,
		logger:      cfg.logger,
		newID:       cfg.newID,
		now:         cfg.now,
	}

	initial := identity.SignedOut()
	if cfg.initialToken != "" {
		restored, err := s.Verify(cfg.initialToken)
		if err != nil {
			s.logger.Warn("discarding persisted session token", "error", err)
		} else {
			initial = restored
		}
	}
	s.Emit(initial)
	return s
}

// SignIn verifies token and makes its identity current.
func (s *TokenSource) SignIn(token string) (identity.Identity, error) {
	id, err := s.Verify(token)
	if err != nil {
		return identity.Identity{}, err
	}
	s.Emit(id)
	return id, nil
}

// SignInAnonymously mints a fresh ephemeral id and makes it current.
func (s *TokenSource) SignInAnonymously() identity.Identity {
	id := identity.Anonymous(s.newID())
	s.Emit(id)
	return id
}

// SignOut makes SignedOut current.
func (s *TokenSource) SignOut() {
	s.Emit(identity.SignedOut())
}

// Verify parses a token and maps its claims to an identity without emitting.
func (s *TokenSource) Verify(token string) (identity.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Identity{}, fmt.Errorf("token has expired: %w", sentinel.ErrInvalidToken)
		}
		return identity.Identity{}, fmt.Errorf("parse token: %w", errors.Join(sentinel.ErrInvalidToken, err))
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return identity.Identity{}, fmt.Errorf("invalid token claims: %w", sentinel.ErrInvalidToken)
	}
	if claims.Subject == "" {
		return identity.Identity{}, fmt.Errorf("token has no subject: %w", sentinel.ErrInvalidToken)
	}
	if claims.Anonymous {
		return identity.Anonymous(claims.Subject), nil
	}
	return identity.Authenticated(claims.Subject), nil
}

// Issue signs a token for id, valid for ttl. Only Anonymous and Authenticated
// identities can be issued.
func (s *TokenSource) Issue(id identity.Identity, ttl time.Duration) (string, error) {
	if !id.IsAnonymous() && !id.IsAuthenticated() {
		return "", fmt.Errorf("cannot issue token for %s: %w", id.Kind, sentinel.ErrInvalidState)
	}
	if err := id.Validate(); err != nil {
		return "", err
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Anonymous: id.IsAnonymous(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

var _ Source = (*TokenSource)(nil)

