package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Credential modes select which credential source drives the shell.
const (
	CredentialModeToken = "token"
	CredentialModeRedis = "redis"
)

// Server captures the shell process configuration.
type Server struct {
	Addr       string        `env:"EVENTSHELL_ADDR"         envDefault:":8090"`
	APIBaseURL string        `env:"EVENTSHELL_API_BASE_URL" envDefault:"http://localhost:8080"`
	APITimeout time.Duration `env:"EVENTSHELL_API_TIMEOUT"  envDefault:"10s"`
	APIBreaker BreakerConfig
	LogLevel   string        `env:"EVENTSHELL_LOG_LEVEL"    envDefault:"info"`
	EventID    string        `env:"EVENTSHELL_EVENT_ID"`
	ShellName  string        `env:"EVENTSHELL_NAME"         envDefault:"default"`

	Credential CredentialConfig
	Cache      CacheConfig
	Redis      RedisConfig
}

// CredentialConfig selects and configures the credential source.
type CredentialConfig struct {
	Mode          string `env:"EVENTSHELL_CREDENTIAL_MODE" envDefault:"token"`
	Token         string `env:"EVENTSHELL_TOKEN"`
	JWTSigningKey string `env:"EVENTSHELL_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer        string `env:"EVENTSHELL_JWT_ISSUER"      envDefault:"eventshell"`
}

// BreakerConfig tunes the circuit breaker in front of the platform API.
type BreakerConfig struct {
	FailureThreshold int           `env:"EVENTSHELL_API_BREAKER_FAILURES" envDefault:"5"`
	Cooldown         time.Duration `env:"EVENTSHELL_API_BREAKER_COOLDOWN" envDefault:"10s"`
}

// CacheConfig tunes the shared cache layer.
type CacheConfig struct {
	StaleAfter time.Duration `env:"EVENTSHELL_CACHE_STALE_AFTER" envDefault:"30s"`
	Retention  time.Duration `env:"EVENTSHELL_CACHE_RETENTION"   envDefault:"1h"`
}

// RedisConfig configures the optional Redis connection. An empty URL disables
// Redis; the cache then stays in memory and the redis credential mode is
// unavailable.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Credential.Mode = strings.ToLower(strings.TrimSpace(cfg.Credential.Mode))
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the shell cannot run with.
func (s Server) Validate() error {
	switch s.Credential.Mode {
	case CredentialModeToken:
	case CredentialModeRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("credential mode %q requires REDIS_URL", s.Credential.Mode)
		}
	default:
		return fmt.Errorf("unknown credential mode %q", s.Credential.Mode)
	}
	if s.Credential.JWTSigningKey == "" {
		return fmt.Errorf("EVENTSHELL_JWT_SIGNING_KEY must not be empty")
	}
	return nil
}
