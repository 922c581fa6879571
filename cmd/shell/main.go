package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"eventshell/internal/authstate"
	"eventshell/internal/cache"
	"eventshell/internal/credential"
	"eventshell/internal/events"
	"eventshell/internal/platform/config"
	"eventshell/internal/platform/httpserver"
	"eventshell/internal/platform/logger"
	"eventshell/internal/platform/metrics"
	redisclient "eventshell/internal/platform/redis"
	"eventshell/internal/scope"
	"eventshell/internal/shell"
	httptransport "eventshell/internal/transport/http"
	"eventshell/pkg/platform/circuit"
)

// main wires the credential source, controller, cache and shell, then serves
// the HTTP surface until a signal arrives.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("eventshell stopped with error", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	rc, err := redisclient.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		defer func() { _ = rc.Close() }()
		log.Info("redis connected")
	}

	var store cache.Store = cache.NewInMemoryStore()
	if rc != nil {
		store = cache.NewRedisStore(rc.Client, cache.WithRetention(cfg.Cache.Retention))
	}
	layer := cache.NewLayer(store,
		cache.WithStaleAfter(cfg.Cache.StaleAfter),
		cache.WithLogger(log),
	)
	defer layer.Close()

	breaker := circuit.New("events-api",
		circuit.WithFailureThreshold(cfg.APIBreaker.FailureThreshold),
		circuit.WithCooldown(cfg.APIBreaker.Cooldown),
	)
	client := events.NewClient(cfg.APIBaseURL, cfg.APITimeout,
		events.WithBreaker(breaker),
		events.WithClientLogger(log),
	)
	events.RegisterOpenEvents(layer, client)

	var (
		source   credential.Source
		sessions httptransport.SessionService
	)
	switch cfg.Credential.Mode {
	case config.CredentialModeRedis:
		source = credential.NewRedisSource(rc.Client, cfg.ShellName, credential.WithRedisLogger(log))
	default:
		tokens := credential.NewTokenSource(cfg.Credential.JWTSigningKey,
			credential.WithIssuer(cfg.Credential.Issuer),
			credential.WithInitialToken(cfg.Credential.Token),
			credential.WithTokenLogger(log),
		)
		source, sessions = tokens, tokens
	}

	controller := authstate.New(source, authstate.WithLogger(log))
	sh := shell.New(controller, layer,
		shell.WithLogger(log),
		shell.WithEventID(cfg.EventID),
	)
	if err := sh.Mount(ctx); err != nil {
		return fmt.Errorf("mount shell: %w", err)
	}
	defer sh.Unmount()

	checks := map[string]httptransport.HealthChecker{}
	if rc != nil {
		checks["redis"] = rc
	}

	router := httptransport.NewRouter(httptransport.Deps{
		State:      sh,
		Scope:      sh.Scope(),
		OpenEvents: events.NewReader(layer),
		Activities: client,
		Sessions:   sessions,
		Checks:     checks,
		Metrics:    metrics.New(prometheus.DefaultRegisterer),
		Logger:     log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, log)
	})
	g.Go(func() error {
		cancel := sh.Scope().Watch(func(sc scope.Context) {
			log.Debug("scope changed",
				"user_id", sc.UserID,
				"event_id", sc.EventID,
			)
		})
		defer cancel()
		<-gctx.Done()
		return nil
	})
	return g.Wait()
}
