// @title        Profile Service API
// @version      1.0
// @description  Registration, session login and rate-limited profile access.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/profileapp/profile-service/internal/api"
	"github.com/profileapp/profile-service/internal/api/handler"
	"github.com/profileapp/profile-service/internal/api/middleware"
	"github.com/profileapp/profile-service/internal/core/ports"
	"github.com/profileapp/profile-service/internal/core/service"
	mongostore "github.com/profileapp/profile-service/internal/infrastructure/db/mongo"
	redisstore "github.com/profileapp/profile-service/internal/infrastructure/db/redis"
	"github.com/profileapp/profile-service/internal/infrastructure/queue"
	"github.com/profileapp/profile-service/internal/pkg/config"
	"github.com/profileapp/profile-service/internal/pkg/observability"
	"github.com/profileapp/profile-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "profile-service",
	})

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Env, ""); err != nil {
		log.Warn().Err(err).Msg("sentry disabled")
	}
	defer observability.FlushSentry()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("profile-service stopped with error")
		observability.FlushSentry()
		os.Exit(1)
	}
	log.Info().Msg("profile-service stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.Session.Backend == config.BackendRedis || cfg.RateLimit.Backend == config.BackendRedis {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
	}

	// --- Stores ---
	var sessionStore ports.SessionStore = mongostore.NewSessionStore(db, cfg.StoreTimeout)
	if cfg.Session.Backend == config.BackendRedis {
		sessionStore = redisstore.NewSessionStore(rdb, cfg.StoreTimeout)
	}
	var accessStore ports.AccessStore = mongostore.NewAccessStore(db, cfg.StoreTimeout)
	if cfg.RateLimit.Backend == config.BackendRedis {
		accessStore = redisstore.NewAccessStore(rdb, cfg.Session.TTL, cfg.StoreTimeout)
	}
	log.Info().
		Str("session_backend", cfg.Session.Backend).
		Str("access_backend", cfg.RateLimit.Backend).
		Msg("stores ready")

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	dispatcher := queue.NewDispatcher(
		cfg.AuditWorkers,
		service.NewAuditService(mongostore.NewAuditRepository(db, cfg.StoreTimeout), log),
		log,
	)
	dispatcher.Start(auditCtx)

	// --- Services ---
	sessions := service.NewSessionManager(sessionStore, cfg.Session.TTL, log)
	authService := service.NewAuthService(
		mongostore.NewUserRepository(db, cfg.StoreTimeout),
		sessions,
		service.NewCredentialValidator(),
		service.NewPasswordHasher(cfg.Session.BcryptCost),
		dispatcher,
		log,
	)

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Sessions: sessions,
		Limiter:  service.NewRateLimiter(accessStore, cfg.RateLimit.Interval),
		Gate:     service.NewAuthGate(),
		Health:   handler.NewHealthHandler(db, rdb),
		Session: middleware.SessionConfig{
			Secret: cfg.Session.Secret,
			TTL:    sessions.TTL(),
			Secure: cfg.Session.CookieSecure,
		},
		RateLimitInterval: cfg.RateLimit.Interval,
		Log:               log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("profile-service started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
