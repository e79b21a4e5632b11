// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

// Command api is the entry point for the Noveria HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire token service and domain handlers.
//  7. Warm the catalog cache (non-fatal; retried lazily on request).
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tranhoangviet/noveria/internal/api"
	"github.com/tranhoangviet/noveria/internal/catalog"
	"github.com/tranhoangviet/noveria/internal/platform/config"
	"github.com/tranhoangviet/noveria/internal/platform/constants"
	"github.com/tranhoangviet/noveria/internal/platform/migration"
	pgstore "github.com/tranhoangviet/noveria/internal/platform/postgres"
	redisstore "github.com/tranhoangviet/noveria/internal/platform/redis"
	"github.com/tranhoangviet/noveria/internal/platform/sec"
	"github.com/tranhoangviet/noveria/internal/users/auth"
	"github.com/tranhoangviet/noveria/internal/users/library"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "noveria"))
	slog.SetDefault(log)

	log.Info("[Noveria] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "noveria"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("library_backend", cfg.LibraryBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	// Catalog: the in-memory collection behind every browse request.
	source := catalog.NewHTTPSource(cfg.NovelsSourceURL, nil)
	novelCatalog := catalog.NewCatalog(source, log)
	recommender := catalog.NewRecommender()

	// Library: one store contract, backing chosen by configuration.
	var libraryStore library.Store
	switch cfg.LibraryBackend {
	case config.LibraryBackendRedis:
		libraryStore = library.NewRedisStore(rdb)
	default:
		libraryStore = library.NewPostgresStore(pool)
	}
	libraryService := library.NewService(libraryStore)
	libraryHandler := library.NewHandler(libraryService)

	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	authService := auth.NewService(userRepository, sessionRepository, jwtSvc)
	authHandler := auth.NewHandler(authService, libraryService)

	catalogHandler := catalog.NewHandler(novelCatalog, recommender, libraryService)

	// ── 8. Catalog Warm-up ────────────────────────────────────────────────
	// Best effort: a failed fetch leaves the cache empty and the first
	// request retries. The server still starts so health probes respond.
	if _, err := novelCatalog.Load(startupCtx); err != nil {
		log.Warn("catalog warm-up failed, will retry on first request", slog.Any("error", err))
	}

	// ── 9. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckCatalog: func() error {
			if !novelCatalog.Loaded() {
				return errors.New("catalog not loaded")
			}
			return nil
		},
	}, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Catalog:   catalogHandler,
		Library:   libraryHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()
	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
