// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Emporia categories API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Connect to NATS and provision the JetStream stream.
//  6. Run database migrations (idempotent).
//  7. Wire the category service, GraphQL schema and gRPC services.
//  8. Start the shared HTTP/gRPC server with graceful shutdown.
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

	"google.golang.org/grpc"

	"github.com/taibuivan/emporia/internal/api"
	"github.com/taibuivan/emporia/internal/core/category"
	"github.com/taibuivan/emporia/internal/event"
	"github.com/taibuivan/emporia/internal/graphql"
	"github.com/taibuivan/emporia/internal/platform/cache"
	"github.com/taibuivan/emporia/internal/platform/config"
	"github.com/taibuivan/emporia/internal/platform/constants"
	"github.com/taibuivan/emporia/internal/platform/migration"
	"github.com/taibuivan/emporia/internal/platform/natsconn"
	pgstore "github.com/taibuivan/emporia/internal/platform/postgres"
	redisstore "github.com/taibuivan/emporia/internal/platform/redis"
	"github.com/taibuivan/emporia/internal/rpc"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "emporia"))
	slog.SetDefault(log)

	log.Info("[Emporia] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "emporia"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("port", int(cfg.Port)),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.DatabasePoolMaxSize, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, redisstore.Options{
		DSN:          cfg.RedisDSN,
		Cluster:      cfg.RedisIsCluster,
		PoolMaxConns: cfg.RedisPoolMaxConns,
	}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. NATS / JetStream ───────────────────────────────────────────────
	natsConn, js, err := natsconn.Connect(cfg.NatsURL, constants.AppName, log)
	must(log, err, "connect to nats")
	defer func() {
		log.Info("draining nats connection")
		if derr := natsConn.Drain(); derr != nil {
			log.Error("nats drain error", slog.Any("error", derr))
		}
	}()

	must(log, natsconn.EnsureStream(js, cfg.JetStreamName, cfg.JetStreamSubjectList(), cfg.JetStreamMaxBytes, log), "provision jetstream stream")

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	cacheClient := cache.NewClient(rdb)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return cacheClient.Ping(context.Background())
		},
		CheckEvents: func() error {
			if !natsConn.IsConnected() {
				return errors.New("nats: disconnected")
			}
			return nil
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	repository := category.NewPostgresRepository(pool)
	publisher := event.NewPublisher(js, log)
	service := category.NewService(repository, cacheClient, publisher, category.Config{
		QueryLimit: cfg.QueryLimit,
		EntryTTL:   cfg.CacheEntryTTL,
		ListingTTL: cfg.CacheListingTTL,
	}, log)

	schema, err := graphql.New(service)
	must(log, err, "build graphql schema")

	grpcServer := grpc.NewServer()
	rpc.Register(grpcServer, service)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		GraphQL:   api.NewGraphQLHandler(schema, cfg),
	}

	server := api.NewServer(appCtx, cfg, log, grpcServer, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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

	appCancel()
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
