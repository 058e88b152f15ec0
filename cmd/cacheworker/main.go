// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command cacheworker is the entry point for the cache-update worker: the
// single writer for every categories cache key.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis.
//  4. Connect to NATS and provision the consumed streams.
//  5. Run the durable pull consumers until SIGTERM/SIGINT.
//
// The worker holds no database connection: the canonical store is only
// ever observed through the events it consumes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/emporia/internal/platform/cache"
	"github.com/taibuivan/emporia/internal/platform/config"
	"github.com/taibuivan/emporia/internal/platform/natsconn"
	redisstore "github.com/taibuivan/emporia/internal/platform/redis"
	"github.com/taibuivan/emporia/internal/worker"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "emporia-cacheworker"))
	slog.SetDefault(log)

	log.Info("[Emporia] worker_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "emporia-cacheworker"))
		slog.SetDefault(log)
	}

	sources, err := cfg.StreamSources()
	must(log, err, "resolve stream sources")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
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

	// ── 4. NATS / JetStream ───────────────────────────────────────────────
	natsConn, js, err := natsconn.Connect(cfg.NatsURL, "emporia-cacheworker", log)
	must(log, err, "connect to nats")
	defer func() {
		log.Info("draining nats connection")
		if derr := natsConn.Drain(); derr != nil {
			log.Error("nats drain error", slog.Any("error", derr))
		}
	}()

	// Provision every consumed stream so the worker can start before its
	// publishers.
	for _, source := range sources {
		must(log, natsconn.EnsureStream(js, source.Stream, source.Subjects, source.MaxBytes, log), "provision stream "+source.Stream)
	}

	// ── 5. Consume ────────────────────────────────────────────────────────
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	w := worker.New(js, cache.NewClient(rdb), sources, worker.Config{
		EntryTTL:   cfg.CacheEntryTTL,
		ListingTTL: cfg.CacheListingTTL,
	}, log)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("worker stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
