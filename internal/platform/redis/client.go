// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for the volatile key-value store.

It supports two backing modes behind one interface: a single node and a
cluster. Both are exposed as a [redis.UniversalClient], so every caller is
agnostic to the topology.

Core Responsibilities:

  - Volatility: Handles data with TTL (Time-To-Live).
  - Pooling: A bounded, shared connection pool per process.
  - Safety: Connection validation at startup, per-operation timeouts.

The cache package layers entity-aware keys and typed operations on top of
this infrastructure component.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Opinionated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	poolTimeout  = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// Options selects the backing mode and pool bounds.
type Options struct {
	// DSN is the redis:// connection URL.
	DSN string
	// Cluster switches to the clustered client.
	Cluster bool
	// PoolMaxConns bounds the connection pool. Zero keeps the driver default.
	PoolMaxConns int
}

// NewClient parses the DSN and returns a ready-to-use universal client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - opts: Topology and pool configuration.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, opts Options, logger *slog.Logger) (redis.UniversalClient, error) {
	var client redis.UniversalClient

	if opts.Cluster {
		clusterOptions, err := redis.ParseClusterURL(opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("redis: invalid cluster URL: %w", err)
		}
		applyClusterTuning(clusterOptions, opts.PoolMaxConns)
		client = redis.NewClusterClient(clusterOptions)
	} else {
		options, err := redis.ParseURL(opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("redis: invalid URL: %w", err)
		}
		applyTuning(options, opts.PoolMaxConns)
		client = redis.NewClient(options)
	}

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.Bool("cluster", opts.Cluster),
		slog.Int("pool_max_conns", opts.PoolMaxConns),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

func applyTuning(options *redis.Options, poolMaxConns int) {
	if poolMaxConns > 0 {
		options.PoolSize = poolMaxConns
	}
	options.MinIdleConns = 2
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout
	options.PoolTimeout = poolTimeout
}

func applyClusterTuning(options *redis.ClusterOptions, poolMaxConns int) {
	if poolMaxConns > 0 {
		options.PoolSize = poolMaxConns
	}
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout
	options.PoolTimeout = poolTimeout
}
