// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, NATS) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Emporia categories service.
type Config struct {

	// Server settings
	Port        uint16 `env:"PORT"             envDefault:"1304"`
	Environment string `env:"APP_ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"            envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL         string `env:"DATABASE_URL,required"`
	DatabasePoolMaxSize int32  `env:"DATABASE_POOL_MAX_SIZE" envDefault:"10"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisDSN          string        `env:"REDIS_DSN,required"`
	RedisIsCluster    bool          `env:"REDIS_IS_CLUSTER"           envDefault:"false"`
	RedisPoolMaxConns int           `env:"REDIS_POOL_MAX_CONNECTIONS" envDefault:"100"`
	CacheEntryTTL     time.Duration `env:"CACHE_ENTRY_TTL"            envDefault:"20s"`
	CacheListingTTL   time.Duration `env:"CACHE_LISTING_TTL"          envDefault:"30s"`

	// Event fabric (NATS JetStream)
	NatsURL           string `env:"NATS_URL,required"`
	JetStreamName     string `env:"JETSTREAM_NAME"      envDefault:"emporia"`
	JetStreamSubjects string `env:"JETSTREAM_SUBJECTS"  envDefault:"categories.>"`
	JetStreamMaxBytes int64  `env:"JETSTREAM_MAX_BYTES" envDefault:"1073741824"`

	// EventPublishingServices lists, comma-separated, the upstream services
	// whose streams the cache worker consumes.
	EventPublishingServices string `env:"EVENT_PUBLISHING_SERVICES" envDefault:"categories"`

	// QueryLimit caps the page size a single connection read may request.
	QueryLimit int32 `env:"QUERY_LIMIT" envDefault:"100"`
}

// StreamSource describes one upstream stream the cache worker consumes,
// resolved from its per-service environment block.
type StreamSource struct {
	// Service is the upstream service name as listed in EVENT_PUBLISHING_SERVICES.
	Service string
	// Stream is the JetStream stream name.
	Stream string
	// Subjects are the stream's bound subjects.
	Subjects []string
	// MaxBytes caps the stream's size when this worker provisions it.
	MaxBytes int64
	// Durable is the durable consumer name for this worker.
	Durable string
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// JetStreamSubjectList splits the comma-separated JETSTREAM_SUBJECTS value
// into individual bind subjects.
func (c *Config) JetStreamSubjectList() []string {
	return splitSubjects(c.JetStreamSubjects)
}

// StreamSources resolves the per-service stream blocks named by
// EVENT_PUBLISHING_SERVICES. For a service "categories" it reads
// CATEGORIES_STREAM_NAME, CATEGORIES_STREAM_SUBJECTS (comma-separated) and
// CATEGORIES_STREAM_MAX_BYTES, falling back to the service name, its
// wildcard subject and the JETSTREAM_MAX_BYTES default respectively. The
// durable consumer is named CONSUMER_<SERVICE>, service uppercased.
func (c *Config) StreamSources() ([]StreamSource, error) {
	services := strings.Split(c.EventPublishingServices, ",")

	sources := make([]StreamSource, 0, len(services))
	for _, service := range services {
		service = strings.TrimSpace(service)
		if service == "" {
			continue
		}

		prefix := strings.ToUpper(service)

		source := StreamSource{
			Service:  service,
			Stream:   service,
			Subjects: []string{service + ".>"},
			MaxBytes: c.JetStreamMaxBytes,
			Durable:  "CONSUMER_" + prefix,
		}

		if name := os.Getenv(prefix + "_STREAM_NAME"); name != "" {
			source.Stream = name
		}
		if subjects := os.Getenv(prefix + "_STREAM_SUBJECTS"); subjects != "" {
			source.Subjects = splitSubjects(subjects)
		}
		if raw := os.Getenv(prefix + "_STREAM_MAX_BYTES"); raw != "" {
			var maxBytes int64
			if _, err := fmt.Sscanf(raw, "%d", &maxBytes); err != nil {
				return nil, fmt.Errorf("config: invalid %s_STREAM_MAX_BYTES %q: %w", prefix, raw, err)
			}
			source.MaxBytes = maxBytes
		}

		sources = append(sources, source)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("config: EVENT_PUBLISHING_SERVICES resolved to no services")
	}

	return sources, nil
}

func splitSubjects(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
