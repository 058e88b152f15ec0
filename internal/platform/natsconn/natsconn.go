// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package natsconn owns the NATS connection and JetStream stream provisioning.

Usage:

	conn, js, err := natsconn.Connect(cfg.NatsURL, "emporia-api", logger)
	if err != nil {
	    log.Fatal(err)
	}
	defer conn.Drain()

Streams are provisioned get-or-create: an existing stream is reused as-is,
a missing one is created with the configured subjects and size cap. This
keeps every process (API or worker) able to start first without a
provisioning race.
*/
package natsconn

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Connect dials the NATS server and opens a JetStream context.
//
// The connection retries forever with a capped backoff: the event fabric
// is load-bearing for cache freshness and a process that outlives a NATS
// restart must reattach on its own.
func Connect(url, clientName string, logger *slog.Logger) (*nats.Conn, nats.JetStreamContext, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("natsconn: connect %q: %w", url, err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("natsconn: jetstream context: %w", err)
	}

	return conn, js, nil
}

// EnsureStream looks the stream up and creates it when absent.
func EnsureStream(js nats.JetStreamContext, name string, subjects []string, maxBytes int64, logger *slog.Logger) error {
	_, err := js.StreamInfo(name)
	if err == nil {
		logger.Info("jetstream_stream_found", slog.String("stream", name))
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("natsconn: stream info %q: %w", name, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: subjects,
		MaxBytes: maxBytes,
	})
	if err != nil {
		return fmt.Errorf("natsconn: create stream %q: %w", name, err)
	}

	logger.Info("jetstream_stream_created",
		slog.String("stream", name),
		slog.Any("subjects", subjects),
		slog.Int64("max_bytes", maxBytes),
	)

	return nil
}
