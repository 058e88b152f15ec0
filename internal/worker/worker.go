// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package worker runs the cache-update consumer: the single writer for every
cache key.

It pulls durable JetStream subscriptions over the streams of each
configured publishing service, decodes the event payload and applies it to
Redis. Acknowledgement discipline:

  - Ack only after the cache write succeeded.
  - Term on any failure, decode or cache write alike. A poison pill can
    never decode on redelivery, and a lost cache write is repaired by the
    next TTL-driven refill event, so redelivery only adds storms.
*/
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/emporia/internal/core/category"
	"github.com/taibuivan/emporia/internal/event"
	"github.com/taibuivan/emporia/internal/platform/cache"
	"github.com/taibuivan/emporia/internal/platform/config"
)

// listingIndexKey holds the expiry-scored index of listing cache keys,
// used to sweep keys whose TTL has lapsed out of the index itself.
const listingIndexKey = "categories:all:index"

const fetchBatch = 16

// ErrPoison marks a message that must never be redelivered.
var ErrPoison = errors.New("worker: poison message")

// Worker consumes cache-update events and applies them to Redis.
type Worker struct {
	js      nats.JetStreamContext
	cache   *cache.Client
	sources []config.StreamSource
	cfg     Config
	logger  *slog.Logger
}

// Config carries the cache TTLs the worker writes with.
type Config struct {
	EntryTTL   time.Duration
	ListingTTL time.Duration
}

func New(js nats.JetStreamContext, cacheClient *cache.Client, sources []config.StreamSource, cfg Config, logger *slog.Logger) *Worker {
	return &Worker{
		js:      js,
		cache:   cacheClient,
		sources: sources,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run opens one durable pull subscription per configured source and pumps
// them until the context is canceled. It blocks; cancellation drains the
// in-flight batch before returning.
func (w *Worker) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, source := range w.sources {
		group.Go(func() error {
			return w.consume(ctx, source)
		})
	}

	return group.Wait()
}

func (w *Worker) consume(ctx context.Context, source config.StreamSource) error {
	// One durable subscription filtered to the stream's full subject
	// space; the per-event dispatch happens on the parsed subject.
	sub, err := w.js.PullSubscribe("", source.Durable, nats.BindStream(source.Stream))
	if err != nil {
		return fmt.Errorf("worker: subscribe stream %q durable %q: %w", source.Stream, source.Durable, err)
	}
	defer sub.Unsubscribe()

	w.logger.Info("consumer_started",
		slog.String("stream", source.Stream),
		slog.String("durable", source.Durable),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("consumer_stopped", slog.String("stream", source.Stream))
			return nil
		default:
		}

		msgs, err := sub.Fetch(fetchBatch, nats.Context(ctx))
		if err != nil {
			// Empty fetches time out; context cancellation surfaces on
			// the next loop iteration.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			w.logger.Error("fetch_failed", slog.String("stream", source.Stream), slog.Any("error", err))
			continue
		}

		for _, msg := range msgs {
			w.process(ctx, msg)
		}
	}
}

// process applies one message and settles its acknowledgement. Failures
// are terminated, never requeued: entries self-heal through TTL refills.
func (w *Worker) process(ctx context.Context, msg *nats.Msg) {
	err := w.Apply(ctx, msg.Subject, msg.Data)
	if err == nil {
		if err := msg.Ack(); err != nil {
			w.logger.Warn("ack_failed", slog.String("subject", msg.Subject), slog.Any("error", err))
		}
		return
	}

	if errors.Is(err, ErrPoison) {
		w.logger.Warn("message_terminated", slog.String("subject", msg.Subject), slog.Any("error", err))
	} else {
		w.logger.Error("message_dropped", slog.String("subject", msg.Subject), slog.Any("error", err))
	}
	msg.Term()
}

// Apply dispatches one event payload on its parsed subject. Errors
// wrapping ErrPoison mark messages outside the vocabulary; every returned
// error terminates the message.
func (w *Worker) Apply(ctx context.Context, subject string, payload []byte) error {
	evt, err := event.ParseSubject(subject)
	if err != nil {
		return fmt.Errorf("%w: unrecognized subject %q: %v", ErrPoison, subject, err)
	}

	if evt.Entity != event.Categories {
		// Streams of other services may share the fabric; their events
		// carry no categories cache work.
		return fmt.Errorf("%w: no cache mapping for entity %q", ErrPoison, evt.Entity)
	}

	switch evt.Type {
	case event.TypeSetSingle, event.TypeUpdateSingle:
		return w.applySingle(ctx, payload)
	case event.TypeUpdateBatch:
		return w.applyBatch(ctx, payload)
	case event.TypeDeleteSingle:
		return w.applyDelete(ctx, payload)
	default:
		return fmt.Errorf("%w: no cache mapping for subject %q", ErrPoison, subject)
	}
}

func (w *Worker) applySingle(ctx context.Context, payload []byte) error {
	c := category.Category{}
	if err := json.Unmarshal(payload, &c); err != nil || c.ID == "" {
		return fmt.Errorf("%w: bad category payload: %v", ErrPoison, err)
	}

	key := cache.CategoryKey(c.ID)
	if err := w.cache.PSetEx(ctx, key, payload, w.cfg.EntryTTL); err != nil {
		return fmt.Errorf("worker: set %q: %w", key, err)
	}

	w.logger.Debug("cache_entry_set", slog.String("key", key))
	return nil
}

// applyBatch caches a connection page under the key re-derived from the
// embedded pagination inputs, and registers the key in the expiry-scored
// listing index.
func (w *Worker) applyBatch(ctx context.Context, payload []byte) error {
	request := category.ConnectionCacheRequest{}
	if err := json.Unmarshal(payload, &request); err != nil {
		return fmt.Errorf("%w: bad connection payload: %v", ErrPoison, err)
	}
	if err := request.Pagination.Validate(); err != nil {
		return fmt.Errorf("%w: bad pagination in connection payload: %v", ErrPoison, err)
	}

	key := request.CacheKey()
	if err := w.cache.PSetEx(ctx, key, payload, w.cfg.ListingTTL); err != nil {
		return fmt.Errorf("worker: set %q: %w", key, err)
	}

	expiry := float64(time.Now().Add(w.cfg.ListingTTL).UnixMilli())
	if err := w.cache.ZAdd(ctx, listingIndexKey, expiry, key); err != nil {
		return fmt.Errorf("worker: index %q: %w", key, err)
	}
	w.sweepIndex(ctx)

	w.logger.Debug("cache_listing_set", slog.String("key", key))
	return nil
}

func (w *Worker) applyDelete(ctx context.Context, payload []byte) error {
	c := category.Category{}
	if err := json.Unmarshal(payload, &c); err != nil || c.ID == "" {
		return fmt.Errorf("%w: bad delete payload: %v", ErrPoison, err)
	}

	key := cache.CategoryKey(c.ID)
	if err := w.cache.Del(ctx, key); err != nil {
		return fmt.Errorf("worker: del %q: %w", key, err)
	}

	w.logger.Debug("cache_entry_deleted", slog.String("key", key))
	return nil
}

// sweepIndex drops index members whose listing entries have expired.
// Best effort: a failed sweep only delays the cleanup.
func (w *Worker) sweepIndex(ctx context.Context) {
	cutoff := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := w.cache.ZRemRangeByScore(ctx, listingIndexKey, "-inf", cutoff); err != nil {
		w.logger.Warn("listing_index_sweep_failed", slog.Any("error", err))
	}
}
