// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ErrPublishRefused wraps broker-side rejections (stream missing, quota,
// connection loss). After the store of record has committed, callers log
// and swallow it; a later cache miss republishes the state.
var ErrPublishRefused = errors.New("event: publish refused")

// Publisher writes encoded payloads to the durable event log.
//
// # Ordering
//
// The broker guarantees per-subject ordering. Publisher performs a single
// synchronous publish per call and carries no internal buffering, so the
// caller's commit order is the publish order for each subject.
type Publisher struct {
	js         nats.JetStreamContext
	propagator propagation.TextMapPropagator
	log        *slog.Logger
}

// NewPublisher wires a Publisher onto an existing JetStream context.
//
// Trace propagation uses the globally registered otel propagator when one
// is configured, falling back to W3C tracecontext + baggage.
func NewPublisher(js nats.JetStreamContext, log *slog.Logger) *Publisher {
	propagator := otel.GetTextMapPropagator()
	if _, ok := propagator.(propagation.TraceContext); !ok {
		propagator = propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)
	}

	return &Publisher{
		js:         js,
		propagator: propagator,
		log:        log.With(slog.String("component", "event_publisher")),
	}
}

// Publish sends payload under the event's subject.
//
// The W3C trace context of ctx is injected into the message headers so
// downstream consumers join the caller's trace. Extra headers (such as an
// error-tracking transaction set) may be supplied via header; nil is fine.
func (p *Publisher) Publish(ctx context.Context, evt Event, payload []byte, header nats.Header) error {
	if header == nil {
		header = nats.Header{}
	}
	p.propagator.Inject(ctx, headerCarrier(header))

	msg := &nats.Msg{
		Subject: evt.Subject(),
		Data:    payload,
		Header:  header,
	}

	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublishRefused, msg.Subject, err)
	}

	p.log.DebugContext(ctx, "message_published",
		slog.String("subject", msg.Subject),
		slog.Int("bytes", len(payload)),
	)

	return nil
}

// headerCarrier adapts nats.Header to the otel TextMapCarrier interface.
type headerCarrier nats.Header

func (c headerCarrier) Get(key string) string { return nats.Header(c).Get(key) }

func (c headerCarrier) Set(key, value string) { nats.Header(c).Set(key, value) }

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
