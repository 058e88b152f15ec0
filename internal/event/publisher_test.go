// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/emporia/internal/event"
)

// fakeJetStream records published messages. The embedded interface keeps
// the fake small; only PublishMsg is implemented.
type fakeJetStream struct {
	nats.JetStreamContext

	published []*nats.Msg
	err       error
}

func (f *fakeJetStream) PublishMsg(m *nats.Msg, _ ...nats.PubOpt) (*nats.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.published = append(f.published, m)
	return &nats.PubAck{Stream: "EMPORIA", Sequence: uint64(len(f.published))}, nil
}

func TestPublisher_Publish(t *testing.T) {
	js := &fakeJetStream{}
	publisher := event.NewPublisher(js, slog.Default())

	err := publisher.Publish(context.Background(), event.SetSingle(event.Categories), []byte(`{"id":"x"}`), nil)
	require.NoError(t, err)

	require.Len(t, js.published, 1)
	msg := js.published[0]
	assert.Equal(t, "categories.update.index.set.single", msg.Subject)
	assert.Equal(t, []byte(`{"id":"x"}`), msg.Data)
	assert.NotNil(t, msg.Header)
}

func TestPublisher_PreservesCallerHeaders(t *testing.T) {
	js := &fakeJetStream{}
	publisher := event.NewPublisher(js, slog.Default())

	header := nats.Header{}
	header.Set("X-Error-Tracking", "txn-42")

	err := publisher.Publish(context.Background(), event.DeleteSingle(event.Categories), []byte(`{"id":"y"}`), header)
	require.NoError(t, err)

	require.Len(t, js.published, 1)
	assert.Equal(t, "txn-42", js.published[0].Header.Get("X-Error-Tracking"))
}

func TestPublisher_PublishRefused(t *testing.T) {
	js := &fakeJetStream{err: errors.New("no responders available")}
	publisher := event.NewPublisher(js, slog.Default())

	err := publisher.Publish(context.Background(), event.UpdateBatch(event.Categories), []byte(`{}`), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrPublishRefused)
}
