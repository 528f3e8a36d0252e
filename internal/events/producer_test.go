package events

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_PublishWrapsCloudEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "checkout.events", zap.NewNop())

	err := p.Publish(context.Background(), OrderCompleted, "ORD-1", OrderCompletedEvent{
		OrderID:       "ORD-1",
		TransactionID: "CAP-9",
		Amount:        190.4,
		Currency:      "EUR",
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "ORD-1", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, OrderCompleted, string(msg.Headers[0].Value))

	ce, err := ParseCloudEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.Equal(t, Source, ce.Source)
	assert.Equal(t, OrderCompleted, ce.Type)
	assert.NotEmpty(t, ce.ID)
	assert.Equal(t, ce.ID, string(msg.Headers[1].Value))

	var evt OrderCompletedEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, "CAP-9", evt.TransactionID)
	assert.InDelta(t, 190.4, evt.Amount, 0.001)
}

func TestProducer_PublishError(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("broker unavailable")}, "checkout.events", zap.NewNop())
	err := p.Publish(context.Background(), EstimateRequested, "k", EstimateRequestedEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
	assert.Contains(t, err.Error(), EstimateRequested)
}

func TestProducer_PublishUnmarshalablePayload(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "t", zap.NewNop())
	assert.Error(t, p.Publish(context.Background(), OrderCompleted, "k", make(chan int)))
	assert.Empty(t, w.messages)
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, "t", zap.NewNop()).Close())
	assert.True(t, w.closed)
}

func TestParseCloudEvent(t *testing.T) {
	_, err := ParseCloudEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"1"}`))
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NewNoopPublisher(zap.NewNop()).Publish(context.Background(), OrderCompleted, "k", nil))
}
