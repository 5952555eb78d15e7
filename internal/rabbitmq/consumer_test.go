package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackRecord struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	records []ackRecord
	done    chan struct{}
}

func newFakeAcknowledger(n int) *fakeAcknowledger {
	return &fakeAcknowledger{done: make(chan struct{}, n)}
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.record(ackRecord{tag: tag, ack: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	f.record(ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.record(ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) record(r ackRecord) {
	f.mu.Lock()
	f.records = append(f.records, r)
	f.mu.Unlock()
	f.done <- struct{}{}
}

func (f *fakeAcknowledger) byTag() map[uint64]ackRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uint64]ackRecord, len(f.records))
	for _, r := range f.records {
		out[r.tag] = r
	}
	return out
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, f.err
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestConsumerMessage_AckNack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acker := newFakeAcknowledger(3)
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery, 3)}

	handler := func(_ context.Context, body []byte) error {
		if string(body) == "bad" {
			return errors.New("cannot handle")
		}
		return nil
	}
	require.NoError(t, ConsumerMessage(ctx, consumer, "q", 2, newNoopLogger(), handler))

	consumer.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: []byte("ok")}
	consumer.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, Body: []byte("bad")}
	consumer.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 3, Body: []byte("bad"), Redelivered: true}

	for i := 0; i < 3; i++ {
		select {
		case <-acker.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for acknowledgements")
		}
	}

	records := acker.byTag()
	assert.True(t, records[1].ack)
	assert.False(t, records[2].ack)
	assert.True(t, records[2].requeue, "first failure is requeued")
	assert.False(t, records[3].ack)
	assert.False(t, records[3].requeue, "redelivered failure is dropped")
}

func TestConsumerMessage_ConsumeError(t *testing.T) {
	consumer := &fakeConsumer{err: errors.New("no queue")}
	err := ConsumerMessage(context.Background(), consumer, "q", 1, newNoopLogger(),
		func(context.Context, []byte) error { return nil })
	assert.ErrorContains(t, err, "no queue")
}
