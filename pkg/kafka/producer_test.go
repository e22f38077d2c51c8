package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewEvent_Fields(t *testing.T) {
	type payload struct {
		WishlistID string `json:"wishlist_id"`
		Quantity   int    `json:"quantity"`
	}

	data := payload{WishlistID: "wl-1", Quantity: 2}
	event, err := NewEvent("wishlist.item_upserted", "wl-1", "wishlist", "wishlist-service", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "wishlist.item_upserted", event.EventType)
	assert.Equal(t, "wl-1", event.AggregateID)
	assert.Equal(t, "wishlist", event.AggregateType)
	assert.Equal(t, "wishlist-service", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got payload
	require.NoError(t, json.Unmarshal(event.Data, &got))
	assert.Equal(t, data, got)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("wishlist.created", "wl-1", "wishlist", "svc", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wishlist.created")
}

func TestEvent_Builders(t *testing.T) {
	event, err := NewEvent("wishlist.shared", "wl-1", "wishlist", "svc", nil)
	require.NoError(t, err)

	assert.Same(t, event, event.WithCorrelationID("corr-1").WithMetadata("customer_id", "cust_1"))
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, map[string]string{"customer_id": "cust_1"}, event.Metadata)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "ecommerce.wishlist.created", Topic("wishlist", "created"))
	assert.Equal(t, "ecommerce.wishlist.item_removed", Topic("wishlist", "item_removed"))
}

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("v1")}}
	c := NewHeaderCarrier(&headers)

	assert.Equal(t, "v1", c.Get("existing"))
	assert.Empty(t, c.Get("missing"))

	c.Set("existing", "v2")
	c.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	assert.Equal(t, "v2", c.Get("existing"))
	assert.ElementsMatch(t, []string{"existing", "traceparent"}, c.Keys())
	assert.Len(t, headers, 2)
}

func TestProducer_Publish(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	w := &fakeWriter{}
	p := newProducer(w, []string{"localhost:9092"}, nil)

	event, err := NewEvent("wishlist.created", "wl-1", "wishlist", "wishlist-service", map[string]string{"customer_id": "cust_1"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	topic := Topic("wishlist", "created")
	before := testutil.ToFloat64(producerMessagesPublished.WithLabelValues(topic))
	require.NoError(t, p.Publish(ctx, topic, event))
	assert.Equal(t, before+1, testutil.ToFloat64(producerMessagesPublished.WithLabelValues(topic)))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, topic, msg.Topic)
	assert.Equal(t, "wl-1", string(msg.Key))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)

	carrier := NewHeaderCarrier(&msg.Headers)
	assert.Equal(t, "wishlist.created", carrier.Get("event_type"))
	assert.Equal(t, "corr-1", carrier.Get("correlation_id"))
	assert.Contains(t, carrier.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, nil, nil)

	event, err := NewEvent("wishlist.deleted", "wl-9", "wishlist", "svc", nil)
	require.NoError(t, err)

	topic := Topic("wishlist", "deleted")
	before := testutil.ToFloat64(producerPublishErrors.WithLabelValues(topic))
	err = p.Publish(context.Background(), topic, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, before+1, testutil.ToFloat64(producerPublishErrors.WithLabelValues(topic)))
}

func TestNewProducer_CloseWithoutBroker(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), nil)
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestProducer_CloseDelegates(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, nil, nil).Close())
	assert.True(t, w.closed)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}
