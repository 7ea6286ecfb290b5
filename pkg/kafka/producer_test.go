package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/moviereviews/backend/pkg/logger"
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

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func headerValue(headers []kafka.Header, key string) string {
	return NewHeaderCarrier(&headers).Get(key)
}

func TestNewEvent(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-9")
	ev, err := NewEvent(ctx, "review.created", "12", "review", "review-service", map[string]int64{"movieId": 3})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "review.created", ev.EventType)
	assert.Equal(t, "12", ev.AggregateID)
	assert.Equal(t, 1, ev.Version)
	assert.Equal(t, "corr-9", ev.CorrelationID)
	assert.False(t, ev.Timestamp.IsZero())
	assert.JSONEq(t, `{"movieId":3}`, string(ev.Data))
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent(context.Background(), "review.created", "1", "review", "svc", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review.created")
}

func TestEvent_RoundTripAndMetadata(t *testing.T) {
	ev, err := NewEvent(context.Background(), "review.translated", "5", "review", "svc", map[string]string{"language": "fr"})
	require.NoError(t, err)
	ev.WithMetadata("engine", "aws")

	raw, err := ev.Marshal()
	require.NoError(t, err)

	back, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ev.EventID, back.EventID)
	assert.Equal(t, "aws", back.Metadata["engine"])

	var payload map[string]string
	require.NoError(t, back.UnmarshalData(&payload))
	assert.Equal(t, "fr", payload["language"])

	_, err = UnmarshalEvent([]byte("{"))
	assert.Error(t, err)
}

func TestProducer_PublishWritesKeyedMessageWithHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))
	ctx = logger.WithCorrelationID(ctx, "corr-1")

	w := &fakeWriter{}
	p := &Producer{writer: w, logger: logger.Discard()}

	ev, err := NewEvent(ctx, "review.updated", "77", "review", "review-service", map[string]string{})
	require.NoError(t, err)

	topic := Topic("review", "updated")
	before := counterValue(ProducerMessagesPublished.WithLabelValues(topic))
	require.NoError(t, p.Publish(ctx, topic, ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "moviereviews.review.updated", msg.Topic)
	assert.Equal(t, "77", string(msg.Key))
	assert.Equal(t, "review.updated", headerValue(msg.Headers, "event_type"))
	assert.Equal(t, "corr-1", headerValue(msg.Headers, "correlation_id"))
	assert.Contains(t, headerValue(msg.Headers, "traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Equal(t, before+1, counterValue(ProducerMessagesPublished.WithLabelValues(topic)))
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &Producer{writer: w, logger: logger.Discard()}

	ev, err := NewEvent(context.Background(), "review.deleted", "1", "review", "svc", nil)
	require.NoError(t, err)

	topic := Topic("review", "deleted")
	before := counterValue(ProducerPublishErrors.WithLabelValues(topic))

	err = p.Publish(context.Background(), topic, ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
	assert.Equal(t, before+1, counterValue(ProducerPublishErrors.WithLabelValues(topic)))
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, (&Producer{writer: w}).Close())
	assert.True(t, w.closed)
}

func TestNewProducer_DoesNotConnect(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), logger.Discard())
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers")
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "moviereviews.review.created", Topic("review", "created"))
	assert.Equal(t, "moviereviews.translation.created", Topic("translation", "created"))
}

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("v1")}}
	c := NewHeaderCarrier(&headers)

	assert.Equal(t, "v1", c.Get("existing"))
	assert.Empty(t, c.Get("missing"))

	c.Set("existing", "v2")
	c.Set("new", "x")
	assert.Equal(t, "v2", c.Get("existing"))
	assert.ElementsMatch(t, []string{"existing", "new"}, c.Keys())
	assert.Len(t, headers, 2)
}
