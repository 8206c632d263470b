package tracing

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecordedSpan(t *testing.T) (trace.Span, func() tracetest.SpanStub) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer(t.Name()).Start(context.Background(), "test-span")
	return span, func() tracetest.SpanStub {
		span.End()
		ended := recorder.Ended()
		require.Len(t, ended, 1)
		return tracetest.SpanStubFromReadOnlySpan(ended[0])
	}
}

func attrMap(stub tracetest.SpanStub) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(stub.Attributes))
	for _, kv := range stub.Attributes {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestEnrichHTTPRequest(t *testing.T) {
	span, ended := newRecordedSpan(t)
	e := NewEnricher(nil)

	r := httptest.NewRequest("GET", "/users/123/orders/9f1c2b3a-58cc-4372-a567-0e02b2c3d479", nil)
	r.Header.Set("User-Agent", "curl/8.0")
	r.Header.Set("X-Correlation-ID", "corr-9")
	r.Header.Set("X-User-ID", "u-7")

	e.HTTPRequest(span, r)

	attrs := attrMap(ended())
	assert.Equal(t, "GET", attrs[HTTPMethodAttr].AsString())
	assert.Equal(t, "/users/{id}/orders/{uuid}", attrs[HTTPRouteAttr].AsString())
	assert.Equal(t, "curl/8.0", attrs[HTTPUserAgentAttr].AsString())
	assert.Equal(t, "corr-9", attrs[CorrelationIDAttr].AsString())
	assert.Equal(t, "u-7", attrs[UserIDAttr].AsString())
}

func TestEnrichHTTPResponseStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantStatus codes.Code
		wantTag    bool
	}{
		{"success", 204, codes.Ok, false},
		{"redirect", 302, codes.Ok, false},
		{"client error keeps OK", 404, codes.Ok, true},
		{"server error", 503, codes.Error, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ended := newRecordedSpan(t)
			e := NewEnricher(nil)

			e.HTTPResponse(span, tt.statusCode, 128)

			stub := ended()
			attrs := attrMap(stub)
			assert.Equal(t, tt.wantStatus, stub.Status.Code)
			assert.Equal(t, int64(tt.statusCode), attrs[HTTPStatusCodeAttr].AsInt64())
			assert.Equal(t, int64(128), attrs[HTTPResponseSizeAttr].AsInt64())
			if tt.wantTag {
				assert.Equal(t, "client_error", attrs[ErrorTypeAttr].AsString())
			} else {
				assert.NotContains(t, attrs, attribute.Key(ErrorTypeAttr))
			}
		})
	}
}

func TestEnrichQueueMessage(t *testing.T) {
	span, ended := newRecordedSpan(t)
	e := NewEnricher(nil)

	e.QueueMessage(span, &QueueMessageInfo{
		Destination: "orders-queue",
		MessageID:   "m-123",
		Carrier:     Carrier{"x-correlation-id": "corr-1"},
	})

	attrs := attrMap(ended())
	assert.Equal(t, "orders-queue", attrs[MessagingDestinationAttr].AsString())
	assert.Equal(t, "m-123", attrs[MessagingMessageIDAttr].AsString())
	assert.Equal(t, "corr-1", attrs[CorrelationIDAttr].AsString())
}

func TestEnrichStreamRecord(t *testing.T) {
	span, ended := newRecordedSpan(t)
	e := NewEnricher(nil)

	e.StreamRecord(span, &StreamRecordInfo{
		StreamName: "clickstream",
		Partition:  "shard-0001",
		Sequence:   "49590338271490256608559692538361571095921575989136588898",
		RecordID:   "rec-1",
	})

	attrs := attrMap(ended())
	assert.Equal(t, "clickstream", attrs[StreamNameAttr].AsString())
	assert.Equal(t, "shard-0001", attrs[StreamPartitionAttr].AsString())
	assert.NotEmpty(t, attrs[StreamSequenceAttr].AsString())
	assert.Equal(t, "rec-1", attrs[MessagingMessageIDAttr].AsString())
}

func TestEnrichInvocation(t *testing.T) {
	span, ended := newRecordedSpan(t)
	e := NewEnricher(nil)

	e.Invocation(span, &InvocationMetadata{
		InvocationID:    "req-1",
		FunctionName:    "checkout",
		FunctionVersion: "7",
		MemoryLimitMB:   512,
		RemainingTime:   2500 * time.Millisecond,
		ColdStart:       true,
	})

	attrs := attrMap(ended())
	assert.Equal(t, "req-1", attrs[FaaSInvocationIDAttr].AsString())
	assert.Equal(t, "checkout", attrs[FaaSNameAttr].AsString())
	assert.Equal(t, int64(512), attrs[FaaSMemoryLimitAttr].AsInt64())
	assert.Equal(t, int64(2500), attrs[FaaSRemainingTimeAttr].AsInt64())
	assert.True(t, attrs[FaaSColdStartAttr].AsBool())
}

func TestEnrichDefensiveNilArguments(t *testing.T) {
	e := NewEnricher(nil)

	// none of these may panic
	e.HTTPRequest(nil, httptest.NewRequest("GET", "/", nil))
	e.HTTPResponse(nil, 200, 0)
	e.QueueMessage(nil, &QueueMessageInfo{})
	e.StreamRecord(nil, nil)
	e.Invocation(nil, nil)

	span, ended := newRecordedSpan(t)
	e.HTTPRequest(span, nil)
	e.QueueMessage(span, nil)
	e.Invocation(span, nil)
	assert.Empty(t, ended().Attributes)
}
