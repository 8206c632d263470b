package envelope

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/businesscontext"
	"github.com/faaskit/fn-observation/tracing"
)

func strptr(s string) *string { return &s }

func queueMessage() QueueMessage {
	return QueueMessage{
		MessageID:   "m-1",
		Destination: "orders-queue",
		Body:        []byte(`{"order":1}`),
		Attributes: map[string]tracing.MessageAttribute{
			"traceparent":   {DataType: "String", StringValue: strptr("00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")},
			"X-Business-ID": {DataType: "String", StringValue: strptr("b-1")},
			"X-Operation":   {DataType: "String", StringValue: strptr("create-order")},
		},
	}
}

func TestHandleQueueMessage(t *testing.T) {
	h := newHarness(t)

	var seen businesscontext.BusinessContext
	err := h.instrument.HandleQueueMessage(context.Background(), queueMessage(),
		func(ctx context.Context, msg QueueMessage) error {
			seen, _ = businesscontext.FromContext(ctx).Current()
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, "b-1", seen.BusinessID())
	assert.Equal(t, "create-order", seen.Operation())

	spans := h.recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "orders-queue process", span.Name())
	assert.Equal(t, trace.SpanKindConsumer, span.SpanKind())
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", span.SpanContext().TraceID().String())
	assert.Equal(t, codes.Ok, span.Status().Code)

	var destination string
	for _, kv := range span.Attributes() {
		if string(kv.Key) == "messaging.destination" {
			destination = kv.Value.AsString()
		}
	}
	assert.Equal(t, "orders-queue", destination)
}

func TestHandleQueueMessageErrorPassthrough(t *testing.T) {
	h := newHarness(t)

	boom := errors.New("boom")
	err := h.instrument.HandleQueueMessage(context.Background(), queueMessage(),
		func(ctx context.Context, msg QueueMessage) error {
			return boom
		})

	require.Same(t, boom, err)

	spans := h.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestHandleStreamRecordLastHeaderGroupWins(t *testing.T) {
	h := newHarness(t)

	rec := StreamRecord{
		RecordID:   "r-1",
		StreamName: "clickstream",
		Partition:  "shard-0001",
		Sequence:   "496",
		Headers: []map[string][]byte{
			{"X-Tenant-ID": []byte("acme")},
			{"X-Tenant-ID": []byte("globex")},
		},
	}

	var seen businesscontext.BusinessContext
	err := h.instrument.HandleStreamRecord(context.Background(), rec,
		func(ctx context.Context, rec StreamRecord) error {
			seen, _ = businesscontext.FromContext(ctx).Current()
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, "globex", seen.TenantID())

	spans := h.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "clickstream process", spans[0].Name())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "shard-0001", attrs["stream.partition"])
	assert.Equal(t, "496", attrs["stream.sequence"])
}
