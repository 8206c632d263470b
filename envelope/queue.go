package envelope

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/metrics"
	"github.com/faaskit/fn-observation/tracing"
)

// A QueueHandlerFunc processes one queue message.
type QueueHandlerFunc func(ctx context.Context, msg QueueMessage) error

// HandleQueueMessage runs fn for one queue message inside the full
// observability flow: the parent trace context and business context come
// from the message's string-valued attributes, the root span is a consumer
// span named after the destination, and fn's error is recorded on the span
// and returned unchanged.
func (in *Instrument) HandleQueueMessage(ctx context.Context, msg QueueMessage, fn QueueHandlerFunc) error {
	carrier := tracing.CarrierFromMessageAttributes(msg.Attributes)
	spanName := msg.Destination + " process"

	inv := in.begin(ctx, carrier, spanName, trace.SpanKindConsumer)
	defer inv.end()

	in.enricher.QueueMessage(inv.span, &tracing.QueueMessageInfo{
		Destination: msg.Destination,
		MessageID:   msg.MessageID,
		Carrier:     carrier,
	})

	err := fn(inv.ctx, msg)
	duration := time.Since(inv.start)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailed
		inv.span.RecordError(err)
		inv.span.SetStatus(codes.Error, err.Error())
	} else {
		inv.span.SetStatus(codes.Ok, "")
	}
	in.record("queue", outcome, "unknown", duration)

	if err != nil {
		inv.logger.Error(err, "Failed to process message",
			"destination", msg.Destination,
			"messageId", msg.MessageID,
			"durationMS", fmt.Sprintf("%0.3f", duration.Seconds()*1000))
	} else {
		inv.logger.Info("Processed message",
			"destination", msg.Destination,
			"messageId", msg.MessageID,
			"durationMS", fmt.Sprintf("%0.3f", duration.Seconds()*1000))
	}
	return err
}
