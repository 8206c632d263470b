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

// A StreamHandlerFunc processes one stream record.
type StreamHandlerFunc func(ctx context.Context, rec StreamRecord) error

// HandleStreamRecord runs fn for one stream record inside the full
// observability flow. The parent trace context and business context come
// from the record's decoded headers (UTF-8, merged flat, last write wins);
// fn's error is recorded on the span and returned unchanged.
func (in *Instrument) HandleStreamRecord(ctx context.Context, rec StreamRecord, fn StreamHandlerFunc) error {
	carrier := tracing.CarrierFromRecordHeaders(rec.Headers)
	spanName := rec.StreamName + " process"

	inv := in.begin(ctx, carrier, spanName, trace.SpanKindConsumer)
	defer inv.end()

	in.enricher.StreamRecord(inv.span, &tracing.StreamRecordInfo{
		StreamName: rec.StreamName,
		Partition:  rec.Partition,
		Sequence:   rec.Sequence,
		RecordID:   rec.RecordID,
		Carrier:    carrier,
	})

	err := fn(inv.ctx, rec)
	duration := time.Since(inv.start)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailed
		inv.span.RecordError(err)
		inv.span.SetStatus(codes.Error, err.Error())
	} else {
		inv.span.SetStatus(codes.Ok, "")
	}
	in.record("stream", outcome, "unknown", duration)

	if err != nil {
		inv.logger.Error(err, "Failed to process record",
			"stream", rec.StreamName,
			"partition", rec.Partition,
			"recordId", rec.RecordID,
			"durationMS", fmt.Sprintf("%0.3f", duration.Seconds()*1000))
	} else {
		inv.logger.Info("Processed record",
			"stream", rec.StreamName,
			"partition", rec.Partition,
			"recordId", rec.RecordID,
			"durationMS", fmt.Sprintf("%0.3f", duration.Seconds()*1000))
	}
	return err
}
