package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/logging"
)

// W3C trace-context header names.
const (
	TraceparentHeader = "traceparent"
	TracestateHeader  = "tracestate"
)

// A Propagator extracts and injects W3C trace context over Carriers.
// Propagation is best effort: a missing or malformed header set degrades to
// the ambient context and never fails the caller's request.
type Propagator struct {
	text   propagation.TraceContext
	logger *logging.Logger
}

// NewPropagator constructs a Propagator. If logger is nil the global logger
// is used at emit time.
func NewPropagator(logger *logging.Logger) *Propagator {
	return &Propagator{logger: logger}
}

// Extract returns a context carrying the trace context found in carrier, or
// ctx unchanged when the carrier has no parsable traceparent. Callers never
// need to nil-check the result.
func (p *Propagator) Extract(ctx context.Context, carrier Carrier) context.Context {
	if carrier == nil {
		return ctx
	}
	extracted := p.text.Extract(ctx, carrier)
	if carrier.Get(TraceparentHeader) != "" && !trace.SpanContextFromContext(extracted).IsValid() {
		if log := p.log(ctx); log != nil {
			log.Debug("Discarded unparsable traceparent header",
				TraceparentHeader, carrier.Get(TraceparentHeader))
		}
	}
	return extracted
}

// Inject writes the trace context from ctx into carrier. Only non-empty
// keys and values are written. A nil carrier is a no-op.
func (p *Propagator) Inject(ctx context.Context, carrier Carrier) {
	if carrier == nil {
		return
	}
	p.text.Inject(ctx, carrier)
}

// Fields returns the header names the propagator reads and writes.
func (p *Propagator) Fields() []string {
	return p.text.Fields()
}

func (p *Propagator) log(ctx context.Context) *logging.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logging.From(ctx)
}

// HasValidContext reports whether ctx carries a valid span context.
func HasValidContext(ctx context.Context) bool {
	return trace.SpanContextFromContext(ctx).IsValid()
}

// TraceIDFrom returns the hex trace id of the span context in ctx, or the
// empty string when there is none.
func TraceIDFrom(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanIDFrom returns the hex span id of the span context in ctx, or the
// empty string when there is none.
func SpanIDFrom(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasSpanID() {
		return ""
	}
	return sc.SpanID().String()
}

// IsSampled reports the sampling decision of the span context in ctx.
func IsSampled(ctx context.Context) bool {
	return trace.SpanContextFromContext(ctx).IsSampled()
}
