package envelope

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/businesscontext"
	"github.com/faaskit/fn-observation/logging"
	"github.com/faaskit/fn-observation/metrics"
	"github.com/faaskit/fn-observation/tracing"
)

const tracerName = "fn-observation/envelope"

// DefaultNearTimeoutThreshold is the remaining-budget threshold below which
// an invocation counts as near timeout.
const DefaultNearTimeoutThreshold = time.Second

// An Instrument wires the shared observability flow around function
// handlers: carrier normalization, trace-context extraction, root span
// creation, business-context setup with diagnostic-context mirroring,
// enrichment, outcome metrics, and unconditional teardown. One Instrument
// serves all three trigger adapters; the adapters differ only in how they
// produce a carrier and which transport attributes they stamp.
type Instrument struct {
	logger        *logging.Logger
	tracer        trace.Tracer
	propagator    *tracing.Propagator
	enricher      *tracing.Enricher
	recorder      *metrics.Recorder
	platform      Platform
	nearTimeout   time.Duration
	slaThresholds []time.Duration
}

// An Option configures an Instrument.
type Option func(*Instrument)

// WithTracerProvider sets the tracer provider. The default is the
// process-wide provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(in *Instrument) {
		if tp != nil {
			in.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRecorder sets the metrics recorder. Without one, no metrics are
// recorded.
func WithRecorder(r *metrics.Recorder) Option {
	return func(in *Instrument) { in.recorder = r }
}

// WithPlatform sets the runtime collaborator used for invocation-metadata
// enrichment and budget metrics.
func WithPlatform(p Platform) Option {
	return func(in *Instrument) { in.platform = p }
}

// WithNearTimeoutThreshold overrides the near-timeout threshold.
func WithNearTimeoutThreshold(d time.Duration) Option {
	return func(in *Instrument) {
		if d > 0 {
			in.nearTimeout = d
		}
	}
}

// WithSLAThresholds overrides the SLA thresholds observed per invocation.
func WithSLAThresholds(thresholds ...time.Duration) Option {
	return func(in *Instrument) { in.slaThresholds = thresholds }
}

// New constructs an Instrument. If logger is nil the global logger is used.
func New(logger *logging.Logger, opts ...Option) *Instrument {
	if logger == nil {
		logger = logging.Global()
	}
	in := &Instrument{
		logger:      logger,
		tracer:      otel.GetTracerProvider().Tracer(tracerName),
		propagator:  tracing.NewPropagator(logger),
		enricher:    tracing.NewEnricher(logger),
		nearTimeout: DefaultNearTimeoutThreshold,
		slaThresholds: []time.Duration{
			200 * time.Millisecond,
			500 * time.Millisecond,
			time.Second,
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// invocation is the per-invocation state shared by the trigger adapters.
type invocation struct {
	ctx    context.Context
	span   trace.Span
	store  *businesscontext.Store
	logger *logging.Logger
	start  time.Time
}

// begin runs the shared inbound flow: extract the parent trace context from
// carrier, start the root span, and bind a fresh business-context store and
// request logger into the context. Callers must defer inv.end().
func (in *Instrument) begin(ctx context.Context, carrier tracing.Carrier, spanName string, kind trace.SpanKind) *invocation {
	ctx = in.propagator.Extract(ctx, carrier)
	ctx, span := in.tracer.Start(ctx, spanName, trace.WithSpanKind(kind))

	diag := logging.NewDiagnosticContext()
	store := businesscontext.NewStore(diag)
	ctx = businesscontext.NewContext(ctx, store)
	reqLogger := in.logger.WithDiagnostics(diag)
	ctx = logging.NewContext(ctx, reqLogger)

	store.SetFromHeaders(ctx, carrier)
	if bc, ok := store.Current(); !ok || bc.CorrelationID() == "" {
		store.UpdateCorrelationID(ctx, uuid.NewString())
	}

	in.observePlatform(ctx, span, reqLogger)

	return &invocation{
		ctx:    ctx,
		span:   span,
		store:  store,
		logger: reqLogger,
		start:  time.Now(),
	}
}

// end tears the invocation down. It runs deferred on every path, including
// panics in the wrapped handler: the platform pools workers across
// invocations, so a store left uncleared would leak this request's context
// into the next one's logs.
func (inv *invocation) end() {
	inv.span.End()
	inv.store.Clear()
}

// observePlatform stamps invocation metadata and records the budget metrics.
func (in *Instrument) observePlatform(ctx context.Context, span trace.Span, logger *logging.Logger) {
	if in.platform == nil {
		return
	}
	meta := invocationMetadata(in.platform)
	in.enricher.Invocation(span, meta)
	if in.recorder != nil {
		in.recorder.SetRemainingBudget(meta.FunctionName, meta.RemainingTime)
		if meta.ColdStart {
			in.recorder.RecordColdStart(meta.FunctionName)
		}
	}
	if meta.RemainingTime > 0 && meta.RemainingTime < in.nearTimeout {
		if in.recorder != nil {
			in.recorder.RecordNearTimeout(meta.FunctionName)
		}
		logger.Warn("Remaining time budget below near-timeout threshold",
			"remainingMS", meta.RemainingTime.Milliseconds(),
			"thresholdMS", in.nearTimeout.Milliseconds())
	}
}

// record observes outcome metrics for one finished invocation.
func (in *Instrument) record(trigger, outcome, statusClass string, d time.Duration) {
	if in.recorder == nil {
		return
	}
	in.recorder.RecordInvocation(trigger, outcome, statusClass, d)
	in.recorder.RecordSLA(d, in.slaThresholds...)
}
