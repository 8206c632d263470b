package operation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/faaskit/fn-observation/logging"
	"github.com/faaskit/fn-observation/tracing"
)

const tracerName = "fn-observation/operation"

// Event names emitted on operation spans.
const (
	StartedEvent   = "operation.started"
	CompletedEvent = "operation.completed"
	FailedEvent    = "operation.failed"
)

// Config controls how much the executor emits per operation. Event emission
// and duration attributes toggle independently so high-volume production
// paths can drop events while retaining duration histograms.
type Config struct {
	EmitEvents             bool
	EmitDurationAttributes bool
}

// Verbose turns on events and duration attributes.
func Verbose() Config {
	return Config{EmitEvents: true, EmitDurationAttributes: true}
}

// Minimal turns on duration attributes only.
func Minimal() Config {
	return Config{EmitDurationAttributes: true}
}

// An Executor wraps arbitrary units of work in child spans: it starts the
// span under whatever span is active in the caller's context, times the work,
// emits lifecycle events, classifies failures, and always ends the span.
// Business errors pass through unchanged; only observability-internal
// failures are swallowed.
type Executor struct {
	tracer trace.Tracer
	logger *logging.Logger
	cfg    Config
}

// NewExecutor constructs an Executor on the given tracer provider. A nil tp
// falls back to the process-wide provider; a nil logger falls back to the
// global logger.
func NewExecutor(tp trace.TracerProvider, logger *logging.Logger, cfg Config) *Executor {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Executor{
		tracer: tp.Tracer(tracerName),
		logger: logger,
		cfg:    cfg,
	}
}

// executionRecord tracks one unit of work from start to finish so the
// success and failure paths share bookkeeping without exception-style
// control flow.
type executionRecord struct {
	name    string
	started time.Time
	status  string
}

const (
	statusPending = "pending"
	statusSuccess = "success"
	statusFailed  = "failed"
)

// Do runs op inside a child span named name. The span's parent is whatever
// span is active in ctx when Do is entered, so nested Do calls parent
// naturally. The error returned by op is recorded on the span and returned
// unchanged. If op panics, the span is finished as failed and the panic is
// re-raised for the caller's recovery layer.
func (e *Executor) Do(ctx context.Context, name string, attrs []attribute.KeyValue, op func(context.Context) error) (err error) {
	ctx, span := e.start(ctx, name, attrs)
	rec := &executionRecord{name: name, started: time.Now(), status: statusPending}
	defer func() {
		if r := recover(); r != nil {
			e.finish(span, rec, fmt.Errorf("panic: %v", r))
			panic(r)
		}
		e.finish(span, rec, err)
	}()

	return op(ctx)
}

// DoValue runs op inside a child span named name and returns its value. The
// semantics are those of Executor.Do.
func DoValue[T any](e *Executor, ctx context.Context, name string, attrs []attribute.KeyValue, op func(context.Context) (T, error)) (value T, err error) {
	ctx, span := e.start(ctx, name, attrs)
	rec := &executionRecord{name: name, started: time.Now(), status: statusPending}
	defer func() {
		if r := recover(); r != nil {
			e.finish(span, rec, fmt.Errorf("panic: %v", r))
			panic(r)
		}
		e.finish(span, rec, err)
	}()

	return op(ctx)
}

func (e *Executor) start(ctx context.Context, name string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String(tracing.OperationNameAttr, name)),
	}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	ctx, span := e.tracer.Start(ctx, name, opts...)
	if e.cfg.EmitEvents {
		span.AddEvent(StartedEvent)
	}
	return ctx, span
}

func (e *Executor) finish(span trace.Span, rec *executionRecord, err error) {
	defer span.End()
	duration := time.Since(rec.started)
	durationMs := duration.Milliseconds()

	if err == nil {
		rec.status = statusSuccess
		if e.cfg.EmitDurationAttributes {
			span.SetAttributes(
				attribute.Int64(tracing.OperationDurationAttr, durationMs),
				attribute.String(tracing.OperationStatusAttr, rec.status),
			)
		}
		if e.cfg.EmitEvents {
			span.AddEvent(CompletedEvent, trace.WithAttributes(
				attribute.Int64(tracing.OperationDurationAttr, durationMs)))
		}
		span.SetStatus(codes.Ok, fmt.Sprintf("completed in %dms", durationMs))
		return
	}

	rec.status = statusFailed
	errType := fmt.Sprintf("%T", err)
	if e.cfg.EmitDurationAttributes {
		span.SetAttributes(
			attribute.Int64(tracing.OperationDurationAttr, durationMs),
			attribute.String(tracing.OperationStatusAttr, rec.status),
		)
	}
	span.SetAttributes(attribute.String(tracing.ErrorTypeAttr, errType))
	if e.cfg.EmitEvents {
		span.AddEvent(FailedEvent, trace.WithAttributes(
			attribute.String(tracing.ErrorTypeAttr, errType),
			attribute.String("error.message", err.Error()),
		))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if e.logger != nil {
		e.logger.Debug("Operation failed",
			tracing.OperationNameAttr, rec.name,
			tracing.ErrorTypeAttr, errType)
	}
}
