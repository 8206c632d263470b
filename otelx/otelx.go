// Package otelx constructs and registers the OpenTelemetry tracer provider
// used by instrumented functions. When no exporter endpoint is configured the
// package installs a no-op provider, so local development and tests run with
// zero overhead and no code changes.
package otelx

import (
	"context"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/faaskit/fn-observation/logging"
)

// Config holds the tracing pipeline settings.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `env:"OBS_SERVICE_NAME" envDefault:"function"`
	// ExporterEndpoint is the OTLP/HTTP endpoint URL. Tracing is disabled
	// when empty.
	ExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// SamplingRate is the trace sampling ratio in [0,1].
	SamplingRate float64 `env:"OBS_TRACE_SAMPLING_RATE" envDefault:"1.0"`
}

// Enabled reports whether an exporter endpoint is configured.
func (c Config) Enabled() bool {
	return c.ExporterEndpoint != ""
}

// ConfigFromEnv reads the Config from the environment.
func ConfigFromEnv() (Config, error) {
	return env.ParseAs[Config]()
}

// Setup creates and globally registers a tracer provider for cfg. The
// returned shutdown function flushes pending spans; call it before the
// worker exits. When tracing is disabled the provider is a no-op and
// shutdown does nothing.
func Setup(ctx context.Context, cfg Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Global()
	}

	if !cfg.Enabled() {
		if logger != nil {
			logger.Info("Tracing disabled, no exporter endpoint configured")
		}
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.ExporterEndpoint),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
		resource.WithFromEnv(),
		resource.WithProcess(),
	)
	if err != nil {
		// Resource detection failing is not worth failing startup over.
		if logger != nil {
			logger.Warn("Resource detection failed", logging.ErrorKey, err.Error())
		}
		res = resource.Empty()
	}

	var sampler sdktrace.Sampler
	if cfg.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)

	if logger != nil {
		logger.Info("Tracing enabled",
			"endpoint", cfg.ExporterEndpoint,
			"service", cfg.ServiceName,
			"samplingRate", cfg.SamplingRate)
	}
	return tp.Shutdown, nil
}
