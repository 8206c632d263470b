// Package config loads the library's tunables from the environment. It is
// used by the bundled examples and is a convenient starting point for
// services that want a single place to read observability settings.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config collects every environment-driven setting of the library.
type Config struct {
	// ServiceName names the instrumented function in logs and traces.
	ServiceName string `env:"OBS_SERVICE_NAME" envDefault:"function"`

	// ExporterEndpoint is the OTLP/HTTP trace endpoint. Empty disables export.
	ExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// SamplingRate is the trace sampling ratio in [0,1].
	SamplingRate float64 `env:"OBS_TRACE_SAMPLING_RATE" envDefault:"1.0"`

	// MetricsNamespace prefixes every prometheus metric name.
	MetricsNamespace string `env:"OBS_METRICS_NAMESPACE" envDefault:"faas"`

	// OperationPreset selects the sub-operation detail level,
	// "verbose" or "minimal".
	OperationPreset string `env:"OBS_OPERATION_PRESET" envDefault:"verbose"`

	// NearTimeoutThreshold is the remaining-budget floor below which an
	// invocation counts as nearly timed out.
	NearTimeoutThreshold time.Duration `env:"OBS_NEAR_TIMEOUT_THRESHOLD" envDefault:"1s"`

	// SLAThresholds are the latency targets checked after every invocation.
	SLAThresholds []time.Duration `env:"OBS_SLA_THRESHOLDS" envDefault:"200ms,500ms,1s" envSeparator:","`
}

// Load reads the Config from the environment and validates it.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling rate %v outside [0,1]", c.SamplingRate)
	}
	switch c.OperationPreset {
	case "verbose", "minimal":
	default:
		return fmt.Errorf("unknown operation preset %q", c.OperationPreset)
	}
	if c.NearTimeoutThreshold < 0 {
		return fmt.Errorf("negative near-timeout threshold %v", c.NearTimeoutThreshold)
	}
	return nil
}
