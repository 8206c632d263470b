package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "function", cfg.ServiceName)
	assert.Equal(t, "faas", cfg.MetricsNamespace)
	assert.Equal(t, "verbose", cfg.OperationPreset)
	assert.Equal(t, time.Second, cfg.NearTimeoutThreshold)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, time.Second}, cfg.SLAThresholds)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OBS_SERVICE_NAME", "checkout")
	t.Setenv("OBS_OPERATION_PRESET", "minimal")
	t.Setenv("OBS_SLA_THRESHOLDS", "100ms,1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.ServiceName)
	assert.Equal(t, "minimal", cfg.OperationPreset)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, time.Second}, cfg.SLAThresholds)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("OBS_TRACE_SAMPLING_RATE", "1.5")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("OBS_TRACE_SAMPLING_RATE", "0.5")
	t.Setenv("OBS_OPERATION_PRESET", "chatty")
	_, err = Load()
	assert.Error(t, err)
}
