package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordInvocation(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorderWith("faas", reg)

	r.RecordInvocation("http", OutcomeSuccess, "2xx", 30*time.Millisecond)
	r.RecordInvocation("http", OutcomeFailed, "5xx", 730*time.Millisecond)
	r.RecordInvocation("queue", OutcomeSuccess, "unknown", 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.invocations.WithLabelValues("http", OutcomeSuccess, "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.invocations.WithLabelValues("http", OutcomeFailed, "5xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.latencyClass.WithLabelValues("http", VerySlow)))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.latencyClass.WithLabelValues("queue", UltraFast)))
}

func TestRecordSLA(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorderWith("faas", reg)

	r.RecordSLA(300*time.Millisecond,
		200*time.Millisecond, 500*time.Millisecond, time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.slaWithin.WithLabelValues("200", "false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.slaWithin.WithLabelValues("500", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.slaWithin.WithLabelValues("1000", "true")))
}

func TestPlatformBudgetMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorderWith("faas", reg)

	r.SetRemainingBudget("checkout", 750*time.Millisecond)
	r.RecordNearTimeout("checkout")
	r.RecordColdStart("checkout")

	assert.InDelta(t, 0.75, testutil.ToFloat64(
		r.remaining.WithLabelValues("checkout")), 1e-9)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.nearTimeout.WithLabelValues("checkout")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.coldStarts.WithLabelValues("checkout")))

	// the budget gauge is sampled when handling begins, and its help text
	// must say so
	expected := `
# HELP faas_remaining_budget_seconds The remaining time budget reported by the platform at the start of the invocation
# TYPE faas_remaining_budget_seconds gauge
faas_remaining_budget_seconds{function="checkout"} 0.75
`
	assert.NoError(t, testutil.CollectAndCompare(r.remaining, strings.NewReader(expected)))
}
