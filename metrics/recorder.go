package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values used by the recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// A Recorder observes invocation outcomes on the local prometheus registry.
// All labels are categorical (trigger, outcome, status class, latency class)
// so the exported series stay bounded regardless of traffic shape.
type Recorder struct {
	invocations  *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	latencyClass *prometheus.CounterVec
	slaWithin    *prometheus.CounterVec
	remaining    *prometheus.GaugeVec
	nearTimeout  *prometheus.CounterVec
	coldStarts   *prometheus.CounterVec
}

// NewRecorder constructs a Recorder and registers its metrics with the
// default prometheus registerer.
func NewRecorder(namespace string) *Recorder {
	return NewRecorderWith(namespace, prometheus.DefaultRegisterer)
}

// NewRecorderWith constructs a Recorder on an explicit registerer. Use this
// in tests to avoid duplicate registration on the default registry.
func NewRecorderWith(namespace string, reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "The count of handled invocations, partitioned by trigger, outcome and status class",
			},
			[]string{"trigger", "outcome", "status_class"}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "invocation_duration_seconds",
				Help:      "Invocation latency distributions, partitioned by trigger",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"trigger"}),
		latencyClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocation_latency_class_total",
				Help:      "The count of handled invocations, partitioned by trigger and latency class",
			},
			[]string{"trigger", "latency_class"}),
		slaWithin: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sla_within_total",
				Help:      "SLA compliance counts per threshold",
			},
			[]string{"threshold_ms", "within"}),
		remaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "remaining_budget_seconds",
				Help:      "The remaining time budget reported by the platform at the start of the invocation",
			},
			[]string{"function"}),
		nearTimeout: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "near_timeout_total",
				Help:      "The count of invocations that came close to the platform time limit",
			},
			[]string{"function"}),
		coldStarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cold_starts_total",
				Help:      "The count of invocations that initialized a fresh worker",
			},
			[]string{"function"}),
	}

	reg.MustRegister(
		r.invocations,
		r.duration,
		r.latencyClass,
		r.slaWithin,
		r.remaining,
		r.nearTimeout,
		r.coldStarts)
	return r
}

// RecordInvocation observes one handled invocation. statusClass is one of
// the StatusClass values ("2xx", ...) or "unknown" for triggers without a
// status code.
func (r *Recorder) RecordInvocation(trigger, outcome, statusClass string, d time.Duration) {
	r.invocations.WithLabelValues(trigger, outcome, statusClass).Inc()
	r.duration.WithLabelValues(trigger).Observe(d.Seconds())
	r.latencyClass.WithLabelValues(trigger, LatencyBucket(d)).Inc()
}

// RecordSLA observes SLA compliance of one invocation against each
// threshold.
func (r *Recorder) RecordSLA(d time.Duration, thresholds ...time.Duration) {
	for _, threshold := range thresholds {
		label := strconv.FormatInt(threshold.Milliseconds(), 10)
		within := strconv.FormatBool(SLAWithin(d, threshold))
		r.slaWithin.WithLabelValues(label, within).Inc()
	}
}

// SetRemainingBudget records the platform's remaining time budget.
func (r *Recorder) SetRemainingBudget(function string, d time.Duration) {
	r.remaining.WithLabelValues(function).Set(d.Seconds())
}

// RecordNearTimeout counts an invocation whose remaining budget dropped
// below the near-timeout threshold.
func (r *Recorder) RecordNearTimeout(function string) {
	r.nearTimeout.WithLabelValues(function).Inc()
}

// RecordColdStart counts a cold-started invocation.
func (r *Recorder) RecordColdStart(function string) {
	r.coldStarts.WithLabelValues(function).Inc()
}
