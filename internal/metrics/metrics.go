package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis outcomes used as the "outcome" label.
const (
	OutcomeCompleted    = "completed"
	OutcomeInvalid      = "invalid"
	OutcomeWriteFailed  = "write_failed"
	OutcomeWorkerFailed = "worker_failed"
	OutcomeTimeout      = "timeout"
	OutcomeReadFailed   = "read_failed"
)

// Metrics holds the collectors for the analysis flow. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
	pollAttempts prometheus.Histogram
	pollReads    prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plant_monitor",
			Name:      "analysis_runs_total",
			Help:      "Analysis requests by final outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plant_monitor",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time from trigger write to completion or failure.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		pollAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plant_monitor",
			Name:      "analysis_poll_attempts",
			Help:      "Poll attempts needed per analysis request.",
			Buckets:   prometheus.LinearBuckets(1, 5, 7),
		}),
		pollReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plant_monitor",
			Name:      "trigger_reads_total",
			Help:      "Reads of the trigger record made by the completion poller.",
		}),
	}
	reg.MustRegister(m.runs, m.duration, m.pollAttempts, m.pollReads)
	return m
}

// ObserveRun records one finished analysis request.
func (m *Metrics) ObserveRun(outcome string, took time.Duration, attempts int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
	if attempts > 0 {
		m.pollAttempts.Observe(float64(attempts))
	}
}

// IncPollRead counts a single trigger read.
func (m *Metrics) IncPollRead() {
	if m == nil {
		return
	}
	m.pollReads.Inc()
}
