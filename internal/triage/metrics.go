package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage pipeline.
type Metrics struct {
	ReportsTotal        *prometheus.CounterVec
	ProcessDuration     *prometheus.HistogramVec
	ClassifierFallbacks prometheus.Counter
	DispatchTotal       *prometheus.CounterVec
	AuditWrites         *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radalert_reports_total",
			Help: "Total triaged reports by verdict.",
		}, []string{"verdict"}),
		ProcessDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "radalert_process_duration_seconds",
			Help:    "Duration of pipeline invocations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~40s
		}, []string{"verdict"}),
		ClassifierFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radalert_classifier_fallbacks_total",
			Help: "Total classifications served by the keyword heuristic.",
		}),
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radalert_dispatch_attempts_total",
			Help: "Total notification channel attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
		AuditWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radalert_audit_writes_total",
			Help: "Total audit log upserts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.ReportsTotal,
		m.ProcessDuration,
		m.ClassifierFallbacks,
		m.DispatchTotal,
		m.AuditWrites,
	)

	return m
}

// DispatchObserver returns a notify.Observer-compatible hook that counts
// channel attempts.
func (m *Metrics) DispatchObserver() func(channel string, delivered bool) {
	return func(channel string, delivered bool) {
		outcome := "ok"
		if !delivered {
			outcome = "failed"
		}
		m.DispatchTotal.WithLabelValues(channel, outcome).Inc()
	}
}
