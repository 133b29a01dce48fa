package reconcile

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the reconciliation worker.
type Metrics struct {
	Polls        prometheus.Counter
	Redispatches *prometheus.CounterVec
}

// NewMetrics registers and returns worker metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radalert_reconcile_polls_total",
			Help: "Total reconciliation poll cycles.",
		}),
		Redispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radalert_reconcile_redispatches_total",
			Help: "Total reconciliation re-dispatches by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.Polls, m.Redispatches)

	return m
}
