package regeneration

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the regeneration engine's prometheus counters.
type Metrics struct {
	Requested prometheus.Counter
	Repaired  prometheus.Counter
	Failed    prometheus.Counter
}

// NewMetrics constructs and registers regeneration metrics on reg. reg may
// be nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "regeneration_requested_total",
			Help: "Total regeneration requests opened.",
		}),
		Repaired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "regeneration_repaired_total",
			Help: "Total regeneration requests that successfully reconstructed content.",
		}),
		Failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "regeneration_failed_total",
			Help: "Total regeneration requests that exhausted repair attempts.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Requested, m.Repaired, m.Failed)
	}
	return m
}
