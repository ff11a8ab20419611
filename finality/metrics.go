package finality

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the finality engine's prometheus counters/gauges.
type Metrics struct {
	Finalized  prometheus.Counter
	Rejected   prometheus.Counter
	Expired    prometheus.Counter
	Tentative  prometheus.Counter
	Registered prometheus.Counter
}

// NewMetrics constructs and registers finality metrics on reg. reg may be
// nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Registered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finality_strings_registered_total",
			Help: "Total strings registered with the finality engine.",
		}),
		Tentative: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finality_strings_tentative_total",
			Help: "Total strings promoted to Tentative.",
		}),
		Finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finality_strings_final_total",
			Help: "Total strings promoted to Final.",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finality_strings_rejected_total",
			Help: "Total strings moved to Rejected.",
		}),
		Expired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finality_strings_expired_total",
			Help: "Total strings moved to Expired.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Registered, m.Tentative, m.Finalized, m.Rejected, m.Expired)
	}
	return m
}
