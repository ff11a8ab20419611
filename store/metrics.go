package store

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the local store's prometheus counters.
type Metrics struct {
	Flushes        prometheus.Counter
	Loads          prometheus.Counter
	AuthFailures   prometheus.Counter
}

// NewMetrics constructs and registers store metrics on reg. reg may be nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_flushes_total",
			Help: "Total successful atomic flushes to disk.",
		}),
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_loads_total",
			Help: "Total successful loads from disk.",
		}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_auth_failures_total",
			Help: "Total AEAD authentication failures on load.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Flushes, m.Loads, m.AuthFailures)
	}
	return m
}
