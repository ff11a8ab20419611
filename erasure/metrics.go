package erasure

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the erasure coordinator's prometheus counters.
type Metrics struct {
	Submitted  prometheus.Counter
	Authorized prometheus.Counter
	Denied     prometheus.Counter
	Completed  prometheus.Counter
}

// NewMetrics constructs and registers erasure metrics on reg. reg may be
// nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erasure_requests_submitted_total",
			Help: "Total erasure requests submitted.",
		}),
		Authorized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erasure_requests_authorized_total",
			Help: "Total erasure requests authorized.",
		}),
		Denied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erasure_requests_denied_total",
			Help: "Total erasure requests denied.",
		}),
		Completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erasure_requests_completed_total",
			Help: "Total erasure requests completed (fully or partially).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Submitted, m.Authorized, m.Denied, m.Completed)
	}
	return m
}
