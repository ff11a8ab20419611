package lattice

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the lattice's prometheus counters. Registration is the
// caller's responsibility (via NewMetrics); the lattice never exposes an
// HTTP endpoint itself — that is a transport concern, out of scope here.
type Metrics struct {
	StringsAdded    prometheus.Counter
	StringsRejected prometheus.Counter
	AnchorsDeclared prometheus.Counter
	Tombstones      prometheus.Counter
}

// NewMetrics constructs and registers lattice metrics on reg. reg may be
// nil, in which case metrics are created but never exposed.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StringsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_strings_added_total",
			Help: "Total strings successfully appended to the lattice.",
		}),
		StringsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_strings_rejected_total",
			Help: "Total strings rejected by add_string.",
		}),
		AnchorsDeclared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_anchors_declared_total",
			Help: "Total anchor strings declared.",
		}),
		Tombstones: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_tombstones_total",
			Help: "Total strings erased and tombstoned.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.StringsAdded, m.StringsRejected, m.AnchorsDeclared, m.Tombstones)
	}
	return m
}
