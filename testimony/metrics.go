package testimony

import (
	"github.com/latticenet/core/metrics"
	"github.com/latticenet/core/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the testimony collector's prometheus counters, plus a
// running average of quorum latency (time from first attestor to
// quorum-reaching attestor per target).
type Metrics struct {
	CryptoTestimonies prometheus.Counter
	AITestimonies      prometheus.Counter
	QuorumsReached     prometheus.Counter
	DuplicatesRejected prometheus.Counter
	QuorumLatency      metrics.Averager
}

// NewMetrics constructs and registers testimony metrics on reg. reg may be
// nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	var errs wrappers.Errs
	m := &Metrics{
		CryptoTestimonies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "testimony_crypto_total",
			Help: "Total cryptographic testimonies accepted.",
		}),
		AITestimonies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "testimony_ai_total",
			Help: "Total AI testimonies accepted.",
		}),
		QuorumsReached: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "testimony_quorums_reached_total",
			Help: "Total targets that reached cryptographic testimony quorum.",
		}),
		DuplicatesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "testimony_duplicates_rejected_total",
			Help: "Total duplicate testimonies rejected.",
		}),
		QuorumLatency: metrics.NewAveragerWithErrs(
			"testimony_quorum_latency_seconds",
			"seconds between first attestor and quorum for a target",
			reg, &errs,
		),
	}
	if reg != nil {
		reg.MustRegister(m.CryptoTestimonies, m.AITestimonies, m.QuorumsReached, m.DuplicatesRejected)
	}
	return m
}
