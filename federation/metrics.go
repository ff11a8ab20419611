package federation

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the federation registry's prometheus counters.
type Metrics struct {
	ValidatorsRegistered prometheus.Counter
	SlashingEvents       prometheus.Counter
	EpochTransitions     prometheus.Counter
	RewardsDistributed   prometheus.Counter
}

// NewMetrics constructs and registers federation metrics on reg. reg may
// be nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ValidatorsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "federation_validators_registered_total",
			Help: "Total validators registered.",
		}),
		SlashingEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "federation_slashing_events_total",
			Help: "Total slashing events applied.",
		}),
		EpochTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "federation_epoch_transitions_total",
			Help: "Total epoch transitions.",
		}),
		RewardsDistributed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "federation_rewards_distributed_total",
			Help: "Total reward distribution rounds.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ValidatorsRegistered, m.SlashingEvents, m.EpochTransitions, m.RewardsDistributed)
	}
	return m
}
