package invocation

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the invocation engine's prometheus counters.
type Metrics struct {
	ContractsProcessed prometheus.Counter
	ConditionsFailed    prometheus.Counter
	ActionsExecuted     prometheus.Counter
	ActionsFailed       prometheus.Counter
}

// NewMetrics constructs and registers invocation metrics on reg. reg may
// be nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ContractsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invocation_contracts_processed_total",
			Help: "Total contracts processed to completion.",
		}),
		ConditionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invocation_conditions_failed_total",
			Help: "Total conditions that failed validation.",
		}),
		ActionsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invocation_actions_executed_total",
			Help: "Total actions successfully executed.",
		}),
		ActionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invocation_actions_failed_total",
			Help: "Total actions that failed execution.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ContractsProcessed, m.ConditionsFailed, m.ActionsExecuted, m.ActionsFailed)
	}
	return m
}
