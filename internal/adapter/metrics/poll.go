package metrics

import "github.com/prometheus/client_golang/prometheus"

// PollMetrics holds Prometheus metrics for the poll engine.
type PollMetrics struct {
	PollsCreated  prometheus.Counter
	OpenPolls     prometheus.Gauge
	Votes         *prometheus.CounterVec
	Finalizations *prometheus.CounterVec
	Participants  prometheus.Gauge
	Removals      prometheus.Counter
}

// NewPollMetrics creates and registers poll engine metrics on the given registry.
func NewPollMetrics(reg prometheus.Registerer) *PollMetrics {
	m := &PollMetrics{
		PollsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "created_total",
			Help:      "Total number of polls created.",
		}),
		OpenPolls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "open",
			Help:      "Number of polls currently open.",
		}),
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "votes_total",
			Help:      "Total number of submitted votes, by result.",
		}, []string{"result"}),
		Finalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "finalizations_total",
			Help:      "Total number of closed polls, by reason.",
		}, []string{"reason"}),
		Participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "participants",
			Help:      "Number of distinct connected participant identities.",
		}),
		Removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "removals_total",
			Help:      "Total number of participants removed by a moderator.",
		}),
	}

	reg.MustRegister(m.PollsCreated, m.OpenPolls, m.Votes, m.Finalizations, m.Participants, m.Removals)
	return m
}
