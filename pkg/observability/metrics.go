package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds a private Prometheus registry of the counters and
// histograms a host can scrape to observe a fleet of GuardEngine instances.
// It is constructed independently of the core guard package and passed in
// by a caller around each Feed call.
type Metrics struct {
	decisionsTotal *prometheus.CounterVec
	scoreObserved  prometheus.Histogram
	carryHighWater *prometheus.GaugeVec
	rulesEvaluated prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics builds a Metrics instance with a fresh, private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamguard_decisions_total",
				Help: "Total number of terminal decisions produced, by kind and rule.",
			},
			[]string{"kind", "rule"},
		),
		scoreObserved: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "streamguard_score_distribution",
				Help:    "Distribution of the engine's cumulative risk score at each Feed call.",
				Buckets: prometheus.LinearBuckets(0, 10, 10),
			},
		),
		carryHighWater: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "streamguard_carry_buffer_bytes",
				Help: "Most recently observed carry buffer size for a pattern rule, by kind.",
			},
			[]string{"kind"},
		),
		rulesEvaluated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "streamguard_rules_evaluated_total",
				Help: "Total number of rule.Feed invocations across all engines.",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.decisionsTotal,
		m.scoreObserved,
		m.carryHighWater,
		m.rulesEvaluated,
	)

	return m
}

// Registry returns the private Prometheus registry so a host can embed it
// into its own promhttp handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordDecision increments the decision counter for the given rule name
// and decision kind.
func (m *Metrics) RecordDecision(ruleName, kind string) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(kind, ruleName).Inc()
}

// RecordScore observes the engine's running score after a Feed call.
func (m *Metrics) RecordScore(score int) {
	if m == nil {
		return
	}
	m.scoreObserved.Observe(float64(score))
}

// RecordCarryBufferSize sets the carry-buffer gauge for a pattern kind to
// the given size; the gauge holds the most recent value, not a maximum.
func (m *Metrics) RecordCarryBufferSize(kind string, size int) {
	if m == nil {
		return
	}
	m.carryHighWater.WithLabelValues(kind).Set(float64(size))
}

// RecordRuleEvaluated increments the total rule-evaluation counter.
func (m *Metrics) RecordRuleEvaluated() {
	if m == nil {
		return
	}
	m.rulesEvaluated.Inc()
}
