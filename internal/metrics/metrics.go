// Package metrics exposes Prometheus collectors for interception stages
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jzx17/errshot/pkg/types"
)

// Metrics holds the collectors and implements types.Observer
type Metrics struct {
	shotsTotal         *prometheus.CounterVec
	attempts           *prometheus.HistogramVec
	subscriptionsTotal *prometheus.CounterVec
	registry           *prometheus.Registry
}

var _ types.Observer = (*Metrics)(nil)

// New creates collectors registered on a private registry
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "errshot"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.shotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_total",
			Help:      "Total number of shooter decisions by stage and kind",
		},
		[]string{"stage", "kind"},
	)

	m.attempts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shot_attempt",
			Help:      "Attempt number handed to the shooter",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"stage"},
	)

	m.subscriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_total",
			Help:      "Total number of stage subscriptions by outcome",
		},
		[]string{"stage", "outcome"},
	)

	m.registry.MustRegister(m.shotsTotal, m.attempts, m.subscriptionsTotal)

	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveShot implements types.Observer
func (m *Metrics) ObserveShot(stage string, attempt types.Attempt, shot types.Shot) {
	m.shotsTotal.WithLabelValues(stage, shot.Kind().String()).Inc()
	m.attempts.WithLabelValues(stage).Observe(float64(attempt))
}

// ObserveOutcome implements types.Observer
func (m *Metrics) ObserveOutcome(stage string, outcome types.Outcome) {
	m.subscriptionsTotal.WithLabelValues(stage, outcome.String()).Inc()
}

// ShotsTotal returns the counter for stage and kind
func (m *Metrics) ShotsTotal(stage string, kind types.ShotKind) prometheus.Counter {
	return m.shotsTotal.WithLabelValues(stage, kind.String())
}

// SubscriptionsTotal returns the counter for stage and outcome
func (m *Metrics) SubscriptionsTotal(stage string, outcome types.Outcome) prometheus.Counter {
	return m.subscriptionsTotal.WithLabelValues(stage, outcome.String())
}

