// Package observability wires engine lifecycle events into Prometheus.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/courselets/trail/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	nodeVisits   *prometheus.CounterVec
	stackOps     *prometheus.CounterVec
	activeFrames *prometheus.GaugeVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trail_node_visits_total",
				Help: "Total number of node entries per graph and node",
			},
			[]string{"graph", "node"},
		),
		stackOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trail_stack_ops_total",
				Help: "Total number of stack operations by type",
			},
			[]string{"op", "graph"},
		),
		activeFrames: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trail_active_frames",
				Help: "Number of live activity frames per graph",
			},
			[]string{"graph"},
		),
	}
	reg.MustRegister(m.nodeVisits, m.stackOps, m.activeFrames)
	return m
}

// Hooks returns lifecycle hooks that record the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.StackEvent) {
			m.nodeVisits.WithLabelValues(e.Graph, e.Node).Inc()
		},
		OnPush: func(_ context.Context, e *domain.StackEvent) {
			m.stackOps.WithLabelValues("push", e.Graph).Inc()
			m.activeFrames.WithLabelValues(e.Graph).Inc()
		},
		OnPop: func(_ context.Context, e *domain.StackEvent) {
			m.stackOps.WithLabelValues("pop", e.Graph).Inc()
			m.activeFrames.WithLabelValues(e.Graph).Dec()
		},
		OnResume: func(_ context.Context, e *domain.StackEvent) {
			m.stackOps.WithLabelValues("resume", e.Graph).Inc()
		},
	}
}
