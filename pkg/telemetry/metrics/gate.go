package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mercator-hq/roundtable/pkg/config"
)

// GateMetrics tracks provider tool call admission.
//
// Metrics:
//   - roundtable_gate_decisions_total: decisions by provider, decision and reason
type GateMetrics struct {
	decisionsTotal *prometheus.CounterVec
}

// NewGateMetrics creates and registers gate metrics.
func NewGateMetrics(cfg config.MetricsConfig, registry prometheus.Registerer) *GateMetrics {
	return &GateMetrics{
		decisionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "gate_decisions_total",
				Help:      "Total number of provider tool call decisions",
			},
			[]string{"provider", "decision", "reason"},
		),
	}
}

// RecordDecision counts a decision. An empty reason means the call was admitted.
func (gm *GateMetrics) RecordDecision(provider, reason string) {
	decision := "allowed"
	if reason != "" {
		decision = "denied"
	}
	gm.decisionsTotal.WithLabelValues(provider, decision, reason).Inc()
}
