package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/roundtable/pkg/config"
)

// Collector owns every roundtable metric. A nil *Collector is valid and
// records nothing, so callers never need to guard on whether metrics are
// enabled.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	session    *SessionMetrics
	gate       *GateMetrics
	transcript *TranscriptMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one that also exports Go runtime and process
// metrics.
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		session:    NewSessionMetrics(cfg, registry),
		gate:       NewGateMetrics(cfg, registry),
		transcript: NewTranscriptMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordIngest counts an ingested prompt. active is false when no persona
// was addressed and the conversation policy was cleared.
func (c *Collector) RecordIngest(active bool) {
	if !c.enabled() {
		return
	}
	c.session.RecordIngest(active)
}

// RecordAllocation counts a turn allocation for an intent and panel size.
func (c *Collector) RecordAllocation(intent string, personas, totalTurns int) {
	if !c.enabled() {
		return
	}
	c.session.RecordAllocation(intent, personas, totalTurns)
}

// ObservePhase records how long a lifecycle phase took.
func (c *Collector) ObservePhase(phase string, d time.Duration) {
	if !c.enabled() {
		return
	}
	c.session.ObservePhase(phase, d)
}

// SetLiveSessions reports the number of stored conversation policies.
func (c *Collector) SetLiveSessions(n int) {
	if !c.enabled() {
		return
	}
	c.session.SetLive(n)
}

// RecordEviction counts a policy removed by the store for reason.
func (c *Collector) RecordEviction(reason string) {
	if !c.enabled() {
		return
	}
	c.session.RecordEviction(reason)
}

// RecordTableReload counts an intent table reload attempt.
func (c *Collector) RecordTableReload(err error) {
	if !c.enabled() {
		return
	}
	c.session.RecordTableReload(err == nil)
}

// RecordGateDecision counts a provider tool call decision. reason is empty
// for admitted calls.
func (c *Collector) RecordGateDecision(provider, reason string) {
	if !c.enabled() {
		return
	}
	c.gate.RecordDecision(provider, reason)
}

// RecordNormalize counts a normalizer pass and the lines it dropped.
func (c *Collector) RecordNormalize(outcome string, dropped int) {
	if !c.enabled() {
		return
	}
	c.transcript.RecordNormalize(outcome, dropped)
}

// RecordNotice counts a notice appended to a final response.
func (c *Collector) RecordNotice(kind string) {
	if !c.enabled() {
		return
	}
	c.transcript.RecordNotice(kind)
}

// RecordAuditDropped counts an audit record discarded on a full buffer.
func (c *Collector) RecordAuditDropped() {
	if !c.enabled() {
		return
	}
	c.session.auditDropped.Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
