package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mercator-hq/roundtable/pkg/config"
)

// SessionMetrics tracks conversation lifecycle metrics.
//
// Metrics:
//   - roundtable_ingests_total: prompts ingested, by whether a panel was addressed
//   - roundtable_allocations_total: turn allocations by intent and panel size
//   - roundtable_allocated_turns: total turns per allocation
//   - roundtable_phase_duration_seconds: time spent in each lifecycle phase
//   - roundtable_live_sessions: stored conversation policies
//   - roundtable_session_evictions_total: policies evicted by the store
//   - roundtable_intent_table_reloads_total: keyword table reloads by result
//   - roundtable_audit_dropped_total: audit records dropped on a full buffer
type SessionMetrics struct {
	ingestsTotal     *prometheus.CounterVec
	allocationsTotal *prometheus.CounterVec
	allocatedTurns   prometheus.Histogram
	phaseDuration    *prometheus.HistogramVec
	liveSessions     prometheus.Gauge
	evictionsTotal   *prometheus.CounterVec
	reloadsTotal     *prometheus.CounterVec
	auditDropped     prometheus.Counter
}

// NewSessionMetrics creates and registers session metrics.
func NewSessionMetrics(cfg config.MetricsConfig, registry prometheus.Registerer) *SessionMetrics {
	factory := promauto.With(registry)

	return &SessionMetrics{
		ingestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ingests_total",
				Help:      "Total number of prompts ingested",
			},
			[]string{"active"},
		),
		allocationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "allocations_total",
				Help:      "Total number of turn allocations",
			},
			[]string{"intent", "personas"},
		),
		allocatedTurns: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "allocated_turns",
				Help:      "Total turns granted per allocation",
				Buckets:   []float64{5, 8, 10, 12, 14, 16},
			},
		),
		phaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "phase_duration_seconds",
				Help:      "Duration of conversation lifecycle phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
			[]string{"phase"},
		),
		liveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "live_sessions",
				Help:      "Number of stored conversation policies",
			},
		),
		evictionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "session_evictions_total",
				Help:      "Total number of conversation policies evicted",
			},
			[]string{"reason"},
		),
		reloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "intent_table_reloads_total",
				Help:      "Total number of intent table reloads",
			},
			[]string{"result"},
		),
		auditDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_dropped_total",
				Help:      "Total number of audit records dropped because the buffer was full",
			},
		),
	}
}

// RecordIngest counts an ingested prompt.
func (sm *SessionMetrics) RecordIngest(active bool) {
	sm.ingestsTotal.WithLabelValues(strconv.FormatBool(active)).Inc()
}

// RecordAllocation counts an allocation and observes its turn total.
func (sm *SessionMetrics) RecordAllocation(intent string, personas, totalTurns int) {
	sm.allocationsTotal.WithLabelValues(intent, strconv.Itoa(personas)).Inc()
	sm.allocatedTurns.Observe(float64(totalTurns))
}

// ObservePhase records a phase duration.
func (sm *SessionMetrics) ObservePhase(phase string, d time.Duration) {
	sm.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// SetLive sets the live session gauge.
func (sm *SessionMetrics) SetLive(n int) {
	sm.liveSessions.Set(float64(n))
}

// RecordEviction counts an eviction.
func (sm *SessionMetrics) RecordEviction(reason string) {
	sm.evictionsTotal.WithLabelValues(reason).Inc()
}

// RecordTableReload counts a reload by result.
func (sm *SessionMetrics) RecordTableReload(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	sm.reloadsTotal.WithLabelValues(result).Inc()
}
