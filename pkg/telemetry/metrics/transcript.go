package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mercator-hq/roundtable/pkg/config"
)

// TranscriptMetrics tracks final response rewriting.
//
// Metrics:
//   - roundtable_normalizations_total: normalizer passes by outcome
//   - roundtable_normalizer_dropped_lines_total: persona lines removed for exceeding a quota
//   - roundtable_notices_total: notices appended by kind
type TranscriptMetrics struct {
	normalizationsTotal *prometheus.CounterVec
	droppedLines        prometheus.Counter
	noticesTotal        *prometheus.CounterVec
}

// NewTranscriptMetrics creates and registers transcript metrics.
func NewTranscriptMetrics(cfg config.MetricsConfig, registry prometheus.Registerer) *TranscriptMetrics {
	factory := promauto.With(registry)

	return &TranscriptMetrics{
		normalizationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "normalizations_total",
				Help:      "Total number of normalizer passes",
			},
			[]string{"outcome"},
		),
		droppedLines: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "normalizer_dropped_lines_total",
				Help:      "Total number of persona lines dropped for exceeding a quota",
			},
		),
		noticesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "notices_total",
				Help:      "Total number of notices appended to final responses",
			},
			[]string{"kind"},
		),
	}
}

// RecordNormalize counts a normalizer pass.
func (tm *TranscriptMetrics) RecordNormalize(outcome string, dropped int) {
	tm.normalizationsTotal.WithLabelValues(outcome).Inc()
	if dropped > 0 {
		tm.droppedLines.Add(float64(dropped))
	}
}

// RecordNotice counts an appended notice.
func (tm *TranscriptMetrics) RecordNotice(kind string) {
	tm.noticesTotal.WithLabelValues(kind).Inc()
}
