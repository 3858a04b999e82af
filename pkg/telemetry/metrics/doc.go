// Package metrics exposes roundtable's Prometheus metrics.
//
// The Collector groups metrics by concern:
//
//   - Session metrics: ingests, allocations, phase latency, live policies,
//     evictions and intent table reloads
//   - Gate metrics: provider tool call decisions by reason
//   - Transcript metrics: normalizer outcomes, dropped lines and notices
//
// Labels are drawn from closed sets (intents, providers, denial reasons), so
// cardinality stays bounded regardless of traffic. Conversation identifiers
// are never used as labels.
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordGateDecision("sentry", "")
//	mux.Handle("/metrics", collector.Handler())
package metrics
