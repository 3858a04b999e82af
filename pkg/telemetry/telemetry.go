package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"mercator-hq/roundtable/pkg/config"
	"mercator-hq/roundtable/pkg/telemetry/health"
	"mercator-hq/roundtable/pkg/telemetry/logging"
	"mercator-hq/roundtable/pkg/telemetry/metrics"
	"mercator-hq/roundtable/pkg/telemetry/tracing"
)

// Telemetry holds the observability components shared by the engine and
// its adapters. Metrics is nil when metrics are disabled.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Health  *health.Checker
}

// New builds the observability stack. Logs go to w, or stderr when w is nil.
func New(cfg config.TelemetryConfig, version string, w io.Writer) (*Telemetry, error) {
	logCfg := logging.FromConfig(cfg.Logging)
	logCfg.Writer = w
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(cfg.Tracing, version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics, nil)
	}

	return &Telemetry{
		Logger:  logger,
		Metrics: collector,
		Tracer:  tracer,
		Health:  health.New(2 * time.Second),
	}, nil
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.Tracer.Shutdown(ctx)
}
