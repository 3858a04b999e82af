// Package telemetry bundles roundtable's observability stack.
//
// Subpackages:
//
//   - logging: log/slog setup with context identifiers and redaction
//   - metrics: Prometheus collector for sessions, gate decisions and transcripts
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness, readiness and version probes
//
// New builds all four from the telemetry configuration section:
//
//	tel, err := telemetry.New(cfg.Telemetry, version)
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//	slog.SetDefault(tel.Logger)
package telemetry
