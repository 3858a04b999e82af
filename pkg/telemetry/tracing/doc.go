// Package tracing wires OpenTelemetry into roundtable.
//
// Each engine phase (ingest, system instruction, tool authorization and
// finalize) runs in its own span tagged with the conversation, the addressed
// panel and, for tool calls, the gate outcome. Spans are exported over
// OTLP/gRPC when telemetry.tracing.enabled is set; otherwise the tracer is a
// noop.
//
//	tracer, err := tracing.New(cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
package tracing
