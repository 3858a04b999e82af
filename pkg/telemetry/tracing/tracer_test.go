package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/roundtable/pkg/config"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewWithProvider(tp), recorder
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("Expected disabled tracer")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	if TraceID(ctx) != "" {
		t.Error("Expected no trace ID from noop span")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	_, err := New(config.TracingConfig{Enabled: true, Sampler: "sometimes"}, "test")
	if err == nil {
		t.Fatal("Expected error for unknown sampler")
	}
}

func TestTracer_NilSafe(t *testing.T) {
	var tracer *Tracer
	_, span := tracer.Start(context.Background(), "nil")
	span.End()
	if tracer.Enabled() {
		t.Error("Expected nil tracer to report disabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_Attributes(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "roundtable.ingest")
	SetSessionAttribute(span, "conv-1")
	SetPanelAttributes(span, []string{"CTO", "DEV"}, "backend", "CTO 5, DEV 3")
	SetStatus(span, nil)
	span.End()

	if TraceID(ctx) == "" {
		t.Error("Expected a trace ID on a recorded span")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs[AttrLead].AsString(); got != "CTO" {
		t.Errorf("Expected lead CTO, got %q", got)
	}
	if got := attrs[AttrIntent].AsString(); got != "backend" {
		t.Errorf("Expected intent backend, got %q", got)
	}
	if got := attrs[AttrSession].AsString(); got != "conv-1" {
		t.Errorf("Expected session conv-1, got %q", got)
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("Expected OK status, got %v", spans[0].Status().Code)
	}
}

func TestSetStatus_Error(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "roundtable.finalize")
	SetStatus(span, errors.New("boom"))
	span.End()

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("Expected error status, got %v", got.Status().Code)
	}
	if len(got.Events()) == 0 {
		t.Error("Expected the error to be recorded as an event")
	}
}

func TestHTTPMiddleware(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	handler := HTTPMiddleware(tracer, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TraceID(r.Context()) == "" {
			t.Error("Expected handler context to carry a span")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/sessions/abc", nil))

	if rec.Header().Get("X-Trace-ID") == "" {
		t.Error("Expected X-Trace-ID header")
	}
	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "DELETE /v1/sessions/abc" {
		t.Errorf("Expected one server span named after the request, got %v", spans)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		_, err := createSampler(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
		}
	}
}
