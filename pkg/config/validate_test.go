package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:      "listen address without port",
			mutate:    func(c *Config) { c.Server.ListenAddress = "localhost" },
			wantField: "server.listen_address",
		},
		{
			name:      "zero call cap",
			mutate:    func(c *Config) { c.Gate.DefaultCallCap = 0 },
			wantField: "gate.default_call_cap",
		},
		{
			name:      "deep cap below default",
			mutate:    func(c *Config) { c.Gate.DeepCallCap = 1 },
			wantField: "gate.deep_call_cap",
		},
		{
			name: "watch without table file",
			mutate: func(c *Config) {
				c.Intent.Watch = true
			},
			wantField: "intent.table_file",
		},
		{
			name: "unknown persona in weights",
			mutate: func(c *Config) {
				c.Turns.Weights = map[string]map[string]int{"backend": {"INTERN": 2}}
			},
			wantField: "turns.weights",
		},
		{
			name: "unknown intent in weights",
			mutate: func(c *Config) {
				c.Turns.Weights = map[string]map[string]int{"legal": {"CTO": 2}}
			},
			wantField: "turns.weights",
		},
		{
			name:      "auth without keys",
			mutate:    func(c *Config) { c.Server.Auth.Enabled = true },
			wantField: "server.auth.keys",
		},
		{
			name: "auth with blank key",
			mutate: func(c *Config) {
				c.Server.Auth.Enabled = true
				c.Server.Auth.Keys = []string{"k1", " "}
			},
			wantField: "server.auth.keys[1]",
		},
		{
			name:      "unknown audit backend",
			mutate:    func(c *Config) { c.Audit.Backend = "postgres" },
			wantField: "audit.backend",
		},
		{
			name: "unknown sqlite driver",
			mutate: func(c *Config) {
				c.Audit.Backend = "sqlite"
				c.Audit.SQLite.Driver = "sqlite4"
			},
			wantField: "audit.sqlite.driver",
		},
		{
			name:      "bad retention schedule",
			mutate:    func(c *Config) { c.Audit.Retention.Schedule = "every night" },
			wantField: "audit.retention.schedule",
		},
		{
			name:   "bad schedule ignored when retention disabled",
			mutate: func(c *Config) { c.Audit.Retention.Days = -1; c.Audit.Retention.Schedule = "nope" },
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "empty redact pattern",
			mutate:    func(c *Config) { c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Replacement: "x"}} },
			wantField: "telemetry.logging.redact_patterns[0].pattern",
		},
		{
			name:      "metrics path without slash",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			wantField: "telemetry.metrics.path",
		},
		{
			name: "tracing ratio out of range",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.SampleRatio = 1.5
			},
			wantField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "gate.default_call_cap", Message: "must be at least 1"}}}
	if got := single.Error(); got != "configuration validation failed: gate.default_call_cap: must be at least 1" {
		t.Errorf("unexpected single error message: %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	got := multi.Error()
	if !strings.HasPrefix(got, "configuration validation failed with 2 errors:") {
		t.Errorf("unexpected multi error header: %q", got)
	}
	if !strings.Contains(got, "  - a: bad\n") || !strings.Contains(got, "  - b: worse\n") {
		t.Errorf("expected each field error listed, got %q", got)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("expected max body %d, got %d", DefaultMaxBodyBytes, cfg.Server.MaxBodyBytes)
	}
	if cfg.Gate.DefaultCallCap != 2 || cfg.Gate.DeepCallCap != 6 {
		t.Errorf("expected caps 2/6, got %d/%d", cfg.Gate.DefaultCallCap, cfg.Gate.DeepCallCap)
	}
	if cfg.Audit.Enabled {
		t.Error("expected audit disabled by default")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if !cfg.Telemetry.Logging.RedactPII {
		t.Error("expected PII redaction enabled by default")
	}
	if cfg.Telemetry.Tracing.SampleRatio != DefaultTracingRatio {
		t.Errorf("expected sample ratio %v, got %v", DefaultTracingRatio, cfg.Telemetry.Tracing.SampleRatio)
	}
}
