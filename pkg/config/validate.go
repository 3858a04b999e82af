package config

import (
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/roundtable/pkg/turns"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "gate.default_call_cap").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateGate(&cfg.Gate)...)
	errs = append(errs, validateSession(&cfg.Session)...)
	errs = append(errs, validateIntent(&cfg.Intent)...)
	errs = append(errs, validateTurns(&cfg.Turns)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if _, port, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("must be host:port, got %q", cfg.ListenAddress),
		})
	} else if port == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "port is required"})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "must not be negative"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "must not be negative"})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "must not be negative"})
	}
	if cfg.Auth.Enabled {
		if len(cfg.Auth.Keys) == 0 {
			errs = append(errs, FieldError{Field: "server.auth.keys", Message: "at least one key is required when auth is enabled"})
		}
		for i, key := range cfg.Auth.Keys {
			if strings.TrimSpace(key) == "" {
				errs = append(errs, FieldError{Field: fmt.Sprintf("server.auth.keys[%d]", i), Message: "must not be empty"})
			}
		}
	}

	return errs
}

func validateGate(cfg *GateConfig) []FieldError {
	var errs []FieldError

	if cfg.DefaultCallCap < 1 {
		errs = append(errs, FieldError{
			Field:   "gate.default_call_cap",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.DefaultCallCap),
		})
	}
	if cfg.DeepCallCap < cfg.DefaultCallCap {
		errs = append(errs, FieldError{
			Field:   "gate.deep_call_cap",
			Message: fmt.Sprintf("must be at least default_call_cap (%d), got %d", cfg.DefaultCallCap, cfg.DeepCallCap),
		})
	}

	return errs
}

func validateSession(cfg *SessionConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxEntries < 0 {
		errs = append(errs, FieldError{Field: "session.max_entries", Message: "must not be negative"})
	}
	if cfg.IdleTTL > 0 && cfg.CleanupInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "session.cleanup_interval",
			Message: "must be positive when idle_ttl is set",
		})
	}

	return errs
}

func validateIntent(cfg *IntentConfig) []FieldError {
	var errs []FieldError

	if cfg.Watch && cfg.TableFile == "" {
		errs = append(errs, FieldError{Field: "intent.table_file", Message: "is required when watch is enabled"})
	}
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{Field: "intent.debounce_interval", Message: "must not be negative"})
	}

	return errs
}

func validateTurns(cfg *TurnsConfig) []FieldError {
	if len(cfg.Weights) == 0 {
		return nil
	}
	if _, err := turns.DefaultWeights().Override(cfg.Weights); err != nil {
		return []FieldError{{Field: "turns.weights", Message: err.Error()}}
	}
	return nil
}

var (
	validAuditBackends = []string{"memory", "sqlite"}
	validSQLiteDrivers = []string{"sqlite3", "sqlite"}
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "text", "console"}
	validSamplers      = []string{"always", "never", "ratio"}
)

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if !slices.Contains(validAuditBackends, cfg.Backend) {
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validAuditBackends, ", "), cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "audit.sqlite.path", Message: "is required for the sqlite backend"})
		}
		if !slices.Contains(validSQLiteDrivers, cfg.SQLite.Driver) {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.driver",
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validSQLiteDrivers, ", "), cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{Field: "audit.sqlite.max_open_conns", Message: "must be at least 1"})
		}
	}

	if cfg.Recorder.AsyncBuffer < 0 {
		errs = append(errs, FieldError{Field: "audit.recorder.async_buffer", Message: "must not be negative"})
	}

	if cfg.Retention.Days > 0 {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "audit.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	if cfg.Query.DefaultLimit > cfg.Query.MaxLimit {
		errs = append(errs, FieldError{
			Field:   "audit.query.default_limit",
			Message: fmt.Sprintf("must not exceed max_limit (%d)", cfg.Query.MaxLimit),
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validLogLevels, ", "), cfg.Logging.Level),
		})
	}
	if !slices.Contains(validLogFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validLogFormats, ", "), cfg.Logging.Format),
		})
	}
	for i, p := range cfg.Logging.RedactPatterns {
		if p.Pattern == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: "is required",
			})
		}
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "must start with /"})
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "is required when tracing is enabled"})
		}
		if !slices.Contains(validSamplers, cfg.Tracing.Sampler) {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validSamplers, ", "), cfg.Tracing.Sampler),
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "must be between 0 and 1"})
		}
	}

	return errs
}
