package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roundtable.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:9000"
  read_timeout: "5s"

gate:
  default_call_cap: 3
  deep_call_cap: 8

session:
  idle_ttl: "1h"

turns:
  weights:
    backend:
      CTO: 4

audit:
  enabled: true
  backend: "sqlite"
  sqlite:
    path: "./audit-test.db"
    driver: "sqlite"

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9000", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Gate.DefaultCallCap != 3 || cfg.Gate.DeepCallCap != 8 {
		t.Errorf("expected caps 3/8, got %d/%d", cfg.Gate.DefaultCallCap, cfg.Gate.DeepCallCap)
	}
	if cfg.Session.IdleTTL != time.Hour {
		t.Errorf("expected idle ttl 1h, got %v", cfg.Session.IdleTTL)
	}
	if cfg.Turns.Weights["backend"]["CTO"] != 4 {
		t.Errorf("expected CTO backend weight override 4, got %d", cfg.Turns.Weights["backend"]["CTO"])
	}
	if !cfg.Audit.Enabled || cfg.Audit.Backend != "sqlite" || cfg.Audit.SQLite.Driver != "sqlite" {
		t.Errorf("unexpected audit config: %+v", cfg.Audit)
	}
	if !cfg.Audit.SQLite.WALMode {
		t.Error("expected WAL mode to keep its default")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to be disabled by the file")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
gate:
  default_cal_cap: 3
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "default_cal_cap") {
		t.Errorf("expected error to name the unknown key, got %v", err)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
gate:
  default_call_cap: 4
  deep_call_cap: 2
audit:
  backend: "postgres"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gate.DefaultCallCap != DefaultCallCap {
		t.Errorf("expected default call cap %d, got %d", DefaultCallCap, cfg.Gate.DefaultCallCap)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
gate:
  default_call_cap: 3
telemetry:
  logging:
    level: "info"
`)

	t.Setenv("ROUNDTABLE_GATE_DEFAULT_CALL_CAP", "4")
	t.Setenv("ROUNDTABLE_SERVER_LISTEN_ADDRESS", "127.0.0.1:7000")
	t.Setenv("ROUNDTABLE_SESSION_IDLE_TTL", "90m")
	t.Setenv("ROUNDTABLE_AUDIT_ENABLED", "true")
	t.Setenv("ROUNDTABLE_AUDIT_SQLITE_BUSY_TIMEOUT", "2s")
	t.Setenv("ROUNDTABLE_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("ROUNDTABLE_TELEMETRY_METRICS_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Gate.DefaultCallCap != 4 {
		t.Errorf("expected env to override call cap to 4, got %d", cfg.Gate.DefaultCallCap)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:7000" {
		t.Errorf("expected listen address from env, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Session.IdleTTL != 90*time.Minute {
		t.Errorf("expected idle ttl 90m, got %v", cfg.Session.IdleTTL)
	}
	if !cfg.Audit.Enabled {
		t.Error("expected audit to be enabled from env")
	}
	if cfg.Audit.SQLite.BusyTimeout != 2*time.Second {
		t.Errorf("expected busy timeout 2s, got %v", cfg.Audit.SQLite.BusyTimeout)
	}
	if cfg.Audit.SQLite.Path != DefaultAuditSQLitePath {
		t.Errorf("expected sqlite path to keep its default, got %q", cfg.Audit.SQLite.Path)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled from env")
	}
}

func TestLoadConfigWithEnvOverrides_NoFile(t *testing.T) {
	t.Setenv("ROUNDTABLE_GATE_DEEP_CALL_CAP", "10")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gate.DeepCallCap != 10 {
		t.Errorf("expected deep call cap 10, got %d", cfg.Gate.DeepCallCap)
	}
	if cfg.Gate.DefaultCallCap != DefaultCallCap {
		t.Errorf("expected default call cap %d, got %d", DefaultCallCap, cfg.Gate.DefaultCallCap)
	}
}

func TestLoadConfigWithEnvOverrides_BadValue(t *testing.T) {
	t.Setenv("ROUNDTABLE_GATE_DEFAULT_CALL_CAP", "two")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("expected error for non-numeric override")
	}
	if !strings.Contains(err.Error(), "ROUNDTABLE_GATE") {
		t.Errorf("expected error to name the section, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidAfterOverride(t *testing.T) {
	t.Setenv("ROUNDTABLE_TELEMETRY_LOGGING_FORMAT", "xml")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "telemetry.logging.format") {
		t.Errorf("expected error to name telemetry.logging.format, got %v", err)
	}
}
