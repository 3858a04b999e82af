package config

import "time"

// Config is the root configuration for the roundtable engine and its
// host adapters.
type Config struct {
	// Server configures the HTTP host adapter.
	Server ServerConfig `yaml:"server"`

	// Gate configures provider tool-call admission.
	Gate GateConfig `yaml:"gate"`

	// Session configures the in-memory policy store.
	Session SessionConfig `yaml:"session"`

	// Intent configures the keyword table used for classification.
	Intent IntentConfig `yaml:"intent"`

	// Turns configures the persona weight table.
	Turns TurnsConfig `yaml:"turns"`

	// Audit configures the optional decision audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP adapter settings.
type ServerConfig struct {
	// ListenAddress is the host:port the adapter binds to.
	ListenAddress string `yaml:"listen_address" split_words:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" split_words:"true"`

	// MaxBodyBytes caps request bodies accepted by the JSON endpoints.
	MaxBodyBytes int64 `yaml:"max_body_bytes" split_words:"true"`

	// Auth guards the /v1 routes with static API keys.
	Auth AuthConfig `yaml:"auth" envconfig:"AUTH"`
}

// AuthConfig contains API key authentication settings.
type AuthConfig struct {
	Enabled bool `yaml:"enabled" split_words:"true"`

	// Header carries the key (default: Authorization).
	Header string `yaml:"header" split_words:"true"`

	// Scheme is the prefix stripped from Header, e.g. "Bearer". Empty means
	// the header holds the bare key.
	Scheme string `yaml:"scheme" split_words:"true"`

	// Keys lists accepted keys. From the environment, comma-separated.
	Keys []string `yaml:"keys" split_words:"true"`
}

// GateConfig contains provider call caps.
type GateConfig struct {
	// DefaultCallCap is the per-conversation provider call budget.
	DefaultCallCap int `yaml:"default_call_cap" split_words:"true"`

	// DeepCallCap applies when the prompt asks for a deeper investigation.
	DeepCallCap int `yaml:"deep_call_cap" split_words:"true"`
}

// SessionConfig contains policy store settings.
type SessionConfig struct {
	// MaxEntries bounds the number of live conversation policies.
	MaxEntries int `yaml:"max_entries" split_words:"true"`

	// IdleTTL evicts policies untouched for this long. A negative value
	// disables eviction.
	IdleTTL time.Duration `yaml:"idle_ttl" split_words:"true"`

	// CleanupInterval is how often idle policies are swept.
	CleanupInterval time.Duration `yaml:"cleanup_interval" split_words:"true"`
}

// IntentConfig contains intent table settings.
type IntentConfig struct {
	// TableFile is an optional YAML keyword table. Empty uses the built-in table.
	TableFile string `yaml:"table_file" split_words:"true"`

	// Watch reloads TableFile when it changes on disk.
	Watch bool `yaml:"watch" split_words:"true"`

	// DebounceInterval coalesces bursts of file events.
	DebounceInterval time.Duration `yaml:"debounce_interval" split_words:"true"`
}

// TurnsConfig contains persona weight overrides keyed by intent then persona.
type TurnsConfig struct {
	Weights map[string]map[string]int `yaml:"weights" ignored:"true"`
}

// AuditConfig contains audit trail settings.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Backend string `yaml:"backend" split_words:"true"`

	SQLite    SQLiteConfig    `yaml:"sqlite" envconfig:"SQLITE"`
	Recorder  RecorderConfig  `yaml:"recorder" envconfig:"RECORDER"`
	Retention RetentionConfig `yaml:"retention" envconfig:"RETENTION"`
	Query     QueryConfig     `yaml:"query" envconfig:"QUERY"`
}

// SQLiteConfig contains SQLite backend settings.
type SQLiteConfig struct {
	Path string `yaml:"path" split_words:"true"`

	// Driver selects the database/sql driver: "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `yaml:"driver" split_words:"true"`

	MaxOpenConns int           `yaml:"max_open_conns" split_words:"true"`
	MaxIdleConns int           `yaml:"max_idle_conns" split_words:"true"`
	WALMode      bool          `yaml:"wal_mode" split_words:"true"`
	BusyTimeout  time.Duration `yaml:"busy_timeout" split_words:"true"`
}

// RecorderConfig contains async recorder settings.
type RecorderConfig struct {
	AsyncBuffer  int           `yaml:"async_buffer" split_words:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
}

// RetentionConfig contains audit pruning settings.
type RetentionConfig struct {
	// Days to keep records. A negative value keeps records forever.
	Days int `yaml:"days" split_words:"true"`

	// Schedule is a standard 5-field cron expression.
	Schedule string `yaml:"schedule" split_words:"true"`
}

// QueryConfig bounds audit queries.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit" split_words:"true"`
	MaxLimit     int `yaml:"max_limit" split_words:"true"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" split_words:"true"`

	// Format is one of json, text, console.
	Format string `yaml:"format" split_words:"true"`

	AddSource bool `yaml:"add_source" split_words:"true"`

	// RedactPII masks common secrets and personal data in log values.
	RedactPII bool `yaml:"redact_pii" split_words:"true"`

	RedactPatterns []RedactPattern `yaml:"redact_patterns" ignored:"true"`
}

// RedactPattern is an extra redaction rule applied to log values.
type RedactPattern struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" split_words:"true"`
	Path      string `yaml:"path" split_words:"true"`
	Namespace string `yaml:"namespace" split_words:"true"`
	Subsystem string `yaml:"subsystem" split_words:"true"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled" split_words:"true"`
	Endpoint    string `yaml:"endpoint" split_words:"true"`
	ServiceName string `yaml:"service_name" split_words:"true"`

	// Sampler is one of always, never, ratio.
	Sampler     string  `yaml:"sampler" split_words:"true"`
	SampleRatio float64 `yaml:"sample_ratio" split_words:"true"`

	Insecure bool          `yaml:"insecure" split_words:"true"`
	Timeout  time.Duration `yaml:"timeout" split_words:"true"`
}
