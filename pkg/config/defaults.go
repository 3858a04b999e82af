package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8787"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultAuthHeader      = "Authorization"
	DefaultAuthScheme      = "Bearer"

	// Gate defaults
	DefaultCallCap     = 2
	DefaultDeepCallCap = 6

	// Session defaults
	DefaultSessionMaxEntries      = 100000
	DefaultSessionIdleTTL         = 24 * time.Hour
	DefaultSessionCleanupInterval = time.Minute

	// Intent defaults
	DefaultIntentDebounceInterval = 100 * time.Millisecond

	// Audit defaults
	DefaultAuditEnabled            = false
	DefaultAuditBackend            = "memory"
	DefaultAuditSQLitePath         = "data/audit.db"
	DefaultAuditSQLiteDriver       = "sqlite3"
	DefaultAuditSQLiteMaxOpenConns = 10
	DefaultAuditSQLiteMaxIdleConns = 5
	DefaultAuditSQLiteWALMode      = true
	DefaultAuditSQLiteBusyTimeout  = 5 * time.Second
	DefaultAuditAsyncBuffer        = 1000
	DefaultAuditWriteTimeout       = 5 * time.Second
	DefaultAuditRetentionDays      = 30
	DefaultAuditRetentionSchedule  = "0 3 * * *"
	DefaultAuditQueryDefaultLimit  = 100
	DefaultAuditQueryMaxLimit      = 10000

	// Telemetry defaults
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultLogRedactPII       = true
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "roundtable"
	DefaultTracingEnabled     = false
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "roundtable"
	DefaultTracingSampler     = "ratio"
	DefaultTracingRatio       = 1.0
	DefaultTracingTimeout     = 10 * time.Second
)

// NewDefaultConfig returns a configuration populated with default values,
// including the boolean defaults that ApplyDefaults cannot distinguish from
// an explicit false.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Audit.Enabled = DefaultAuditEnabled
	cfg.Audit.SQLite.WALMode = DefaultAuditSQLiteWALMode
	cfg.Telemetry.Logging.RedactPII = DefaultLogRedactPII
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Fields that are
// already set are left alone.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyGateDefaults(&cfg.Gate)
	applySessionDefaults(&cfg.Session)
	applyIntentDefaults(&cfg.Intent)
	applyAuditDefaults(&cfg.Audit)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Auth.Header == "" {
		cfg.Auth.Header = DefaultAuthHeader
		if cfg.Auth.Scheme == "" {
			cfg.Auth.Scheme = DefaultAuthScheme
		}
	}
}

func applyGateDefaults(cfg *GateConfig) {
	if cfg.DefaultCallCap == 0 {
		cfg.DefaultCallCap = DefaultCallCap
	}
	if cfg.DeepCallCap == 0 {
		cfg.DeepCallCap = DefaultDeepCallCap
	}
}

func applySessionDefaults(cfg *SessionConfig) {
	if cfg.MaxEntries == 0 {
		cfg.MaxEntries = DefaultSessionMaxEntries
	}
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = DefaultSessionIdleTTL
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = DefaultSessionCleanupInterval
	}
}

func applyIntentDefaults(cfg *IntentConfig) {
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = DefaultIntentDebounceInterval
	}
}

func applyAuditDefaults(cfg *AuditConfig) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultAuditBackend
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DefaultAuditSQLitePath
	}
	if cfg.SQLite.Driver == "" {
		cfg.SQLite.Driver = DefaultAuditSQLiteDriver
	}
	if cfg.SQLite.MaxOpenConns == 0 {
		cfg.SQLite.MaxOpenConns = DefaultAuditSQLiteMaxOpenConns
	}
	if cfg.SQLite.MaxIdleConns == 0 {
		cfg.SQLite.MaxIdleConns = DefaultAuditSQLiteMaxIdleConns
	}
	if cfg.SQLite.BusyTimeout == 0 {
		cfg.SQLite.BusyTimeout = DefaultAuditSQLiteBusyTimeout
	}
	if cfg.Recorder.AsyncBuffer == 0 {
		cfg.Recorder.AsyncBuffer = DefaultAuditAsyncBuffer
	}
	if cfg.Recorder.WriteTimeout == 0 {
		cfg.Recorder.WriteTimeout = DefaultAuditWriteTimeout
	}
	if cfg.Retention.Days == 0 {
		cfg.Retention.Days = DefaultAuditRetentionDays
	}
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultAuditRetentionSchedule
	}
	if cfg.Query.DefaultLimit == 0 {
		cfg.Query.DefaultLimit = DefaultAuditQueryDefaultLimit
	}
	if cfg.Query.MaxLimit == 0 {
		cfg.Query.MaxLimit = DefaultAuditQueryMaxLimit
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
		if cfg.Tracing.SampleRatio == 0 {
			cfg.Tracing.SampleRatio = DefaultTracingRatio
		}
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}
}
