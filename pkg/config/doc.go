// Package config loads and validates roundtable configuration.
//
// Configuration is read from YAML, overlaid with environment variables and
// validated as a whole:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("roundtable.yaml")
//
// Precedence, from lowest to highest:
//
//  1. Defaults (defaults.go)
//  2. The YAML file
//  3. ROUNDTABLE_<SECTION>_<FIELD> environment variables
//
// Environment variables are mapped with envconfig, one section at a time:
//
//   - ROUNDTABLE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - ROUNDTABLE_GATE_DEFAULT_CALL_CAP overrides gate.default_call_cap
//   - ROUNDTABLE_AUDIT_SQLITE_PATH overrides audit.sqlite.path
//   - ROUNDTABLE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Persona weight overrides (turns.weights) and redaction patterns can only be
// set in the file.
//
// Validation collects every problem into a single ValidationError so that a
// bad file can be fixed in one pass.
package config
