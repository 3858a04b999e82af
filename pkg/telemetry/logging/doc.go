// Package logging configures log/slog for roundtable.
//
// New returns a *slog.Logger with the configured level and format (json,
// text or console). Records logged with a context pick up the conversation
// and request identifiers stored by WithSessionID and WithRequestID. With
// RedactPII enabled, string values are scanned for bearer tokens, API keys,
// passwords, emails and similar data, and values under sensitive keys are
// masked.
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger)
package logging
