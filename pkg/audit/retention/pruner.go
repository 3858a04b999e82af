package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/config"
)

// Config contains configuration for the pruner.
type Config struct {
	// Days is how long records are kept. Zero or negative keeps them forever.
	Days int

	// Schedule is a standard five-field cron expression, e.g. "0 3 * * *".
	// Empty disables the scheduler.
	Schedule string
}

// ConfigFrom converts the audit.retention configuration section.
func ConfigFrom(cfg config.RetentionConfig) Config {
	return Config{Days: cfg.Days, Schedule: cfg.Schedule}
}

// Pruner deletes expired audit records.
type Pruner struct {
	storage audit.Storage
	config  Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a pruner over storage.
func NewPruner(storage audit.Storage, cfg Config, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		storage: storage,
		config:  cfg,
		logger:  logger.With("component", "audit.retention"),
		now:     time.Now,
	}
}

// Cutoff returns the timestamp before which records expire, or false when
// retention is unlimited.
func (p *Pruner) Cutoff() (time.Time, bool) {
	if p.config.Days <= 0 {
		return time.Time{}, false
	}
	return p.now().AddDate(0, 0, -p.config.Days), true
}

// Prune deletes every record older than the retention period and returns
// the number removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	cutoff, ok := p.Cutoff()
	if !ok {
		p.logger.Debug("retention unlimited, nothing to prune")
		return 0, nil
	}

	deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit records before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if deleted > 0 {
		p.logger.Info("pruned audit records",
			"deleted_count", deleted,
			"retention_days", p.config.Days,
			"cutoff_time", cutoff,
		)
	} else {
		p.logger.Debug("no audit records pruned", "retention_days", p.config.Days)
	}
	return deleted, nil
}
