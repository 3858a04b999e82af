package storage

import (
	"fmt"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/config"
)

// New opens the backend selected by cfg.Backend.
func New(cfg config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		return NewSQLiteStorage(SQLiteConfigFrom(cfg.SQLite))
	default:
		return nil, fmt.Errorf("unsupported audit backend %q", cfg.Backend)
	}
}
