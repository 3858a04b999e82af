package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the audit tables. Timestamps are stored as Unix
// nanoseconds so both SQLite drivers round-trip them identically.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    ts INTEGER NOT NULL,

    intent TEXT NOT NULL DEFAULT '',
    personas TEXT NOT NULL DEFAULT '',
    plan TEXT NOT NULL DEFAULT '',

    tool TEXT NOT NULL DEFAULT '',
    provider TEXT NOT NULL DEFAULT '',
    allowed INTEGER NOT NULL DEFAULT 1,
    reason TEXT NOT NULL DEFAULT '',
    call_count INTEGER NOT NULL DEFAULT 0,

    detail TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_session ON audit_records(session_id);
CREATE INDEX IF NOT EXISTS idx_audit_ts ON audit_records(ts);
CREATE INDEX IF NOT EXISTS idx_audit_kind ON audit_records(kind);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const selectSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;`

const recordColumns = `id, session_id, kind, ts, intent, personas, plan, tool, provider, allowed, reason, call_count, detail`
