package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the lifecycle event a record describes.
type Kind string

const (
	// KindIngest is a prompt that addressed at least one persona.
	KindIngest Kind = "ingest"
	// KindClear is a prompt that addressed nobody and cleared the policy.
	KindClear Kind = "clear"
	// KindToolCall is a provider tool call decision.
	KindToolCall Kind = "tool_call"
	// KindFinalize is a rewritten final response.
	KindFinalize Kind = "finalize"
)

// Kinds lists every record kind.
var Kinds = []Kind{KindIngest, KindClear, KindToolCall, KindFinalize}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindIngest, KindClear, KindToolCall, KindFinalize:
		return true
	}
	return false
}

// Record is one audit entry.
type Record struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// Panel state at the time of the event.
	Intent   string   `json:"intent,omitempty"`
	Personas []string `json:"personas,omitempty"`
	Plan     string   `json:"plan,omitempty"`

	// Tool call decisions.
	Tool      string `json:"tool,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
	CallCount int    `json:"call_count,omitempty"`

	// Detail is a short free-form note, e.g. the normalizer outcome.
	Detail string `json:"detail,omitempty"`
}

// NewRecord returns a record with a fresh ID and the current UTC time.
func NewRecord(sessionID string, kind Kind) *Record {
	return &Record{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Allowed:   true,
	}
}

// Query filters records. Zero fields match everything.
type Query struct {
	SessionID string
	Kind      Kind
	Provider  string
	Since     *time.Time
	Until     *time.Time

	// Limit caps the result size; zero uses the backend default.
	Limit  int
	Offset int
}

// Matches reports whether r satisfies every filter in q.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.SessionID != "" && r.SessionID != q.SessionID {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Provider != "" && r.Provider != q.Provider {
		return false
	}
	if q.Since != nil && r.Timestamp.Before(*q.Since) {
		return false
	}
	if q.Until != nil && r.Timestamp.After(*q.Until) {
		return false
	}
	return true
}

// Storage persists audit records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store appends a record.
	Store(ctx context.Context, record *Record) error

	// Query returns matching records, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of matching records.
	Count(ctx context.Context, query *Query) (int64, error)

	// DeleteOlderThan removes records with a timestamp before cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
