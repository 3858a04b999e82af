package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/config"
)

// backends returns a fresh instance of every backend for conformance tests.
func backends(t *testing.T) map[string]audit.Storage {
	t.Helper()

	out := map[string]audit.Storage{"memory": NewMemoryStorage()}
	for _, driver := range []string{DriverCGO, DriverPureGo} {
		s, err := NewSQLiteStorage(SQLiteConfig{
			Path:         filepath.Join(t.TempDir(), "audit.db"),
			Driver:       driver,
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			WALMode:      true,
			BusyTimeout:  time.Second,
		})
		if err != nil {
			t.Fatalf("NewSQLiteStorage(%s) failed: %v", driver, err)
		}
		out["sqlite/"+driver] = s
	}
	for _, s := range out {
		t.Cleanup(func() { s.Close() })
	}
	return out
}

func record(id, session string, kind audit.Kind, ts time.Time) *audit.Record {
	return &audit.Record{ID: id, SessionID: session, Kind: kind, Timestamp: ts, Allowed: true}
}

func TestStorage_RoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 0, 0, 123456789, time.UTC)
	want := &audit.Record{
		ID:        "r1",
		SessionID: "s1",
		Kind:      audit.KindToolCall,
		Timestamp: ts,
		Intent:    "debugging",
		Personas:  []string{"claude", "codex", "gemini"},
		Plan:      "claude=3,codex=3,gemini=2",
		Tool:      "mcp__alpha__search",
		Provider:  "alpha",
		Allowed:   false,
		Reason:    "provider not selected",
		CallCount: 1,
		Detail:    "blocked",
	}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Store(ctx, want); err != nil {
				t.Fatalf("Store() failed: %v", err)
			}

			got, err := s.Query(ctx, &audit.Query{SessionID: "s1"})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(got))
			}
			if diff := cmp.Diff(want, got[0]); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStorage_QueryFilters(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	since := base.Add(90 * time.Minute)

	tests := []struct {
		name    string
		query   *audit.Query
		wantIDs []string
	}{
		{name: "all newest first", query: nil, wantIDs: []string{"r4", "r3", "r2", "r1"}},
		{name: "by session", query: &audit.Query{SessionID: "s2"}, wantIDs: []string{"r4", "r3"}},
		{name: "by kind", query: &audit.Query{Kind: audit.KindToolCall}, wantIDs: []string{"r3"}},
		{name: "by provider", query: &audit.Query{Provider: "beta"}, wantIDs: []string{"r3"}},
		{name: "since", query: &audit.Query{Since: &since}, wantIDs: []string{"r4", "r3"}},
		{name: "limit", query: &audit.Query{Limit: 2}, wantIDs: []string{"r4", "r3"}},
		{name: "offset", query: &audit.Query{Limit: 2, Offset: 3}, wantIDs: []string{"r1"}},
		{name: "offset past end", query: &audit.Query{Offset: 10}, wantIDs: []string{}},
	}

	for name, s := range backends(t) {
		ctx := context.Background()
		for _, r := range []*audit.Record{
			record("r1", "s1", audit.KindIngest, base),
			record("r2", "s1", audit.KindFinalize, base.Add(time.Hour)),
			{ID: "r3", SessionID: "s2", Kind: audit.KindToolCall, Provider: "beta", Timestamp: base.Add(2 * time.Hour)},
			record("r4", "s2", audit.KindClear, base.Add(3*time.Hour)),
		} {
			if err := s.Store(ctx, r); err != nil {
				t.Fatalf("%s: Store() failed: %v", name, err)
			}
		}

		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := s.Query(ctx, tt.query)
				if err != nil {
					t.Fatalf("Query() failed: %v", err)
				}
				ids := []string{}
				for _, r := range got {
					ids = append(ids, r.ID)
				}
				if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
					t.Errorf("ids mismatch (-want +got):\n%s", diff)
				}
			})
		}

		t.Run(name+"/count", func(t *testing.T) {
			n, err := s.Count(ctx, &audit.Query{SessionID: "s1"})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if n != 2 {
				t.Errorf("Expected 2, got %d", n)
			}
		})
	}
}

func TestStorage_DeleteOlderThan(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, id := range []string{"a", "b", "c"} {
				s.Store(ctx, record(id, "s1", audit.KindIngest, base.Add(time.Duration(i)*time.Hour)))
			}

			deleted, err := s.DeleteOlderThan(ctx, base.Add(90*time.Minute))
			if err != nil {
				t.Fatalf("DeleteOlderThan() failed: %v", err)
			}
			if deleted != 2 {
				t.Errorf("Expected 2 deleted, got %d", deleted)
			}
			if n, _ := s.Count(ctx, nil); n != 1 {
				t.Errorf("Expected 1 remaining, got %d", n)
			}
		})
	}
}

func TestStorage_Ping(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Ping(context.Background()); err != nil {
				t.Errorf("Ping() failed: %v", err)
			}
		})
	}
}

func TestMemoryStorage_Closed(t *testing.T) {
	s := NewMemoryStorage()
	s.Close()

	err := s.Store(context.Background(), record("x", "s1", audit.KindIngest, time.Now()))
	if !errors.Is(err, audit.ErrStorageClosed) {
		t.Errorf("Expected ErrStorageClosed, got %v", err)
	}

	var storageErr *audit.StorageError
	if !errors.As(err, &storageErr) || storageErr.Operation != "store" {
		t.Errorf("Expected StorageError for store, got %v", err)
	}
}

func TestMemoryStorage_StoresCopy(t *testing.T) {
	s := NewMemoryStorage()
	r := record("x", "s1", audit.KindIngest, time.Now())
	r.Personas = []string{"claude"}
	s.Store(context.Background(), r)

	r.Personas[0] = "mutated"
	got, _ := s.Query(context.Background(), nil)
	if got[0].Personas[0] != "claude" {
		t.Errorf("Expected stored copy to be isolated, got %v", got[0].Personas)
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SQLiteConfig
		want    string
		wantErr bool
	}{
		{
			name: "cgo driver",
			cfg:  SQLiteConfig{Path: "a.db", Driver: DriverCGO, WALMode: true, BusyTimeout: 5 * time.Second},
			want: "file:a.db?_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "pure go driver",
			cfg:  SQLiteConfig{Path: "a.db", Driver: DriverPureGo, WALMode: true, BusyTimeout: 2 * time.Second},
			want: "file:a.db?_pragma=busy_timeout%282000%29&_pragma=journal_mode%28WAL%29",
		},
		{
			name: "no wal",
			cfg:  SQLiteConfig{Path: "a.db", Driver: DriverCGO, BusyTimeout: time.Second},
			want: "file:a.db?_busy_timeout=1000",
		},
		{name: "missing path", cfg: SQLiteConfig{Driver: DriverCGO}, wantErr: true},
		{name: "unknown driver", cfg: SQLiteConfig{Path: "a.db", Driver: "pg"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildDSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	s, err := New(config.AuditConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("New(memory) failed: %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("Expected *MemoryStorage, got %T", s)
	}

	s, err = New(config.AuditConfig{
		Backend: "sqlite",
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "a.db"), Driver: "sqlite"},
	})
	if err != nil {
		t.Fatalf("New(sqlite) failed: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStorage); !ok {
		t.Errorf("Expected *SQLiteStorage, got %T", s)
	}

	if _, err := New(config.AuditConfig{Backend: "postgres"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
