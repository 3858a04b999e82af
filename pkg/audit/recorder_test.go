package audit_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/audit/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockingStorage holds every Store call until release is closed.
type blockingStorage struct {
	*storage.MemoryStorage
	release chan struct{}
	entered chan struct{}
	once    sync.Once
}

func newBlockingStorage() *blockingStorage {
	return &blockingStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		release:       make(chan struct{}),
		entered:       make(chan struct{}),
	}
}

func (s *blockingStorage) Store(ctx context.Context, r *audit.Record) error {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.MemoryStorage.Store(ctx, r)
}

func waitForCount(t *testing.T, s audit.Storage, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := s.Count(context.Background(), nil)
		if err != nil {
			t.Fatalf("Count() failed: %v", err)
		}
		if n == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d records, got %d", want, n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRecorder_WritesRecords(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := audit.NewRecorder(store, audit.RecorderConfig{AsyncBuffer: 10}, nil)

	for i := 0; i < 5; i++ {
		if err := rec.Record(context.Background(), audit.NewRecord("s1", audit.KindIngest)); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	waitForCount(t, store, 5)
}

func TestRecorder_CloseDrainsQueue(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := audit.NewRecorder(store, audit.RecorderConfig{AsyncBuffer: 100}, nil)

	for i := 0; i < 50; i++ {
		rec.Record(context.Background(), audit.NewRecord("s1", audit.KindToolCall))
	}
	rec.Close()

	n, _ := store.Count(context.Background(), nil)
	if n != 50 {
		t.Errorf("Expected 50 records after Close, got %d", n)
	}
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	store := newBlockingStorage()
	rec := audit.NewRecorder(store, audit.RecorderConfig{AsyncBuffer: 1}, nil)

	var dropped atomic.Int32
	rec.OnDrop(func(*audit.Record) { dropped.Add(1) })

	// First record is taken by the worker, which then blocks in Store.
	rec.Record(context.Background(), audit.NewRecord("s1", audit.KindIngest))
	<-store.entered

	// Second fills the buffer; the rest are dropped without blocking.
	for i := 0; i < 4; i++ {
		if err := rec.Record(context.Background(), audit.NewRecord("s1", audit.KindIngest)); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	if got := dropped.Load(); got != 3 {
		t.Errorf("Expected 3 dropped records, got %d", got)
	}

	close(store.release)
	rec.Close()
	waitForCount(t, store, 2)
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	rec := audit.NewRecorder(storage.NewMemoryStorage(), audit.RecorderConfig{}, nil)
	rec.Close()

	err := rec.Record(context.Background(), audit.NewRecord("s1", audit.KindIngest))
	if !errors.Is(err, audit.ErrRecorderClosed) {
		t.Errorf("Expected ErrRecorderClosed, got %v", err)
	}

	if err := rec.Close(); err != nil {
		t.Errorf("Expected second Close to succeed, got %v", err)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var rec *audit.Recorder
	if err := rec.Record(context.Background(), audit.NewRecord("s1", audit.KindIngest)); err != nil {
		t.Errorf("Expected nil recorder to accept records, got %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("Expected nil recorder Close to succeed, got %v", err)
	}
}

func TestRecorder_StoreErrorIsLogged(t *testing.T) {
	store := storage.NewMemoryStorage()
	store.Close()

	rec := audit.NewRecorder(store, audit.RecorderConfig{}, nil)
	if err := rec.Record(context.Background(), audit.NewRecord("s1", audit.KindIngest)); err != nil {
		t.Fatalf("Expected storage errors to stay off the caller path, got %v", err)
	}
	rec.Close()
}

func TestQuery_Matches(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	r := &audit.Record{SessionID: "s1", Kind: audit.KindToolCall, Provider: "alpha", Timestamp: now}

	tests := []struct {
		name  string
		query *audit.Query
		want  bool
	}{
		{name: "nil query", query: nil, want: true},
		{name: "empty query", query: &audit.Query{}, want: true},
		{name: "session match", query: &audit.Query{SessionID: "s1"}, want: true},
		{name: "session mismatch", query: &audit.Query{SessionID: "s2"}, want: false},
		{name: "kind mismatch", query: &audit.Query{Kind: audit.KindIngest}, want: false},
		{name: "provider match", query: &audit.Query{Provider: "alpha"}, want: true},
		{name: "since", query: &audit.Query{Since: &earlier}, want: true},
		{name: "until", query: &audit.Query{Until: &earlier}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Matches(r); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range audit.Kinds {
		if !k.Valid() {
			t.Errorf("Expected %q to be valid", k)
		}
	}
	if audit.Kind("bogus").Valid() {
		t.Error("Expected unknown kind to be invalid")
	}
}
