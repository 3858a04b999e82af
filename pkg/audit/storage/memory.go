package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"mercator-hq/roundtable/pkg/audit"
)

// DefaultQueryLimit applies when a query does not set Limit.
const DefaultQueryLimit = 100

// MemoryStorage implements audit.Storage in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*audit.Record
	closed  bool
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audit.NewStorageError("memory", "store", audit.ErrStorageClosed)
	}
	s.records = append(s.records, cloneRecord(record))
	return nil
}

// Query returns matching records, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, audit.NewStorageError("memory", "query", audit.ErrStorageClosed)
	}

	results := []*audit.Record{}
	for _, r := range s.records {
		if query.Matches(r) {
			results = append(results, cloneRecord(r))
		}
	}
	slices.SortStableFunc(results, func(a, b *audit.Record) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	limit, offset := DefaultQueryLimit, 0
	if query != nil {
		if query.Limit > 0 {
			limit = query.Limit
		}
		offset = query.Offset
	}
	if offset >= len(results) {
		return []*audit.Record{}, nil
	}
	results = results[offset:]
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, audit.NewStorageError("memory", "count", audit.ErrStorageClosed)
	}

	var n int64
	for _, r := range s.records {
		if query.Matches(r) {
			n++
		}
	}
	return n, nil
}

// DeleteOlderThan removes records stamped before cutoff.
func (s *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, audit.NewStorageError("memory", "delete", audit.ErrStorageClosed)
	}

	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r *audit.Record) bool {
		return r.Timestamp.Before(cutoff)
	})
	return int64(before - len(s.records)), nil
}

// Ping fails once the storage is closed.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return audit.ErrStorageClosed
	}
	return nil
}

// Close drops all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

func cloneRecord(r *audit.Record) *audit.Record {
	cp := *r
	cp.Personas = slices.Clone(r.Personas)
	return &cp
}
