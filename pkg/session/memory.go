package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// entry is one conversation's slot. mu serializes read-modify-write of
// policy; touched and removed are read under the store lock without mu.
type entry struct {
	mu      sync.Mutex
	policy  *Policy
	touched atomic.Int64
	removed atomic.Bool
}

// MemoryStoreConfig configures a MemoryStore.
type MemoryStoreConfig struct {
	// MaxEntries caps live conversations. The least recently touched policy
	// is evicted to make room. Default: 100,000
	MaxEntries int

	// IdleTTL clears policies untouched for this long. Zero disables the
	// sweep.
	IdleTTL time.Duration

	// CleanupInterval is how often idle policies are swept.
	// Default: 1 minute
	CleanupInterval time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// MemoryStore implements Store in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry

	maxEntries      int
	idleTTL         time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	// onEvict, when set, observes evicted and swept ids.
	onEvict func(id string, reason string)

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewMemoryStore creates a store with default settings and no idle sweep.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithConfig(MemoryStoreConfig{})
}

// NewMemoryStoreWithConfig creates a store and, when IdleTTL is set, starts
// the sweep goroutine. Call Close to stop it.
func NewMemoryStoreWithConfig(cfg MemoryStoreConfig) *MemoryStore {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 100000
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &MemoryStore{
		entries:         make(map[string]*entry),
		maxEntries:      cfg.MaxEntries,
		idleTTL:         cfg.IdleTTL,
		cleanupInterval: cfg.CleanupInterval,
		now:             cfg.Now,
		done:            make(chan struct{}),
	}

	if s.idleTTL > 0 {
		s.wg.Add(1)
		go s.cleanupLoop()
	}
	return s
}

// OnEvict registers fn to observe ids dropped by capacity eviction
// ("capacity") or the idle sweep ("idle"). Call before use.
func (s *MemoryStore) OnEvict(fn func(id, reason string)) {
	s.onEvict = fn
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, id string, policy *Policy) error {
	if id == "" {
		return ErrEmptySessionID
	}
	if policy == nil {
		return ErrNilPolicy
	}
	if s.closed.Load() {
		return ErrStoreClosed
	}

	now := s.now()
	stored := policy.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	e := &entry{policy: stored}
	e.touched.Store(now.UnixNano())

	var evicted string
	s.mu.Lock()
	if old, ok := s.entries[id]; ok {
		old.removed.Store(true)
	} else if len(s.entries) >= s.maxEntries {
		evicted = s.evictOldestLocked()
	}
	s.entries[id] = e
	s.mu.Unlock()

	if evicted != "" && s.onEvict != nil {
		s.onEvict(evicted, "capacity")
	}
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Policy, error) {
	if id == "" {
		return nil, ErrEmptySessionID
	}
	e := s.lookup(id)
	if e == nil {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed.Load() {
		return nil, nil
	}
	return e.policy.Clone(), nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptySessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.removed.Store(true)
		delete(s.entries, id)
	}
	return nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*Policy) error) error {
	if id == "" {
		return ErrEmptySessionID
	}
	e := s.lookup(id)
	if e == nil {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed.Load() {
		return ErrNotFound
	}

	if err := fn(e.policy); err != nil {
		return err
	}
	now := s.now()
	e.policy.UpdatedAt = now
	e.touched.Store(now.UnixNano())
	return nil
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
	})
	s.wg.Wait()
	return nil
}

// Sweep clears every policy idle for longer than the configured TTL and
// returns how many were cleared.
func (s *MemoryStore) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL).UnixNano()

	var swept []string
	s.mu.Lock()
	for id, e := range s.entries {
		if e.touched.Load() < cutoff {
			e.removed.Store(true)
			delete(s.entries, id)
			swept = append(swept, id)
		}
	}
	s.mu.Unlock()

	if s.onEvict != nil {
		for _, id := range swept {
			s.onEvict(id, "idle")
		}
	}
	return len(swept)
}

func (s *MemoryStore) lookup(id string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id]
}

// evictOldestLocked drops the least recently touched entry.
// Caller must hold the write lock.
func (s *MemoryStore) evictOldestLocked() string {
	var (
		oldestID string
		oldest   int64
		found    bool
	)
	for id, e := range s.entries {
		if t := e.touched.Load(); !found || t < oldest {
			oldestID, oldest, found = id, t, true
		}
	}
	if found {
		s.entries[oldestID].removed.Store(true)
		delete(s.entries, oldestID)
	}
	return oldestID
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.done:
			return
		}
	}
}
