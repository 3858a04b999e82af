package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RecorderConfig contains configuration for the Recorder.
type RecorderConfig struct {
	// AsyncBuffer is the capacity of the write channel. Default: 1000.
	AsyncBuffer int

	// WriteTimeout bounds each storage write. Default: 5 seconds.
	WriteTimeout time.Duration
}

// Recorder writes audit records to storage from a background goroutine.
// A nil *Recorder accepts and discards records.
type Recorder struct {
	storage Storage
	config  RecorderConfig
	logger  *slog.Logger

	records chan *Record
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	onDrop func(*Record)
}

// NewRecorder starts a recorder writing to storage.
func NewRecorder(storage Storage, cfg RecorderConfig, logger *slog.Logger) *Recorder {
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = 1000
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage: storage,
		config:  cfg,
		logger:  logger.With("component", "audit.recorder"),
		records: make(chan *Record, cfg.AsyncBuffer),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("audit recorder started",
		"async_buffer", cfg.AsyncBuffer,
		"write_timeout", cfg.WriteTimeout,
	)
	return r
}

// OnDrop registers a callback invoked when a record is discarded because
// the buffer is full. Must be called before the first Record.
func (r *Recorder) OnDrop(fn func(*Record)) {
	r.onDrop = fn
}

// Record enqueues record without blocking. A full buffer drops the record
// and logs a warning; the returned error is only ErrRecorderClosed.
func (r *Recorder) Record(ctx context.Context, record *Record) error {
	if r == nil || record == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrRecorderClosed
	}

	select {
	case r.records <- record:
	default:
		r.logger.WarnContext(ctx, "audit buffer full, dropping record",
			"record_id", record.ID,
			"kind", record.Kind,
			"capacity", cap(r.records),
		)
		if r.onDrop != nil {
			r.onDrop(record)
		}
	}
	return nil
}

// Close stops accepting records, writes everything already queued and
// waits for the writer to exit. It does not close the storage.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.records)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Debug("audit recorder stopped")
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for record := range r.records {
		r.write(record)
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"session_id", record.SessionID,
			"error", err,
		)
		return
	}

	if d := time.Since(start); d > r.config.WriteTimeout/2 {
		r.logger.Warn("slow audit write",
			"record_id", record.ID,
			"duration_ms", d.Milliseconds(),
		)
	}
}
