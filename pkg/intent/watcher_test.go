package intent

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, sampleTable)

	c := NewDefaultClassifier()
	w, err := NewWatcher(WatcherConfig{Path: path, DebounceInterval: 10 * time.Millisecond}, c, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	reloaded := make(chan error, 16)
	w.OnReload(func(err error) { reloaded <- err })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	updated := "intents:\n  design:\n    - name: motion\n      patterns: [animation]\n"
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

wait:
	for {
		select {
		case err := <-reloaded:
			if err != nil {
				t.Fatalf("Reload reported error: %v", err)
			}
			break wait
		case <-ticker.C:
			// Keep writing until the watcher has registered the directory.
			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				t.Fatalf("Failed to update table: %v", err)
			}
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
	}

	if got := c.Classify("page animation"); got != Design {
		t.Errorf("Expected design after reload, got %s", got)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Watch returned error: %v", err)
	}
}

func TestWatcher_BadReloadKeepsTable(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, sampleTable)

	c, err := NewKeywordClassifier(nil)
	if err != nil {
		t.Fatalf("NewKeywordClassifier failed: %v", err)
	}
	w, err := NewWatcher(WatcherConfig{Path: path, DebounceInterval: 10 * time.Millisecond}, c, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	reloaded := make(chan error, 16)
	w.OnReload(func(err error) { reloaded <- err })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

wait:
	for {
		select {
		case err := <-reloaded:
			if err == nil {
				t.Fatal("Expected reload error for invalid table")
			}
			break wait
		case <-ticker.C:
			if err := os.WriteFile(path, []byte("intents: ["), 0o644); err != nil {
				t.Fatalf("Failed to update table: %v", err)
			}
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
	}

	if got := c.Classify("api latency"); got != Backend {
		t.Errorf("Expected default table to remain active, got %s", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestNewWatcher_Validation(t *testing.T) {
	if _, err := NewWatcher(WatcherConfig{}, NewDefaultClassifier(), nil); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := NewWatcher(WatcherConfig{Path: "x.yaml"}, nil, nil); err == nil {
		t.Error("Expected error for nil target")
	}
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	calls := make(chan int, 10)
	for i := 0; i < 5; i++ {
		n := i
		d.Trigger(func() { calls <- n })
	}

	select {
	case n := <-calls:
		if n != 4 {
			t.Errorf("Expected last callback to run, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Debounced callback never ran")
	}

	select {
	case n := <-calls:
		t.Errorf("Expected a single callback, got extra %d", n)
	case <-time.After(60 * time.Millisecond):
	}
}
