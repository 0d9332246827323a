package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSceneWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte("name: test\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("name: changed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Errorf("unexpected event path %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no event within timeout")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		t.Errorf("unexpected event for %q", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseWithEventsBacklogged(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}

	// Overflow the event buffer without reading, so the forwarder is
	// blocked mid-send when Close arrives.
	for i := 0; i < 2*cap(w.Events); i++ {
		name := filepath.Join(dir, fmt.Sprintf("scene%02d.yaml", i))
		if err := os.WriteFile(name, []byte("name: x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(200 * time.Millisecond)

	if err := w.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return // channel closed cleanly, no panic
			}
		case <-deadline:
			t.Fatal("events channel never closed")
		}
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}
