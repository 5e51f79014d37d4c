package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/imyousuf/srcmetrics/internal/ignore"
)

func TestEventDebouncing(t *testing.T) {
	tmpDir := t.TempDir()

	// Create a test file.
	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(Config{Root: tmpDir})
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Give the watcher time to initialize.
	time.Sleep(200 * time.Millisecond)

	// Write to the file multiple times in rapid succession.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(testFile, []byte("content "+string(rune('0'+i))), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for debounce window to pass.
	time.Sleep(300 * time.Millisecond)

	// Collect events that arrived.
	var collected []Event
	timeout := time.After(500 * time.Millisecond)
loop:
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				break loop
			}
			collected = append(collected, evt)
		case <-timeout:
			break loop
		}
	}

	// Due to debouncing, we should get significantly fewer events than the 5
	// writes. Typically 1-2 events (the debounce collapses rapid writes).
	if len(collected) == 0 {
		t.Error("expected at least one debounced event, got none")
	}
	if len(collected) >= 5 {
		t.Errorf("expected debouncing to reduce events, got %d events for 5 writes", len(collected))
	}

	// All events should be for our test file.
	for _, evt := range collected {
		if evt.Path != testFile {
			t.Errorf("unexpected event path: %s", evt.Path)
		}
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	w := New(Config{Root: tmpDir})
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Give the watcher time to initialize.
	time.Sleep(200 * time.Millisecond)

	// Create a new subdirectory and file.
	subDir := filepath.Join(tmpDir, "subdir")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Wait a bit for the directory to be added to the watcher.
	time.Sleep(300 * time.Millisecond)

	newFile := filepath.Join(subDir, "new.txt")
	if err := os.WriteFile(newFile, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce.
	time.Sleep(300 * time.Millisecond)

	// Collect events.
	var collected []Event
	timeout := time.After(500 * time.Millisecond)
loop:
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				break loop
			}
			collected = append(collected, evt)
		case <-timeout:
			break loop
		}
	}

	if len(collected) == 0 {
		t.Error("expected events for new directory/file creation, got none")
	}
}

func TestWatcherExcludedPath(t *testing.T) {
	tmpDir := t.TempDir()

	// Create a node_modules directory with a file.
	nmDir := filepath.Join(tmpDir, "node_modules")
	if err := os.MkdirAll(nmDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nmDir, "pkg.js"), []byte("module"), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(Config{
		Root:    tmpDir,
		Matcher: ignore.New(tmpDir, []string{"node_modules/"}),
	})
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)

	// Write to excluded directory.
	if err := os.WriteFile(filepath.Join(nmDir, "pkg.js"), []byte("updated"), 0644); err != nil {
		t.Fatal(err)
	}

	// Write to non-excluded file.
	srcFile := filepath.Join(tmpDir, "main.go")
	if err := os.WriteFile(srcFile, []byte("package main"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)

	var collected []Event
	timeout := time.After(500 * time.Millisecond)
loop:
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				break loop
			}
			collected = append(collected, evt)
		case <-timeout:
			break loop
		}
	}

	// Verify no events from node_modules.
	for _, evt := range collected {
		if filepath.Dir(evt.Path) == nmDir || evt.Path == nmDir {
			t.Errorf("got event from excluded directory: %s", evt.Path)
		}
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		name   string
		op     fsnotify.Op
		want   EventOp
		wantOk bool
	}{
		{"create", fsnotify.Create, Create, true},
		{"write", fsnotify.Write, Write, true},
		{"remove", fsnotify.Remove, Remove, true},
		{"rename", fsnotify.Rename, Rename, true},
		{"chmod only", fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convertOp(tt.op)
			if ok != tt.wantOk {
				t.Errorf("convertOp(%v) ok = %v, want %v", tt.op, ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("convertOp(%v) = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestEventOpString(t *testing.T) {
	tests := []struct {
		op   EventOp
		want string
	}{
		{Create, "Create"},
		{Write, "Write"},
		{Remove, "Remove"},
		{Rename, "Rename"},
		{EventOp(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.op.String(); got != tt.want {
				t.Errorf("EventOp(%d).String() = %q, want %q", tt.op, got, tt.want)
			}
		})
	}
}
