// Package watcher emits debounced file system events for a repository root,
// filtered through the project's exclude patterns.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/imyousuf/srcmetrics/internal/ignore"
)

// EventOp represents the type of file system operation.
type EventOp int

const (
	Create EventOp = iota
	Write
	Remove
	Rename
)

// String returns the string representation of EventOp.
func (op EventOp) String() string {
	switch op {
	case Create:
		return "Create"
	case Write:
		return "Write"
	case Remove:
		return "Remove"
	case Rename:
		return "Rename"
	default:
		return "Unknown"
	}
}

// Event represents a file system change event.
type Event struct {
	Path string
	Op   EventOp
	Time time.Time
}

// Config holds configuration for the file system watcher.
type Config struct {
	// Root is the directory watched recursively.
	Root string
	// Matcher excludes paths when non-nil. Excluded directories are not
	// descended into, so changes under them are invisible.
	Matcher *ignore.Matcher
}

// Watcher watches a repository root for changes and emits debounced events.
type Watcher struct {
	cfg    Config
	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	closed bool
}

// New creates a file system watcher for the configured root.
func New(cfg Config) *Watcher {
	return &Watcher{cfg: cfg}
}

// Start begins watching the root and returns a channel of debounced events.
// The channel closes when the context is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	if err := w.addRecursive(w.cfg.Root); err != nil {
		fsw.Close()
		return nil, err
	}

	out := make(chan Event, 100)
	go w.eventLoop(ctx, fsw, out)
	return out, nil
}

// Close shuts down the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && w.cfg.Matcher.MatchDir(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

const debounceWindow = 100 * time.Millisecond

func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Event) {
	defer close(out)

	// Debounce state: map from path to pending event and timer.
	type pending struct {
		event Event
		timer *time.Timer
	}
	pendingEvents := make(map[string]*pending)
	var mu sync.Mutex

	emit := func(evt Event) {
		select {
		case out <- evt:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			// Drain pending timers.
			mu.Lock()
			for _, p := range pendingEvents {
				p.timer.Stop()
			}
			mu.Unlock()
			return

		case fsEvent, ok := <-fsw.Events:
			if !ok {
				return
			}

			// Filter excluded paths.
			if w.cfg.Matcher.Match(fsEvent.Name) {
				continue
			}

			// Convert fsnotify op to our EventOp.
			op, valid := convertOp(fsEvent.Op)
			if !valid {
				continue
			}

			evt := Event{
				Path: fsEvent.Name,
				Op:   op,
				Time: time.Now(),
			}

			// If a new directory is created, add it to the watcher.
			if op == Create {
				if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(fsEvent.Name)
				}
			}

			// Debounce: reset the timer for this path.
			mu.Lock()
			if p, exists := pendingEvents[fsEvent.Name]; exists {
				p.timer.Stop()
				p.event = evt
				p.timer = time.AfterFunc(debounceWindow, func() {
					mu.Lock()
					e := pendingEvents[fsEvent.Name]
					delete(pendingEvents, fsEvent.Name)
					mu.Unlock()
					if e != nil {
						emit(e.event)
					}
				})
			} else {
				p := &pending{event: evt}
				p.timer = time.AfterFunc(debounceWindow, func() {
					mu.Lock()
					e := pendingEvents[fsEvent.Name]
					delete(pendingEvents, fsEvent.Name)
					mu.Unlock()
					if e != nil {
						emit(e.event)
					}
				})
				pendingEvents[fsEvent.Name] = p
			}
			mu.Unlock()

		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
			// Log errors but continue watching.
		}
	}
}

func convertOp(op fsnotify.Op) (EventOp, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return Create, true
	case op.Has(fsnotify.Write):
		return Write, true
	case op.Has(fsnotify.Remove):
		return Remove, true
	case op.Has(fsnotify.Rename):
		return Rename, true
	default:
		return 0, false
	}
}
