// Package daemon watches directory trees and re-checks files as they
// change, so tags stay current without rescanning the whole tree.
package daemon

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is how long a file must stay quiet after its last
// write before it is re-checked.
const DefaultDebounceInterval = 500 * time.Millisecond

// CheckFunc is called with the path of a file that settled after changes.
// The watcher invokes it from timer goroutines; implementations that need
// sequential processing must serialize themselves.
type CheckFunc func(path string)

// LogFunc is called to log watcher activity (can be nil for no logging).
type LogFunc func(format string, args ...interface{})

// Watcher monitors directories and triggers re-checks of changed files.
type Watcher struct {
	checkFn          CheckFunc
	logFn            LogFunc
	debounceInterval time.Duration

	watcher   *fsnotify.Watcher
	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once

	// debounce state per file path
	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher that calls checkFn for every file that
// changed and settled.
func NewWatcher(checkFn CheckFunc, logFn LogFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logFn == nil {
		logFn = func(format string, args ...interface{}) {}
	}

	return &Watcher{
		checkFn:          checkFn,
		logFn:            logFn,
		debounceInterval: DefaultDebounceInterval,
		watcher:          fsWatcher,
		stopChan:         make(chan struct{}),
		doneChan:         make(chan struct{}),
		pending:          make(map[string]*time.Timer),
	}, nil
}

// Add watches dir and all directories below it.
func (w *Watcher) Add(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			w.logFn("Warning: could not watch %s: %v", path, err)
		} else {
			w.logFn("Watching: %s", path)
		}
		return nil
	})
}

// Start begins processing filesystem events.
func (w *Watcher) Start() {
	go w.processEvents()
}

// Stop stops the watcher and waits for event processing to finish.
func (w *Watcher) Stop() {
	w.closeOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		// Cancel any pending debounce timers
		w.mu.Lock()
		for _, timer := range w.pending {
			timer.Stop()
		}
		w.pending = nil
		w.mu.Unlock()

		<-w.doneChan
	})
}

// processEvents handles filesystem events.
func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logFn("Watch error: %v", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.cancel(path)
		return
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			// New subdirectory: watch it and everything below.
			if err := w.Add(path); err != nil {
				w.logFn("Warning: could not watch new directory %s: %v", path, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	w.logFn("Change detected: %s", path)
	w.schedule(path)
}

// schedule arms (or re-arms) the debounce timer for a file.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending == nil {
		return
	}
	if timer, exists := w.pending[path]; exists {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(w.debounceInterval, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.checkFn(path)
	})
}

// cancel drops any pending re-check for a removed or renamed file.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
		delete(w.pending, path)
	}
}
