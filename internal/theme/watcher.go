package theme

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the user themes directory and reports changed CSS files.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	dir     string
	watcher *fsnotify.Watcher

	onChangeCallback func(name string)

	done    chan struct{}
	stopped chan struct{}
	running bool
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		dir:    dir,
	}
}

// SetChangeCallback sets the callback invoked with the theme name (file
// name without .css) whenever a CSS file in the directory is written,
// created or removed. Partials are reported with their leading underscore.
func (w *Watcher) SetChangeCallback(callback func(name string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start creates the directory if needed and begins watching it.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create theme watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	w.stopped = make(chan struct{})
	w.running = true

	go w.watch()

	w.logger.Debug("theme watcher started", "dir", w.dir)
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.done)
	_ = w.watcher.Close()
	stopped := w.stopped
	w.mu.Unlock()

	<-stopped
	w.logger.Debug("theme watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watch() {
	defer close(w.stopped)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			base := filepath.Base(event.Name)
			if filepath.Ext(base) != ".css" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			name := strings.TrimSuffix(base, ".css")
			w.logger.Debug("theme file changed", "name", name, "op", event.Op.String())

			w.mu.RLock()
			callback := w.onChangeCallback
			w.mu.RUnlock()
			if callback != nil {
				callback(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}
