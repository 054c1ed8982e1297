package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the daemon config file and reloads it on change.
// A file that fails to parse or validate is reported and the last valid
// config stays current.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	watcher    *fsnotify.Watcher
	configPath string

	currentConfig *DaemonConfig

	onReloadCallback func(newConfig *DaemonConfig)
	onErrorCallback  func(err error)

	done    chan struct{}
	stopped chan struct{}
	running bool
}

// NewWatcher creates a Watcher for path, or for DaemonConfigPath when path is empty.
func NewWatcher(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DaemonConfigPath()
	}

	return &Watcher{
		logger:     logger,
		configPath: path,
	}
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.configPath
}

// SetReloadCallback sets the callback to invoke when config is successfully reloaded.
func (w *Watcher) SetReloadCallback(callback func(newConfig *DaemonConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReloadCallback = callback
}

// SetErrorCallback sets the callback to invoke when config reload fails validation.
func (w *Watcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onErrorCallback = callback
}

// Start begins watching. initialConfig is returned by Current until the
// first successful reload.
func (w *Watcher) Start(initialConfig *DaemonConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	// Watch the directory containing the file; editors replace files on save.
	dir := filepath.Dir(w.configPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.watcher = watcher
	w.currentConfig = initialConfig
	w.done = make(chan struct{})
	w.stopped = make(chan struct{})
	w.running = true

	go w.watch()

	w.logger.Debug("config watcher started", "path", w.configPath)
	return nil
}

// Stop stops watching the config file.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.done)
	err := w.watcher.Close()
	stopped := w.stopped
	w.mu.Unlock()

	<-stopped
	if err != nil {
		w.logger.Debug("config watcher close failed", "error", err)
	}
	w.logger.Debug("config watcher stopped")
}

// Current returns the current valid configuration.
func (w *Watcher) Current() *DaemonConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentConfig
}

func (w *Watcher) watch() {
	defer close(w.stopped)

	filename := filepath.Base(w.configPath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	w.mu.RLock()
	reloadCallback := w.onReloadCallback
	errorCallback := w.onErrorCallback
	w.mu.RUnlock()

	w.logger.Debug("config file changed", "path", w.configPath)

	newConfig, err := LoadDaemonConfig(w.configPath)
	if err != nil {
		w.logger.Warn("config file changed but validation failed", "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.currentConfig = newConfig
	w.mu.Unlock()

	w.logger.Info("config reloaded")
	if reloadCallback != nil {
		reloadCallback(newConfig)
	}
}
