package audio

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultPollInterval is how often watched sound files are checked.
const DefaultPollInterval = 2 * time.Second

// Watcher polls sound files and reports the ones whose modification time
// moved forward. Sound files are often symlinks into a theme directory, so
// stat polling is used instead of directory events.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	interval time.Duration
	modTimes map[string]time.Time
	onChange func(path string)

	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher polling every interval. A non-positive
// interval uses DefaultPollInterval.
func NewWatcher(interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		logger:   logger,
		interval: interval,
		modTimes: make(map[string]time.Time),
	}
}

// SetChangeCallback sets the function called with each changed path.
func (w *Watcher) SetChangeCallback(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Watch adds path, remembering its current modification time.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.modTimes[path] = modTime(path)
}

// Unwatch removes path.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.modTimes, path)
}

// Start begins polling. Calling Start on a running watcher does nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(w.stop, w.done)
	w.logger.Debug("sound watcher started", "interval", w.interval)
}

// Stop stops polling and waits for the poll loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	<-done
	w.logger.Debug("sound watcher stopped")
}

func (w *Watcher) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	w.mu.Lock()
	var changed []string
	for path, last := range w.modTimes {
		if mt := modTime(path); mt.After(last) {
			w.modTimes[path] = mt
			changed = append(changed, path)
		}
	}
	fn := w.onChange
	w.mu.Unlock()

	for _, path := range changed {
		w.logger.Debug("sound file changed", "path", path)
		if fn != nil {
			fn(path)
		}
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
