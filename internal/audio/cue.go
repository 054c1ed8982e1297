package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/transientlabel/internal/config"
	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/visibility"
)

type player interface {
	Load(path string) error
	Play(path string) error
	SetVolume(percent int)
	Invalidate(path string)
	Close()
}

// Cue plays the configured sound each time a label goes from hidden to
// visible. Calls made while the label is already showing are silent.
type Cue struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  player
	watcher *Watcher

	enabled bool
	sound   string
}

// NewCue creates a cue from the [audio] section of cfg.
func NewCue(cfg *config.DaemonConfig, logger *slog.Logger) *Cue {
	if logger == nil {
		logger = slog.Default()
	}
	return newCue(cfg, NewPlayer(logger), NewWatcher(DefaultPollInterval, logger), logger)
}

func newCue(cfg *config.DaemonConfig, p player, w *Watcher, logger *slog.Logger) *Cue {
	c := &Cue{
		logger:  logger,
		player:  p,
		watcher: w,
	}
	w.SetChangeCallback(func(path string) {
		p.Invalidate(path)
	})
	c.Update(cfg)
	return c
}

// Update applies a new configuration, decoding the sound file ahead of the
// next cue.
func (c *Cue) Update(cfg *config.DaemonConfig) {
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	sound := cfg.SoundPath()

	c.mu.Lock()
	old := c.sound
	c.enabled = cfg.Audio.Enabled && sound != ""
	c.sound = sound
	enabled := c.enabled
	c.mu.Unlock()

	c.player.SetVolume(cfg.Audio.Volume)

	if old != sound {
		c.watcher.Unwatch(old)
		c.player.Invalidate(old)
	}
	if !enabled {
		return
	}

	if _, err := os.Stat(sound); err != nil {
		c.logger.Warn("sound file not found", "path", sound)
		return
	}
	if err := c.player.Load(sound); err != nil {
		c.logger.Warn("failed to load sound", "path", sound, "error", err)
	}
	c.watcher.Watch(sound)
}

// Enabled reports whether a sound is played on appearance.
func (c *Cue) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Play plays the sound now if the cue is enabled.
func (c *Cue) Play() error {
	c.mu.RLock()
	enabled, sound := c.enabled, c.sound
	c.mu.RUnlock()

	if !enabled {
		return nil
	}
	return c.player.Play(sound)
}

// Attach plays the cue whenever l appears. The returned function detaches it.
func (c *Cue) Attach(l *label.Label) func() {
	return l.ObserveTransitions(func(s visibility.State) {
		if !s.Visible {
			return
		}
		if err := c.Play(); err != nil {
			c.logger.Warn("failed to play cue", "error", err)
		}
	})
}

// Start starts watching the sound file for changes.
func (c *Cue) Start() {
	c.watcher.Start()
	c.logger.Debug("audio cue started", "enabled", c.Enabled())
}

// Stop stops the watcher and releases the speaker.
func (c *Cue) Stop() {
	c.watcher.Stop()
	c.player.Close()
	c.logger.Debug("audio cue stopped")
}
