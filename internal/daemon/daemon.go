package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/transientlabel/internal/audio"
	"github.com/jmylchreest/transientlabel/internal/config"
	"github.com/jmylchreest/transientlabel/internal/dbus"
	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// Renderer applies configuration changes to the on-screen label.
// ApplyConfig is called on the dispatcher goroutine.
type Renderer interface {
	ApplyConfig(cfg *config.DaemonConfig, change config.Change)
}

// Emitter broadcasts label transitions.
type Emitter interface {
	EmitVisibilityChanged(visible bool, text string) error
}

// Options configures a Daemon.
type Options struct {
	Config     *config.DaemonConfig // Defaults to config.DefaultDaemonConfig
	ConfigPath string               // Watched for changes; empty disables hot-reload
	Version    string

	// Dispatcher runs a function on the goroutine that owns the renderer,
	// glib.IdleAdd for GTK. Nil runs functions inline.
	Dispatcher func(func())
	Logger     *slog.Logger
}

// Daemon owns the label and everything that drives or observes it.
type Daemon struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	dispatch func(func())

	cfg      *config.DaemonConfig
	label    *label.Label
	server   *dbus.Server
	emitter  Emitter
	cue      *audio.Cue
	watcher  *config.Watcher
	notifier *Notifier
	renderer Renderer

	detach  []func()
	running bool
}

// New creates a daemon with a hidden label. Nothing is exported on the bus
// until Start.
func New(opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	dispatch := opts.Dispatcher
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}

	l, err := label.New(label.Options{
		Delay:      cfg.Label.Delay.Duration(),
		Style:      cfg.Style(),
		Dispatcher: opts.Dispatcher,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}

	server := dbus.NewServer(l, logger)
	info := dbus.DefaultServerInfo()
	if opts.Version != "" {
		info.Version = opts.Version
	}
	server.SetServerInfo(info)

	d := &Daemon{
		logger:   logger,
		dispatch: dispatch,
		cfg:      cfg,
		label:    l,
		server:   server,
		emitter:  server,
		cue:      audio.NewCue(cfg, logger),
		notifier: NewNotifier(logger),
	}
	if opts.ConfigPath != "" {
		d.watcher = config.NewWatcher(opts.ConfigPath, logger)
		d.watcher.SetReloadCallback(func(newConfig *config.DaemonConfig) {
			d.dispatch(func() { d.Reload(newConfig) })
		})
		d.watcher.SetErrorCallback(func(err error) {
			d.notifier.NotifyConfigError(err)
		})
	}
	return d, nil
}

// Label returns the daemon's label.
func (d *Daemon) Label() *label.Label {
	return d.label
}

// Config returns the configuration currently in effect.
func (d *Daemon) Config() *config.DaemonConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Notifier returns the desktop notifier used for daemon errors.
func (d *Daemon) Notifier() *Notifier {
	return d.notifier
}

// SetRenderer sets the renderer that receives configuration changes.
func (d *Daemon) SetRenderer(r Renderer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renderer = r
}

// Start claims the bus name, then starts the audio cue and the config
// watcher. Only a bus failure is fatal.
func (d *Daemon) Start() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("daemon already running")
	}
	d.running = true
	cfg := d.cfg
	d.mu.Unlock()

	if err := d.server.Start(); err != nil {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
		return fmt.Errorf("failed to start D-Bus server: %w", err)
	}

	d.attach()
	d.cue.Start()

	if d.watcher != nil {
		if err := d.watcher.Start(cfg); err != nil {
			d.logger.Warn("failed to start config watcher", "error", err)
		}
	}

	d.logger.Info("transientlabeld ready", "dbus_interface", dbus.Interface, "delay", d.label.Delay())
	return nil
}

// attach connects the label transitions to the bus signal and the cue.
func (d *Daemon) attach() {
	d.mu.Lock()
	defer d.mu.Unlock()

	emitter := d.emitter
	d.detach = append(d.detach,
		d.label.ObserveTransitions(func(s visibility.State) {
			if err := emitter.EmitVisibilityChanged(s.Visible, s.Text); err != nil {
				d.logger.Warn("failed to emit visibility signal", "visible", s.Visible, "error", err)
			}
		}),
		d.cue.Attach(d.label),
	)
}

// Stop releases the bus name, stops watchers and closes the label so that
// no hide fires afterwards. Stop is idempotent.
func (d *Daemon) Stop() {
	d.mu.Lock()
	wasRunning := d.running
	d.running = false
	detach := d.detach
	d.detach = nil
	d.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if wasRunning {
		d.cue.Stop()
		if err := d.server.Stop(); err != nil {
			d.logger.Warn("error stopping D-Bus server", "error", err)
		}
	}
	d.label.Close()
	d.logger.Info("transientlabeld stopped")
}

// Reload applies a new configuration. It must run on the dispatcher
// goroutine. The hide delay only changes after a restart.
func (d *Daemon) Reload(newConfig *config.DaemonConfig) {
	if newConfig == nil {
		return
	}

	d.mu.Lock()
	old := d.cfg
	change := config.Diff(old, newConfig)
	d.cfg = newConfig
	renderer := d.renderer
	d.mu.Unlock()

	if !change.Any() {
		d.logger.Debug("config reloaded without changes")
		return
	}

	if change.Delay {
		d.logger.Warn("label delay changed, restart transientlabeld to apply",
			"current", d.label.Delay(),
			"configured", newConfig.Label.Delay.Duration(),
		)
	}
	if change.Style {
		if err := d.label.SetStyle(newConfig.Style()); err != nil {
			d.logger.Warn("failed to apply label style", "error", err)
			d.notifier.NotifyConfigError(err)
		}
	}
	if change.Audio {
		d.cue.Update(newConfig)
	}
	if renderer != nil {
		renderer.ApplyConfig(newConfig, change)
	}

	d.logger.Info("config reloaded",
		"style", change.Style,
		"display", change.Display,
		"theme", change.Theme,
		"audio", change.Audio,
	)
}
