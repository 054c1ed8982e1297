package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/transientlabel/internal/config"
	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/theme"
)

// Surface is the complete on-screen label: the layer-shell window and the
// stylesheets applied to its display.
type Surface struct {
	Window *Window
	Loader *theme.Loader

	logger  *slog.Logger
	onTheme func(name string, err error)
	unbind  func()
}

// NewSurface loads the configured theme, applies the stylesheets and
// creates the window bound to l. It must be called on the GTK main thread.
func NewSurface(app *gtk.Application, l *label.Label, cfg *config.DaemonConfig, logger *slog.Logger) (*Surface, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loader := theme.NewLoader(config.ThemesDir(), logger)
	if err := loader.LoadTheme(cfg.Theme.Name); err != nil {
		logger.Warn("failed to load theme, using bundled", "theme", cfg.Theme.Name, "error", err)
	}
	loader.SetStyle(l.Style())

	w, err := NewWindow(app, cfg, logger)
	if err != nil {
		return nil, err
	}

	loader.Apply(nil)
	loader.StartHotReload()

	s := &Surface{
		Window: w,
		Loader: loader,
		logger: logger,
		unbind: Bind(l, w),
	}
	w.Present()
	return s, nil
}

// OnThemeError sets a callback for themes that fail to load on reload.
func (s *Surface) OnThemeError(cb func(name string, err error)) {
	s.onTheme = cb
}

// ApplyConfig updates the window and stylesheets for a reloaded
// configuration. It must be called on the GTK main thread.
func (s *Surface) ApplyConfig(cfg *config.DaemonConfig, change config.Change) {
	if change.Theme {
		if err := s.Loader.LoadTheme(cfg.Theme.Name); err != nil {
			s.logger.Warn("failed to load new theme", "theme", cfg.Theme.Name, "error", err)
			if s.onTheme != nil {
				s.onTheme(cfg.Theme.Name, err)
			}
		}
	}
	if change.Style {
		style := cfg.Style()
		s.Loader.SetStyle(style)
		s.Window.SetStyle(style)
	}
	if change.Display {
		s.Window.SetDisplayConfig(cfg.Display)
	}
	if change.ColorScheme {
		s.Window.SetColorScheme(config.ColorScheme(cfg.Theme.ColorScheme))
	}
}

// Close detaches the window from its label and destroys it.
func (s *Surface) Close() {
	s.Loader.StopHotReload()
	if s.unbind != nil {
		s.unbind()
		s.unbind = nil
	}
	s.Window.Close()
}
