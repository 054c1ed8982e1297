package theme

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/transientlabel/internal/label"
)

// Loader applies a theme and the generated label style to a display, with
// hot-reload of user themes. Methods other than StartHotReload/StopHotReload
// must be called on the GTK main thread.
type Loader struct {
	mu            sync.RWMutex
	logger        *slog.Logger
	themeProvider *gtk.CSSProvider
	styleProvider *gtk.CSSProvider
	themesDir     string
	currentName   string
	theme         *Theme
	watcher       *Watcher
}

// NewLoader creates a theme loader that looks for user themes in themesDir.
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		logger:        logger,
		themeProvider: gtk.NewCSSProvider(),
		styleProvider: gtk.NewCSSProvider(),
		themesDir:     themesDir,
	}
}

// LoadTheme loads a theme by name.
// Theme resolution order:
//  1. User themes directory (~/.config/transientlabel/themes/)
//  2. Embedded/bundled themes
//  3. The default theme
func (l *Loader) LoadTheme(name string) error {
	theme, found, err := Resolve(name, l.themesDir)
	if err != nil {
		l.logger.Warn("failed to load user theme, using bundled", "theme", name, "error", err)
	}
	if !found {
		l.logger.Warn("theme not found, using default", "theme", name, "available", l.available())
	}

	l.mu.Lock()
	l.theme = theme
	l.currentName = theme.Name
	l.mu.Unlock()

	l.themeProvider.LoadFromString(theme.CSS)
	l.logger.Info("loaded theme", "name", theme.Name, "path", theme.Path, "builtin", theme.Builtin)
	return err
}

// SetStyle regenerates the label stylesheet.
func (l *Loader) SetStyle(style label.Style) {
	l.styleProvider.LoadFromString(GenerateCSS(style))
	l.logger.Debug("applied label style", "background", style.Background.Kind)
}

// Apply installs both stylesheets on display. The label style is layered
// above the theme so config values win.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	gtk.StyleContextAddProviderForDisplay(display, l.themeProvider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	gtk.StyleContextAddProviderForDisplay(display, l.styleProvider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION+1)
	l.logger.Debug("applied theme to display", "name", l.CurrentTheme())
}

// Reload reloads the current theme from disk.
func (l *Loader) Reload() error {
	return l.LoadTheme(l.CurrentTheme())
}

// StartHotReload watches the user themes directory. Changes to the current
// theme or to any partial reload it on the GTK main thread.
func (l *Loader) StartHotReload() {
	if l.themesDir == "" {
		return
	}
	// The callback takes l.mu, so the old watcher is stopped unlocked.
	l.StopHotReload()

	w := NewWatcher(l.themesDir, l.logger)
	w.SetChangeCallback(func(name string) {
		if name != l.CurrentTheme() && !strings.HasPrefix(name, "_") {
			return
		}
		glib.IdleAdd(func() {
			if err := l.Reload(); err == nil {
				l.logger.Info("hot-reloaded theme", "name", l.CurrentTheme())
			}
		})
	})

	if err := w.Start(); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
		return
	}

	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()
}

// StopHotReload stops watching for theme changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// GetTheme returns the currently loaded theme.
func (l *Loader) GetTheme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// available lists the names LoadTheme accepts.
func (l *Loader) available() []string {
	entries, err := List(l.themesDir)
	if err != nil {
		l.logger.Debug("failed to list user themes", "error", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentName
}
