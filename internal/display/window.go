package display

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/transientlabel/internal/config"
	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/layout"
	"github.com/jmylchreest/transientlabel/internal/theme"
	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// Namespace is the layer-shell namespace, used by compositors for rules
// such as background blur.
const Namespace = "transientlabel"

// Window is a layer-shell window showing one label. All methods must be
// called on the GTK main thread.
type Window struct {
	window *gtk.Window
	box    *gtk.Box
	text   *gtk.Label
	logger *slog.Logger

	display     config.DisplayConfig
	colorScheme config.ColorScheme
	bgClasses   []string
	schemeClass string

	onClick func()

	visible bool
	closed  bool
}

// NewWindow creates the label window. It is presented immediately in the
// hidden state so that the first Display only toggles CSS classes.
func NewWindow(app *gtk.Application, cfg *config.DaemonConfig, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	if gdk.DisplayGetDefault() == nil {
		return nil, &DisplayError{Message: "no display available"}
	}
	if !layershell.IsSupported() {
		return nil, &DisplayError{Message: "compositor does not support wlr-layer-shell"}
	}

	w := &Window{
		logger:      logger,
		display:     cfg.Display,
		colorScheme: config.ColorScheme(cfg.Theme.ColorScheme),
	}

	w.window = gtk.NewWindow()
	w.window.SetApplication(app)
	w.window.SetDecorated(false)
	w.window.SetResizable(false)
	w.window.AddCSSClass(theme.ClassWindow)

	layershell.InitForWindow(w.window)
	layershell.SetLayer(w.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(w.window, 0)
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.window, Namespace)

	w.buildUI()
	w.connectSignals()
	w.SetStyle(cfg.Style())
	w.applyColorScheme()
	w.applyPlacement()

	return w, nil
}

func (w *Window) buildUI() {
	w.box = gtk.NewBox(gtk.OrientationVertical, 0)
	w.box.AddCSSClass(theme.ClassContainer)
	w.box.AddCSSClass(theme.StateClass(false))

	w.text = gtk.NewLabel("")
	w.text.AddCSSClass(theme.ClassText)
	w.text.SetXAlign(0.5)
	w.text.SetSingleLineMode(true)

	w.box.Append(w.text)
	w.window.SetChild(w.box)
}

func (w *Window) connectSignals() {
	// A click shows the current text again.
	clickCtrl := gtk.NewGestureClick()
	clickCtrl.SetButton(0)
	clickCtrl.ConnectReleased(func(nPress int, x, y float64) {
		if w.onClick != nil {
			w.onClick()
		}
	})
	w.window.AddController(clickCtrl)

	styleManager := adw.StyleManagerGetDefault()
	styleManager.NotifyProperty("dark", func() {
		if w.colorScheme == config.ColorSchemeSystem || w.colorScheme == "" {
			w.applyColorScheme()
		}
	})
}

// OnClick sets the click handler.
func (w *Window) OnClick(cb func()) {
	w.onClick = cb
}

// Render mirrors a visibility snapshot: the text is replaced and the
// visible/hidden classes are swapped, which starts the CSS transition.
func (w *Window) Render(s visibility.State) {
	if w.closed {
		return
	}

	if w.text.Text() != s.Text {
		w.text.SetText(s.Text)
	}

	if s.Visible != w.visible {
		w.box.RemoveCSSClass(theme.StateClass(w.visible))
		w.box.AddCSSClass(theme.StateClass(s.Visible))
		w.visible = s.Visible
		w.logger.Debug("label visibility changed", "visible", s.Visible, "text_len", len(s.Text))
	}
}

// SetStyle updates the widget classes that depend on the label style.
// Colors, font and transitions come from the stylesheet (theme.Loader).
func (w *Window) SetStyle(style label.Style) {
	for _, class := range w.bgClasses {
		w.box.RemoveCSSClass(class)
	}
	w.bgClasses = theme.BackgroundClasses(style.Background)
	for _, class := range w.bgClasses {
		w.box.AddCSSClass(class)
	}
}

// SetDisplayConfig moves the window to a new position or monitor.
func (w *Window) SetDisplayConfig(cfg config.DisplayConfig) {
	w.display = cfg
	w.applyPlacement()
}

// SetColorScheme overrides the light/dark preference.
func (w *Window) SetColorScheme(scheme config.ColorScheme) {
	w.colorScheme = scheme
	w.applyColorScheme()
}

// Present maps the window.
func (w *Window) Present() {
	if !w.closed {
		w.window.Present()
	}
}

// Close destroys the window. Further calls are ignored.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.window.Close()
}

func (w *Window) applyPlacement() {
	p := layout.FromConfig(w.display)

	layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, p.Top)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, p.Bottom)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, p.Left)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeRight, p.Right)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, p.MarginTop)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeBottom, p.MarginBottom)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, p.MarginLeft)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeRight, p.MarginRight)

	if monitor := w.monitor(); monitor != nil {
		layershell.SetMonitor(w.window, monitor)
	}
}

// monitor returns the configured monitor, or nil to let the compositor choose.
func (w *Window) monitor() *gdk.Monitor {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	if monitors == nil {
		return nil
	}

	index, ok := layout.MonitorIndex(w.display.Monitor, monitors.NItems())
	if !ok {
		return nil
	}
	if w.display.Monitor > int(monitors.NItems()) {
		w.logger.Warn("configured monitor not available, using first",
			"configured", w.display.Monitor,
			"available", monitors.NItems(),
		)
	}

	return wrapMonitor(monitors.Item(index))
}

func (w *Window) applyColorScheme() {
	class := theme.ClassLight
	switch w.colorScheme {
	case config.ColorSchemeDark:
		class = theme.ClassDark
	case config.ColorSchemeLight:
	default:
		if adw.StyleManagerGetDefault().Dark() {
			class = theme.ClassDark
		}
	}

	if class == w.schemeClass {
		return
	}
	if w.schemeClass != "" {
		w.box.RemoveCSSClass(w.schemeClass)
	}
	w.box.AddCSSClass(class)
	w.schemeClass = class
}

// wrapMonitor wraps a list item as a gdk.Monitor. gotk4 does not export its
// own wrapper, and gdk.Monitor is a struct embedding *coreglib.Object.
func wrapMonitor(obj *coreglib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*coreglib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
