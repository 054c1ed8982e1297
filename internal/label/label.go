// Package label models a transient label: a visibility controller paired
// with the style renderers use to draw it.
package label

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// Options configures a Label.
type Options struct {
	// Delay after which the label hides. Zero means visibility.DefaultDelay;
	// negative values are rejected.
	Delay time.Duration
	Style Style // Zero value means DefaultStyle

	Clock      visibility.Clock
	Dispatcher func(func())
	Logger     *slog.Logger
}

// Label is a text label that hides itself after a delay.
type Label struct {
	ctrl   *visibility.Controller
	logger *slog.Logger

	mu    sync.RWMutex
	style Style
}

// New creates a hidden label.
func New(opts Options) (*Label, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	delay := opts.Delay
	if delay == 0 {
		delay = visibility.DefaultDelay
	}

	style := opts.Style
	if style == (Style{}) {
		style = DefaultStyle()
	}
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid label style: %w", err)
	}

	ctrlOpts := []visibility.Option{visibility.WithLogger(logger)}
	if opts.Clock != nil {
		ctrlOpts = append(ctrlOpts, visibility.WithClock(opts.Clock))
	}
	if opts.Dispatcher != nil {
		ctrlOpts = append(ctrlOpts, visibility.WithDispatcher(opts.Dispatcher))
	}

	ctrl, err := visibility.New(delay, ctrlOpts...)
	if err != nil {
		return nil, err
	}

	return &Label{
		ctrl:   ctrl,
		logger: logger,
		style:  style,
	}, nil
}

// Display shows text and restarts the hide countdown.
func (l *Label) Display(text string) {
	l.ctrl.Display(text)
}

// Appear shows the current text again and restarts the hide countdown.
func (l *Label) Appear() {
	l.ctrl.Appear()
}

// Close cancels any pending hide. The label ignores further calls.
func (l *Label) Close() {
	l.ctrl.Close()
}

// State returns the current visibility snapshot.
func (l *Label) State() visibility.State {
	return l.ctrl.State()
}

// Delay returns the hide delay.
func (l *Label) Delay() time.Duration {
	return l.ctrl.Delay()
}

// Observe registers fn for visibility changes. See visibility.Controller.Observe.
func (l *Label) Observe(fn func(visibility.State)) func() {
	return l.ctrl.Observe(fn)
}

// ObserveTransitions calls fn only when the label goes from hidden to
// visible or back, skipping reentrant Display calls and text changes.
func (l *Label) ObserveTransitions(fn func(visibility.State)) func() {
	var (
		mu      sync.Mutex
		lastSeq uint64
		visible = l.ctrl.Visible()
	)
	return l.ctrl.Observe(func(s visibility.State) {
		mu.Lock()
		if s.Seq <= lastSeq || s.Visible == visible {
			if s.Seq > lastSeq {
				lastSeq = s.Seq
			}
			mu.Unlock()
			return
		}
		lastSeq = s.Seq
		visible = s.Visible
		mu.Unlock()

		fn(s)
	})
}

// Style returns the current style.
func (l *Label) Style() Style {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.style
}

// SetStyle replaces the style. The hide delay cannot be changed.
func (l *Label) SetStyle(style Style) error {
	if err := style.Validate(); err != nil {
		return fmt.Errorf("invalid label style: %w", err)
	}

	l.mu.Lock()
	l.style = style
	l.mu.Unlock()

	l.logger.Debug("label style updated", "background", style.Background.Kind)
	return nil
}
