package visibility

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultDelay is the hide delay used when none is configured.
const DefaultDelay = time.Second

// ErrInvalidDelay is returned by New for a zero or negative delay.
var ErrInvalidDelay = errors.New("delay must be greater than zero")

// State is a snapshot of a Controller.
type State struct {
	Session   string    // ULID of the controller that produced the snapshot
	Seq       uint64    // Incremented on every change; later snapshots have larger values
	Text      string    // Currently displayed text
	Visible   bool      // Whether the label should be shown
	ShownAt   time.Time // Most recent Display or Appear call
	ExpiresAt time.Time // When the pending hide fires (zero when hidden)
}

// Remaining returns how long the label stays visible after now.
// It is zero for a hidden label.
func (s State) Remaining(now time.Time) time.Duration {
	if !s.Visible || s.ExpiresAt.IsZero() {
		return 0
	}
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source. Defaults to SystemClock.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDispatcher routes timer fires through dispatch, which must run the
// given function on the goroutine that owns the label (for example
// glib.IdleAdd for a GTK main loop).
func WithDispatcher(dispatch func(func())) Option {
	return func(c *Controller) {
		c.dispatch = dispatch
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller is the visibility state machine of a transient label.
// All methods are safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	dispatch func(func())
	logger   *slog.Logger
	delay    time.Duration
	session  string

	text      string
	visible   bool
	shownAt   time.Time
	expiresAt time.Time
	seq       uint64

	// At most one pending timer. generation identifies it so that a
	// callback which lost the race with Stop cannot hide a newer window.
	timer      Timer
	generation uint64
	closed     bool

	observers    map[int]func(State)
	nextObserver int
}

// New creates a hidden Controller that hides delay after the last
// Display or Appear call.
func New(delay time.Duration, opts ...Option) (*Controller, error) {
	if delay <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDelay, delay)
	}

	c := &Controller{
		clock:     SystemClock(),
		logger:    slog.Default(),
		delay:     delay,
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}

	id, err := ulid.New(ulid.Timestamp(c.clock.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	c.session = id.String()

	return c, nil
}

// Delay returns the configured hide delay.
func (c *Controller) Delay() time.Duration {
	return c.delay
}

// Display replaces the text, makes the label visible and restarts the
// hide countdown.
func (c *Controller) Display(text string) {
	c.show(&text)
}

// Appear makes the label visible and restarts the hide countdown without
// changing the text.
func (c *Controller) Appear() {
	c.show(nil)
}

func (c *Controller) show(text *string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("ignoring show on closed label", "session", c.session)
		return
	}

	if text != nil {
		c.text = *text
	}
	c.visible = true

	// Cancel before rescheduling so the superseded hide can never fire.
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	gen := c.generation

	now := c.clock.Now()
	c.shownAt = now
	c.expiresAt = now.Add(c.delay)
	c.timer = c.clock.AfterFunc(c.delay, func() {
		c.fire(gen)
	})
	c.seq++

	state := c.stateLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	c.logger.Debug("label shown",
		"session", state.Session,
		"text_len", len(state.Text),
		"expires_at", state.ExpiresAt,
	)
	notify(observers, state)
}

// fire runs when a hide timer elapses.
func (c *Controller) fire(gen uint64) {
	if c.dispatch != nil {
		c.dispatch(func() {
			c.expire(gen)
		})
		return
	}
	c.expire(gen)
}

func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation || !c.visible {
		c.mu.Unlock()
		return
	}

	c.visible = false
	c.timer = nil
	c.expiresAt = time.Time{}
	c.seq++

	state := c.stateLocked()
	observers := c.observersLocked()
	c.mu.Unlock()

	c.logger.Debug("label hidden", "session", state.Session)
	notify(observers, state)
}

// Close cancels any pending hide and detaches all observers. Display and
// Appear are ignored afterwards. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.observers = make(map[int]func(State))
}

// Text returns the currently displayed text.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Visible reports whether the label is currently shown.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Observe registers fn to be called with a snapshot after every change.
// Calls happen outside the controller lock, possibly from a timer
// goroutine; use State.Seq to discard out-of-order deliveries. The
// returned function removes the observer.
func (c *Controller) Observe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || fn == nil {
		return func() {}
	}

	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// stateLocked builds a snapshot. Caller must hold the lock.
func (c *Controller) stateLocked() State {
	return State{
		Session:   c.session,
		Seq:       c.seq,
		Text:      c.text,
		Visible:   c.visible,
		ShownAt:   c.shownAt,
		ExpiresAt: c.expiresAt,
	}
}

// observersLocked copies the observer set. Caller must hold the lock.
func (c *Controller) observersLocked() []func(State) {
	if len(c.observers) == 0 {
		return nil
	}
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	return fns
}

func notify(observers []func(State), state State) {
	for _, fn := range observers {
		fn(state)
	}
}
