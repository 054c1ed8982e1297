// Package visibilitytest provides a manually advanced clock for testing
// code built on package visibility.
package visibilitytest

import (
	"sort"
	"sync"
	"time"

	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// Clock is a visibility.Clock whose time only moves when Advance is called.
// Timer callbacks run synchronously inside Advance, in deadline order.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer

	// IgnoreStop makes Stop report success without cancelling the timer,
	// reproducing a callback that already started when Stop was called.
	IgnoreStop bool
}

// NewClock returns a Clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

var _ visibility.Clock = (*Clock)(nil)

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *Clock) AfterFunc(d time.Duration, f func()) visibility.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &timer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer whose deadline
// is reached. While a callback runs, Now reports that timer's deadline.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		next.fired = true
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// nextDueLocked returns the earliest live timer due by target.
// Caller must hold the lock.
func (c *Clock) nextDueLocked(target time.Time) *timer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})
	if len(c.timers) == 0 || c.timers[0].deadline.After(target) {
		return nil
	}
	return c.timers[0]
}

type timer struct {
	clock    *Clock
	deadline time.Time
	f        func()
	fired    bool
	stopped  bool
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	if t.clock.IgnoreStop {
		return true
	}
	t.stopped = true
	return true
}
