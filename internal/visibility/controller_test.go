package visibility_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/transientlabel/internal/visibility"
	"github.com/jmylchreest/transientlabel/internal/visibility/visibilitytest"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, delay time.Duration) (*visibility.Controller, *visibilitytest.Clock) {
	t.Helper()
	clock := visibilitytest.NewClock(epoch)
	c, err := visibility.New(delay, visibility.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, clock
}

func TestNew_RejectsNonPositiveDelay(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		c, err := visibility.New(d)
		assert.ErrorIs(t, err, visibility.ErrInvalidDelay)
		assert.Nil(t, c)
	}
}

func TestNew_StartsHidden(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	state := c.State()
	assert.False(t, state.Visible)
	assert.Empty(t, state.Text)
	assert.NotEmpty(t, state.Session)
	assert.Equal(t, time.Second, c.Delay())
	assert.Equal(t, 0, clock.Pending())
}

func TestDisplay_HidesAfterDelay(t *testing.T) {
	delays := []time.Duration{time.Millisecond, 250 * time.Millisecond, time.Second, 10 * time.Second}

	for _, d := range delays {
		t.Run(d.String(), func(t *testing.T) {
			c, clock := newTestController(t, d)

			c.Display("7")
			assert.True(t, c.Visible())
			assert.Equal(t, "7", c.Text())

			clock.Advance(d - time.Nanosecond)
			assert.True(t, c.Visible(), "still visible just before the delay")

			clock.Advance(time.Nanosecond)
			assert.False(t, c.Visible(), "hidden exactly at the delay")
			assert.Equal(t, "7", c.Text(), "text survives hiding")
		})
	}
}

func TestDisplay_SequenceHidesDelayAfterLastCall(t *testing.T) {
	const d = time.Second
	c, clock := newTestController(t, d)

	gaps := []time.Duration{0, 300 * time.Millisecond, 999 * time.Millisecond, 10 * time.Millisecond}
	for _, gap := range gaps {
		clock.Advance(gap)
		assert.True(t, gap == 0 || c.Visible(), "never hides between calls")
		c.Display("x")
	}

	clock.Advance(d - time.Millisecond)
	assert.True(t, c.Visible())
	clock.Advance(time.Millisecond)
	assert.False(t, c.Visible())
}

func TestDisplay_LastValueWins(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	c.Display("A")
	clock.Advance(500 * time.Millisecond)
	c.Display("B")

	assert.Equal(t, "B", c.Text())

	// The first call's deadline passes without hiding.
	clock.Advance(600 * time.Millisecond)
	assert.True(t, c.Visible())

	clock.Advance(400 * time.Millisecond)
	assert.False(t, c.Visible())
	assert.Equal(t, "B", c.Text())
}

func TestDisplay_Scenario(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	c.Display("7")
	assert.True(t, c.Visible())
	assert.Equal(t, "7", c.Text())

	clock.Advance(900 * time.Millisecond)
	c.Display("42")
	assert.True(t, c.Visible())
	assert.Equal(t, "42", c.Text())

	clock.Advance(600 * time.Millisecond) // t=1.5s
	assert.True(t, c.Visible())

	clock.Advance(450 * time.Millisecond) // t=1.95s
	assert.False(t, c.Visible())
}

func TestDisplay_NoFlicker(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	var hides int
	c.Observe(func(s visibility.State) {
		if !s.Visible {
			hides++
		}
	})

	for range 20 {
		c.Display("same")
		clock.Advance(900 * time.Millisecond)
	}
	assert.Equal(t, 0, hides, "no transition to hidden between calls")
	assert.Equal(t, 1, clock.Pending(), "exactly one pending timer")

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, hides)
	assert.Equal(t, 0, clock.Pending())
}

func TestAppear_KeepsText(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	c.Appear()
	assert.True(t, c.Visible())
	assert.Equal(t, "", c.Text())

	c.Display("12")
	clock.Advance(2 * time.Second)
	require.False(t, c.Visible())

	c.Appear()
	assert.True(t, c.Visible())
	assert.Equal(t, "12", c.Text())

	clock.Advance(time.Second)
	assert.False(t, c.Visible())
}

func TestAppear_RestartsCountdown(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	c.Display("n")
	clock.Advance(800 * time.Millisecond)
	c.Appear()
	clock.Advance(800 * time.Millisecond)
	assert.True(t, c.Visible())
	clock.Advance(200 * time.Millisecond)
	assert.False(t, c.Visible())
}

func TestClose_CancelsPendingHide(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	var states []visibility.State
	c.Observe(func(s visibility.State) {
		states = append(states, s)
	})

	c.Display("bye")
	require.Len(t, states, 1)

	c.Close()
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(5 * time.Second)
	assert.Len(t, states, 1, "no callback after close")
	assert.True(t, c.Visible(), "state is frozen after close")

	c.Display("ignored")
	assert.Equal(t, "bye", c.Text())

	c.Close()
}

func TestStaleTimerIgnored(t *testing.T) {
	clock := visibilitytest.NewClock(epoch)
	clock.IgnoreStop = true
	c, err := visibility.New(time.Second, visibility.WithClock(clock))
	require.NoError(t, err)
	defer c.Close()

	c.Display("first")
	clock.Advance(500 * time.Millisecond)
	c.Display("second")

	// The first timer fires despite Stop; it must not hide the newer window.
	clock.Advance(500 * time.Millisecond)
	assert.True(t, c.Visible())
	assert.Equal(t, "second", c.Text())

	clock.Advance(500 * time.Millisecond)
	assert.False(t, c.Visible())
}

func TestWithDispatcher(t *testing.T) {
	var queue []func()
	clock := visibilitytest.NewClock(epoch)
	c, err := visibility.New(time.Second,
		visibility.WithClock(clock),
		visibility.WithDispatcher(func(fn func()) {
			queue = append(queue, fn)
		}),
	)
	require.NoError(t, err)
	defer c.Close()

	c.Display("queued")
	clock.Advance(time.Second)
	assert.True(t, c.Visible(), "hide waits for the owner loop")
	require.Len(t, queue, 1)

	queue[0]()
	assert.False(t, c.Visible())
}

func TestWithDispatcher_SupersededBeforeDrain(t *testing.T) {
	var queue []func()
	clock := visibilitytest.NewClock(epoch)
	c, err := visibility.New(time.Second,
		visibility.WithClock(clock),
		visibility.WithDispatcher(func(fn func()) {
			queue = append(queue, fn)
		}),
	)
	require.NoError(t, err)
	defer c.Close()

	c.Display("a")
	clock.Advance(time.Second)
	c.Display("b")

	require.Len(t, queue, 1)
	queue[0]()
	assert.True(t, c.Visible(), "hide queued before the newer call is dropped")
	assert.Equal(t, "b", c.Text())
}

func TestState(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	c.Display("s")
	state := c.State()
	assert.Equal(t, epoch, state.ShownAt)
	assert.Equal(t, epoch.Add(time.Second), state.ExpiresAt)
	assert.Equal(t, time.Second, state.Remaining(clock.Now()))

	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, 600*time.Millisecond, c.State().Remaining(clock.Now()))

	clock.Advance(600 * time.Millisecond)
	hidden := c.State()
	assert.True(t, hidden.ExpiresAt.IsZero())
	assert.Zero(t, hidden.Remaining(clock.Now()))
	assert.Greater(t, hidden.Seq, state.Seq)
	assert.Equal(t, state.Session, hidden.Session)
}

func TestObserve(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	var got []visibility.State
	cancel := c.Observe(func(s visibility.State) {
		got = append(got, s)
	})

	c.Display("one")
	c.Appear()
	clock.Advance(time.Second)

	require.Len(t, got, 3)
	assert.True(t, got[0].Visible)
	assert.Equal(t, "one", got[1].Text)
	assert.False(t, got[2].Visible)
	assert.Less(t, got[0].Seq, got[1].Seq)
	assert.Less(t, got[1].Seq, got[2].Seq)

	cancel()
	c.Display("two")
	assert.Len(t, got, 3)
}

func TestObserve_CanReadController(t *testing.T) {
	c, clock := newTestController(t, time.Second)

	var text string
	c.Observe(func(visibility.State) {
		text = c.Text()
	})

	c.Display("reentrant")
	clock.Advance(time.Second)
	assert.Equal(t, "reentrant", text)
}

func TestSystemClock_Concurrent(t *testing.T) {
	c, err := visibility.New(20 * time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for range 50 {
				if i%2 == 0 {
					c.Display("x")
				} else {
					c.Appear()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, c.Visible())
	assert.Eventually(t, func() bool {
		return !c.Visible()
	}, time.Second, 5*time.Millisecond)
}
