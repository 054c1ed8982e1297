package daemon

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/transientlabel/internal/config"
	"github.com/jmylchreest/transientlabel/internal/label"
)

type fakeRenderer struct {
	cfgs    []*config.DaemonConfig
	changes []config.Change
}

func (r *fakeRenderer) ApplyConfig(cfg *config.DaemonConfig, change config.Change) {
	r.cfgs = append(r.cfgs, cfg)
	r.changes = append(r.changes, change)
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []bool
	texts  []string
}

func (e *fakeEmitter) EmitVisibilityChanged(visible bool, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, visible)
	e.texts = append(e.texts, text)
	return nil
}

func newTestDaemon(t *testing.T, cfg *config.DaemonConfig) *Daemon {
	t.Helper()
	d, err := New(Options{Config: cfg, Version: "1.2.3"})
	require.NoError(t, err)
	d.notifier.SetSendHandler(func(Message) error { return nil })
	t.Cleanup(d.Stop)
	return d
}

func TestNew_Defaults(t *testing.T) {
	d := newTestDaemon(t, nil)

	assert.Equal(t, time.Second, d.Label().Delay())
	assert.Equal(t, config.DefaultDaemonConfig(), d.Config())
	assert.Equal(t, config.DefaultDaemonConfig().Style(), d.Label().Style())
	assert.Nil(t, d.watcher)

	name, _, version, session, dErr := d.server.GetServerInformation()
	require.Nil(t, dErr)
	assert.Equal(t, "transientlabeld", name)
	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, d.Label().State().Session, session)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	cfg.Label.Delay = 0

	_, err := New(Options{Config: cfg})
	assert.Error(t, err)
}

func TestNew_ConfigDelay(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	cfg.Label.Delay = config.Duration(2500 * time.Millisecond)

	d := newTestDaemon(t, cfg)
	assert.Equal(t, 2500*time.Millisecond, d.Label().Delay())
}

func TestReload_AppliesStyleAndRenderer(t *testing.T) {
	d := newTestDaemon(t, nil)
	r := &fakeRenderer{}
	d.SetRenderer(r)

	updated := config.DefaultDaemonConfig()
	updated.Label.TextColor = label.MustParseColor("#ff0000")
	updated.Theme.Name = "minimal"
	d.Reload(updated)

	assert.Same(t, updated, d.Config())
	assert.Equal(t, label.MustParseColor("#ff0000"), d.Label().Style().TextColor)
	require.Len(t, r.changes, 1)
	assert.Equal(t, config.Change{Style: true, Theme: true}, r.changes[0])
	assert.Same(t, updated, r.cfgs[0])
}

func TestReload_NoChange(t *testing.T) {
	d := newTestDaemon(t, nil)
	r := &fakeRenderer{}
	d.SetRenderer(r)

	d.Reload(config.DefaultDaemonConfig())
	d.Reload(nil)
	assert.Empty(t, r.changes)
}

func TestReload_DelayNeedsRestart(t *testing.T) {
	d := newTestDaemon(t, nil)

	updated := config.DefaultDaemonConfig()
	updated.Label.Delay = config.Duration(5 * time.Second)
	d.Reload(updated)

	assert.Equal(t, time.Second, d.Label().Delay())
	assert.Same(t, updated, d.Config())
}

func TestAttach_EmitsTransitionsOnly(t *testing.T) {
	d := newTestDaemon(t, nil)
	e := &fakeEmitter{}
	d.emitter = e
	d.attach()

	d.Label().Display("1")
	d.Label().Display("2")
	d.Label().Appear()

	e.mu.Lock()
	assert.Equal(t, []bool{true}, e.events)
	assert.Equal(t, []string{"1"}, e.texts)
	e.mu.Unlock()
}

func TestStop_ClosesLabel(t *testing.T) {
	d := newTestDaemon(t, nil)
	d.Stop()
	d.Stop()

	d.Label().Display("late")
	assert.False(t, d.Label().State().Visible)
}

func TestNotifier_RateLimits(t *testing.T) {
	n := NewNotifier(nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	var sent []Message
	n.SetSendHandler(func(m Message) error {
		sent = append(sent, m)
		return nil
	})

	n.NotifyConfigError(errors.New("bad delay"))
	n.NotifyConfigError(errors.New("bad delay again"))
	require.Len(t, sent, 1)
	assert.Equal(t, "Configuration Error", sent[0].Summary)
	assert.Contains(t, sent[0].Body, "bad delay")

	n.NotifyThemeError("nope", errors.New("missing"))
	assert.Len(t, sent, 2, "different key")

	now = now.Add(6 * time.Second)
	n.NotifyConfigError(errors.New("later"))
	assert.Len(t, sent, 3)
}

func TestNotifier_DisabledAndFailures(t *testing.T) {
	n := NewNotifier(nil)
	n.SetSendHandler(func(Message) error { return errors.New("no bus") })
	assert.False(t, n.Notify("k", Message{Summary: "s"}))

	n.SetEnabled(false)
	n.SetSendHandler(func(Message) error { return nil })
	assert.False(t, n.Notify("other", Message{Summary: "s"}))

	n.SetEnabled(true)
	n.SetMinInterval(0)
	assert.True(t, n.Notify("other", Message{Summary: "s"}))
	assert.True(t, n.Notify("other", Message{Summary: "s"}))
}
