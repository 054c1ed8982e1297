package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/transientlabel/internal/dbus"
)

var (
	visibleState = dbus.State{Text: "42", Visible: true, RemainingMs: 2500}
	hiddenState  = dbus.State{Text: "42"}
	fixedNow     = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
)

func format(t *testing.T, ft FormatType, opts FormatterOptions, s dbus.State) string {
	t.Helper()
	f, err := NewFormatter(ft, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, s))
	return buf.String()
}

func TestNewFormatter_Unknown(t *testing.T) {
	_, err := NewFormatter("xml", FormatterOptions{})
	assert.Error(t, err)
}

func TestTextFormatter(t *testing.T) {
	got := format(t, FormatText, FormatterOptions{}, visibleState)
	assert.Equal(t, "text:    \"42\"\nstate:   visible, hides in 2,500 ms\n", got)

	got = format(t, FormatText, FormatterOptions{}, hiddenState)
	assert.Contains(t, got, "state:   hidden")
}

func TestTextFormatter_Template(t *testing.T) {
	opts := FormatterOptions{Template: "{{.Text}} {{if .Visible}}({{.RemainingHuman}}){{end}}"}

	assert.Equal(t, "42 (2,500 ms)\n", format(t, FormatText, opts, visibleState))
	assert.Equal(t, "42 \n", format(t, FormatText, opts, hiddenState))

	_, err := NewFormatter(FormatText, FormatterOptions{Template: "{{.Text"})
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	got := format(t, FormatJSON, FormatterOptions{}, visibleState)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "42", decoded["text"])
	assert.Equal(t, true, decoded["visible"])
	assert.Equal(t, float64(2500), decoded["remaining_ms"])
}

func TestYAMLFormatter(t *testing.T) {
	got := format(t, FormatYAML, FormatterOptions{}, visibleState)

	var decoded dbus.State
	require.NoError(t, yaml.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, visibleState, decoded)
	assert.Contains(t, got, "remaining_ms: 2500")
}

func TestWaybarFormatter(t *testing.T) {
	f := &WaybarFormatter{opts: FormatterOptions{Now: fixedNow}}

	assert.Equal(t, WaybarStatus{
		Text:    "42",
		Alt:     "visible",
		Class:   "visible",
		Tooltip: "Hides 2 seconds from now",
	}, f.Status(visibleState))

	assert.Equal(t, WaybarStatus{
		Alt:     "hidden",
		Class:   "hidden",
		Tooltip: "Last label: 42",
	}, f.Status(hiddenState))

	assert.Equal(t, "Label hidden", f.Status(dbus.State{}).Tooltip)

	got := format(t, FormatWaybar, FormatterOptions{Now: fixedNow}, visibleState)
	assert.JSONEq(t, `{"text":"42","alt":"visible","class":"visible","tooltip":"Hides 2 seconds from now"}`, got)
}

func TestRemaining(t *testing.T) {
	assert.Empty(t, Remaining(hiddenState))
	assert.Equal(t, "0 ms", Remaining(dbus.State{Visible: true}))
}
