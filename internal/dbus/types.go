package dbus

import (
	"time"

	"github.com/jmylchreest/transientlabel/internal/visibility"
)

const (
	// Interface is the label interface name.
	Interface = "io.github.jmylchreest.TransientLabel"
	// Path is the label object path.
	Path = "/io/github/jmylchreest/TransientLabel"
	// BusName is the bus name to claim.
	BusName = "io.github.jmylchreest.TransientLabel"

	// SignalVisibilityChanged is emitted when the label shows or hides.
	SignalVisibilityChanged = "VisibilityChanged"
)

// State is the label state as carried over the bus.
type State struct {
	Text        string `json:"text" yaml:"text"`
	Visible     bool   `json:"visible" yaml:"visible"`
	RemainingMs int64  `json:"remaining_ms" yaml:"remaining_ms"`
}

// Remaining returns the time left before the label hides.
func (s State) Remaining() time.Duration {
	return time.Duration(s.RemainingMs) * time.Millisecond
}

// StateFrom converts a controller snapshot, computing the remaining time at now.
func StateFrom(s visibility.State, now time.Time) State {
	return State{
		Text:        s.Text,
		Visible:     s.Visible,
		RemainingMs: s.Remaining(now).Milliseconds(),
	}
}

// VisibilityEvent is a received VisibilityChanged signal.
type VisibilityEvent struct {
	Visible bool
	Text    string
}

// ServerInfo contains information about the label server.
type ServerInfo struct {
	Name    string // "transientlabeld"
	Vendor  string // "transientlabel"
	Version string // Build version
	Session string // Controller session ID
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:    "transientlabeld",
		Vendor:  "transientlabel",
		Version: "0.0.1", // Will be replaced by build-time version
	}
}
