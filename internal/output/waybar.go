package output

import (
	"encoding/json"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/transientlabel/internal/dbus"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

// WaybarFormatter writes one line of Waybar custom module JSON:
//
//	"custom/label": {
//	  "exec": "transientlabel state --output waybar",
//	  "interval": 1,
//	  "return-type": "json",
//	  "on-click": "transientlabel appear"
//	}
type WaybarFormatter struct {
	opts FormatterOptions
}

// Status builds the Waybar status for s.
func (f *WaybarFormatter) Status(s dbus.State) WaybarStatus {
	if !s.Visible {
		tooltip := "Label hidden"
		if s.Text != "" {
			tooltip = "Last label: " + s.Text
		}
		return WaybarStatus{Alt: "hidden", Class: "hidden", Tooltip: tooltip}
	}

	now := f.opts.Now()
	return WaybarStatus{
		Text:    s.Text,
		Alt:     "visible",
		Class:   "visible",
		Tooltip: "Hides " + humanize.RelTime(now, now.Add(s.Remaining()), "from now", "ago"),
	}
}

// Format writes the Waybar status for s.
func (f *WaybarFormatter) Format(w io.Writer, s dbus.State) error {
	return json.NewEncoder(w).Encode(f.Status(s))
}
