package config

// Change lists the parts of a daemon configuration that differ between two
// loads.
type Change struct {
	Delay       bool // Needs a restart; the label delay is fixed at construction
	Style       bool
	Display     bool
	Theme       bool
	ColorScheme bool
	Audio       bool
}

// Any reports whether anything changed.
func (c Change) Any() bool {
	return c.Delay || c.Style || c.Display || c.Theme || c.ColorScheme || c.Audio
}

// Diff compares two configurations. A nil old config differs in everything.
func Diff(old, updated *DaemonConfig) Change {
	if old == nil || updated == nil {
		return Change{Delay: true, Style: true, Display: true, Theme: true, ColorScheme: true, Audio: true}
	}
	return Change{
		Delay:       old.Label.Delay != updated.Label.Delay,
		Style:       old.Style() != updated.Style(),
		Display:     old.Display != updated.Display,
		Theme:       old.Theme.Name != updated.Theme.Name,
		ColorScheme: old.Theme.ColorScheme != updated.Theme.ColorScheme,
		Audio:       old.Audio != updated.Audio,
	}
}
