package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/transientlabel/internal/label"
)

// Terminal stand-ins for the theme colors.
var (
	themeBackground = lipgloss.AdaptiveColor{Light: "#ebebeb", Dark: "#303030"}
	blurBackground  = lipgloss.AdaptiveColor{Light: "#f6f6f6", Dark: "#262626"}
)

// LabelStyle converts a label style to a lipgloss style. Terminals have no
// alpha, so translucent colors are blended with black.
func LabelStyle(s label.Style) lipgloss.Style {
	st := lipgloss.NewStyle().
		Padding(0, cells(s.Padding)+1)

	if c, ok := terminalColor(s.TextColor); ok {
		st = st.Foreground(c)
	}
	if s.Font.Weight.CSSValue() >= 600 {
		st = st.Bold(true)
	}

	bg := s.Background
	switch bg.Kind {
	case label.BackgroundSolid:
		fill := bg.Fill()
		if fill.IsNamed() {
			if fill.Name() == label.ColorBackground && fill.Alpha() > 0 {
				st = st.Background(themeBackground)
			}
		} else if c, ok := terminalColor(fill); ok {
			st = st.Background(c)
		}
	case label.BackgroundBlur:
		st = st.Background(blurBackground)
	case label.BackgroundCustom:
		st = st.Border(lipgloss.RoundedBorder())
	}

	return st
}

// terminalColor returns the lipgloss color for an explicit color. Theme
// colors and fully transparent colors have none.
func terminalColor(c label.Color) (lipgloss.Color, bool) {
	if c.IsNamed() || c.Alpha() <= 0 {
		return "", false
	}
	if c.Alpha() >= 1 {
		return lipgloss.Color(c.Hex()), true
	}

	rgb, err := colorful.Hex(c.Hex())
	if err != nil {
		return "", false
	}
	return lipgloss.Color(colorful.Color{}.BlendRgb(rgb, c.Alpha()).Clamped().Hex()), true
}

// cells converts pixel padding to terminal columns, roughly 8px per cell.
func cells(px int) int {
	return px / 8
}
