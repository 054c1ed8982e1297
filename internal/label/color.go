package label

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Theme color names. They resolve to the active theme's colors instead of
// a fixed RGB value.
const (
	ColorPrimary    = "primary"    // Foreground color of the theme
	ColorBackground = "background" // Window background color of the theme
)

// cssNames maps theme color names to GTK named colors.
var cssNames = map[string]string{
	ColorPrimary:    "@window_fg_color",
	ColorBackground: "@window_bg_color",
}

// Color is an RGBA color or a reference to a theme color.
// The zero value is the opaque theme primary color.
type Color struct {
	rgb      colorful.Color
	explicit bool    // rgb holds the color; otherwise named applies
	named    string  // Theme color name; "" means primary
	fade     float64 // 1 - alpha, so that the zero value is opaque
}

// PrimaryColor returns the theme foreground color.
func PrimaryColor() Color {
	return Color{}
}

// BackgroundColor returns the theme window background color.
func BackgroundColor() Color {
	return Color{named: ColorBackground}
}

// RGBA returns an explicit color. alpha is clamped to [0, 1].
func RGBA(r, g, b uint8, alpha float64) Color {
	return Color{
		rgb:      colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		explicit: true,
		fade:     1 - clamp01(alpha),
	}
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa", "transparent",
// "primary" or "background". An empty string is the primary color.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "", ColorPrimary:
		return PrimaryColor(), nil
	case ColorBackground:
		return BackgroundColor(), nil
	case "transparent":
		return RGBA(0, 0, 0, 0), nil
	}

	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("%w %q: must be #rgb, #rrggbb, #rrggbbaa or a theme color", ErrInvalidColor, s)
	}

	alpha := 1.0
	hex := s
	switch len(s) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, s, err)
		}
		alpha = float64(a) / 255
		hex = s[:7]
	default:
		return Color{}, fmt.Errorf("%w %q: unexpected length", ErrInvalidColor, s)
	}

	rgb, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, s, err)
	}
	return Color{rgb: rgb, explicit: true, fade: 1 - alpha}, nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsNamed reports whether the color refers to a theme color.
func (c Color) IsNamed() bool {
	return !c.explicit
}

// Name returns the theme color name, or "" for an explicit color.
func (c Color) Name() string {
	switch {
	case c.explicit:
		return ""
	case c.named == "":
		return ColorPrimary
	default:
		return c.named
	}
}

// Alpha returns the opacity in [0, 1].
func (c Color) Alpha() float64 {
	return 1 - c.fade
}

// WithAlpha returns a copy with the opacity multiplied by factor.
func (c Color) WithAlpha(factor float64) Color {
	c.fade = 1 - clamp01(c.Alpha()*factor)
	return c
}

// Hex returns "#rrggbb" for explicit colors and "" for theme colors.
func (c Color) Hex() string {
	if !c.explicit {
		return ""
	}
	return c.rgb.Clamped().Hex()
}

// CSS returns the color as a GTK CSS value.
func (c Color) CSS() string {
	if !c.explicit {
		name := cssNames[c.Name()]
		if c.Alpha() >= 1 {
			return name
		}
		return fmt.Sprintf("alpha(%s, %s)", name, formatAlpha(c.Alpha()))
	}
	r, g, b := c.rgb.Clamped().RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatAlpha(c.Alpha()))
}

// String returns a form accepted by ParseColor. Theme colors lose a
// non-opaque alpha, which is carried separately (see Background.Opacity).
func (c Color) String() string {
	if !c.explicit {
		return c.Name()
	}
	if c.Alpha() >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("%s%02x", c.Hex(), uint8(c.Alpha()*255+0.5))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func formatAlpha(a float64) string {
	return strconv.FormatFloat(a, 'f', 2, 64)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
