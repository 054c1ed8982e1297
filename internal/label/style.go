package label

import (
	"fmt"
	"time"
)

// Weight is a font weight name.
type Weight string

const (
	WeightRegular  Weight = "regular"
	WeightMedium   Weight = "medium"
	WeightSemibold Weight = "semibold"
	WeightBold     Weight = "bold"
	WeightHeavy    Weight = "heavy"
)

// weightValues maps weight names to CSS numeric weights.
var weightValues = map[Weight]int{
	WeightRegular:  400,
	WeightMedium:   500,
	WeightSemibold: 600,
	WeightBold:     700,
	WeightHeavy:    800,
}

// CSSValue returns the numeric CSS weight. Unknown weights map to 400.
func (w Weight) CSSValue() int {
	if v, ok := weightValues[w]; ok {
		return v
	}
	return 400
}

// Font describes the label font. Rendering is left to the toolkit.
type Font struct {
	Family string  `toml:"family"` // Empty uses the toolkit default
	Size   float64 `toml:"size"`   // Points; 0 uses the toolkit default
	Weight Weight  `toml:"weight"`

	// MonospacedDigits makes every digit the same width so that changing
	// numbers do not shift the layout.
	MonospacedDigits bool `toml:"monospaced_digits"`
}

// DefaultFont returns a headline-sized semibold font with tabular digits.
func DefaultFont() Font {
	return Font{
		Size:             17,
		Weight:           WeightSemibold,
		MonospacedDigits: true,
	}
}

// Validate checks the font description.
func (f Font) Validate() error {
	if f.Size < 0 || f.Size > 512 {
		return fmt.Errorf("font size must be between 0 and 512, got %g", f.Size)
	}
	if f.Weight != "" {
		if _, ok := weightValues[f.Weight]; !ok {
			return fmt.Errorf("invalid font weight %q", f.Weight)
		}
	}
	return nil
}

// Style is the complete appearance of a label.
type Style struct {
	Font       Font
	TextColor  Color
	Background Background

	Padding      int // Pixels around the text
	CornerRadius int // Pixels, for solid and blur backgrounds

	// Opacity transition durations when showing and hiding.
	AppearDuration time.Duration
	HideDuration   time.Duration
}

// Default style values.
const (
	DefaultPadding        = 4
	DefaultCornerRadius   = 8
	DefaultAppearDuration = 50 * time.Millisecond
	DefaultHideDuration   = 100 * time.Millisecond
)

// DefaultStyle returns the default label style.
func DefaultStyle() Style {
	return Style{
		Font:           DefaultFont(),
		TextColor:      PrimaryColor(),
		Background:     DefaultBackground(),
		Padding:        DefaultPadding,
		CornerRadius:   DefaultCornerRadius,
		AppearDuration: DefaultAppearDuration,
		HideDuration:   DefaultHideDuration,
	}
}

// Transition returns the opacity transition used when moving to visible.
func (s Style) Transition(visible bool) time.Duration {
	if visible {
		return s.AppearDuration
	}
	return s.HideDuration
}

// Validate checks the style.
func (s Style) Validate() error {
	if err := s.Font.Validate(); err != nil {
		return fmt.Errorf("font: %w", err)
	}
	if err := s.Background.Validate(); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if s.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", s.Padding)
	}
	if s.CornerRadius < 0 {
		return fmt.Errorf("corner radius must not be negative, got %d", s.CornerRadius)
	}
	if s.AppearDuration < 0 || s.HideDuration < 0 {
		return fmt.Errorf("transition durations must not be negative")
	}
	return nil
}
