package label

import (
	"fmt"
	"strings"
)

// BackgroundKind selects how the area behind the text is drawn.
type BackgroundKind string

const (
	BackgroundNone   BackgroundKind = "none"
	BackgroundSolid  BackgroundKind = "solid"
	BackgroundBlur   BackgroundKind = "blur"
	BackgroundCustom BackgroundKind = "custom"
)

// ValidBackgroundKinds returns all valid background kinds.
func ValidBackgroundKinds() []BackgroundKind {
	return []BackgroundKind{BackgroundNone, BackgroundSolid, BackgroundBlur, BackgroundCustom}
}

// BlurStyle is the thickness of a translucent material background.
// The compositor performs the actual blur.
type BlurStyle string

const (
	BlurUltraThin BlurStyle = "ultra-thin"
	BlurThin      BlurStyle = "thin"
	BlurRegular   BlurStyle = "regular"
	BlurThick     BlurStyle = "thick"
)

// blurOpacity is the tint opacity used for each material thickness.
var blurOpacity = map[BlurStyle]float64{
	BlurUltraThin: 0.2,
	BlurThin:      0.35,
	BlurRegular:   0.5,
	BlurThick:     0.7,
}

// Opacity returns the tint opacity of the material.
func (b BlurStyle) Opacity() float64 {
	if v, ok := blurOpacity[b]; ok {
		return v
	}
	return blurOpacity[BlurRegular]
}

// CustomBackground is a user supplied background: a CSS class styled by
// the theme, an image stretched behind the text, or both.
type CustomBackground struct {
	Class string `toml:"class"`
	Image string `toml:"image"`
}

// Background is one of none, solid color, blur or custom.
// Use the constructor functions to build one.
type Background struct {
	Kind    BackgroundKind
	Color   Color     // Solid: fill color
	Opacity float64   // Solid: multiplies the color alpha
	Blur    BlurStyle // Blur: material thickness
	Custom  CustomBackground
}

// NoBackground draws nothing behind the text.
func NoBackground() Background {
	return Background{Kind: BackgroundNone}
}

// SolidBackground fills the label with c.
func SolidBackground(c Color) Background {
	return Background{Kind: BackgroundSolid, Color: c, Opacity: 1}
}

// BlurBackground uses a translucent material of the given thickness.
func BlurBackground(style BlurStyle) Background {
	return Background{Kind: BackgroundBlur, Blur: style}
}

// CustomViewBackground uses a theme class and/or an image file.
func CustomViewBackground(custom CustomBackground) Background {
	return Background{Kind: BackgroundCustom, Custom: custom}
}

// DefaultBackground is the window background color at 40% opacity.
func DefaultBackground() Background {
	return Background{Kind: BackgroundSolid, Color: BackgroundColor(), Opacity: 0.4}
}

// Fill returns the effective solid fill color.
func (b Background) Fill() Color {
	return b.Color.WithAlpha(b.Opacity)
}

// Validate checks that the fields required by Kind are usable.
func (b Background) Validate() error {
	switch b.Kind {
	case BackgroundNone:
		return nil
	case BackgroundSolid:
		if b.Opacity < 0 || b.Opacity > 1 {
			return fmt.Errorf("opacity must be between 0 and 1, got %g", b.Opacity)
		}
		return nil
	case BackgroundBlur:
		if _, ok := blurOpacity[b.Blur]; !ok {
			return fmt.Errorf("invalid blur style %q", b.Blur)
		}
		return nil
	case BackgroundCustom:
		if b.Custom.Class == "" && b.Custom.Image == "" {
			return fmt.Errorf("custom background needs a class or an image")
		}
		if b.Custom.Class != "" && !validClassName(b.Custom.Class) {
			return fmt.Errorf("invalid css class %q", b.Custom.Class)
		}
		return nil
	default:
		return fmt.Errorf("invalid background kind %q, must be one of: %v", b.Kind, ValidBackgroundKinds())
	}
}

// validClassName accepts letters, digits, hyphens and underscores, not
// starting with a digit.
func validClassName(name string) bool {
	if name == "" || strings.IndexAny(name[:1], "0123456789") == 0 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
