package theme

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/transientlabel/internal/label"
)

// CSS classes applied by the display window.
const (
	ClassWindow    = "transient-label-window"
	ClassContainer = "transient-label"
	ClassText      = "transient-label-text"
	ClassVisible   = "visible"
	ClassHidden    = "hidden"
	ClassDark      = "dark"
	ClassLight     = "light"
)

// StateClass returns the class for the visibility state.
func StateClass(visible bool) string {
	if visible {
		return ClassVisible
	}
	return ClassHidden
}

// BackgroundClasses returns the container classes for a background:
// "background-<kind>", plus "blur-<style>" or the custom class.
func BackgroundClasses(bg label.Background) []string {
	classes := []string{"background-" + string(bg.Kind)}
	switch bg.Kind {
	case label.BackgroundBlur:
		classes = append(classes, "blur-"+string(bg.Blur))
	case label.BackgroundCustom:
		if bg.Custom.Class != "" {
			classes = append(classes, bg.Custom.Class)
		}
	}
	return classes
}

// GenerateCSS renders a label style as a stylesheet for the window.
func GenerateCSS(style label.Style) string {
	var b strings.Builder

	b.WriteString("/* generated from the label style */\n")

	fmt.Fprintf(&b, ".%s {\n", ClassContainer)
	fmt.Fprintf(&b, "  color: %s;\n", style.TextColor.CSS())
	fmt.Fprintf(&b, "  padding: %dpx;\n", style.Padding)
	writeBackground(&b, style)
	b.WriteString("}\n")

	fmt.Fprintf(&b, ".%s {\n", ClassText)
	if style.Font.Family != "" {
		fmt.Fprintf(&b, "  font-family: %s;\n", strconv.Quote(style.Font.Family))
	}
	if style.Font.Size > 0 {
		fmt.Fprintf(&b, "  font-size: %spt;\n", strconv.FormatFloat(style.Font.Size, 'f', -1, 64))
	}
	if style.Font.Weight != "" {
		fmt.Fprintf(&b, "  font-weight: %d;\n", style.Font.Weight.CSSValue())
	}
	if style.Font.MonospacedDigits {
		b.WriteString("  font-feature-settings: \"tnum\";\n")
	} else {
		b.WriteString("  font-feature-settings: normal;\n")
	}
	b.WriteString("}\n")

	fmt.Fprintf(&b, ".%s.%s {\n  opacity: 1;\n  transition: opacity %dms ease-in;\n}\n",
		ClassContainer, ClassVisible, style.AppearDuration.Milliseconds())
	fmt.Fprintf(&b, ".%s.%s {\n  opacity: 0;\n  transition: opacity %dms ease-out;\n}\n",
		ClassContainer, ClassHidden, style.HideDuration.Milliseconds())

	return b.String()
}

func writeBackground(b *strings.Builder, style label.Style) {
	bg := style.Background
	switch bg.Kind {
	case label.BackgroundNone:
		b.WriteString("  background: none;\n")
		b.WriteString("  box-shadow: none;\n")
	case label.BackgroundSolid:
		fmt.Fprintf(b, "  background-color: %s;\n", bg.Fill().CSS())
		fmt.Fprintf(b, "  border-radius: %dpx;\n", style.CornerRadius)
	case label.BackgroundBlur:
		// The compositor blurs behind the layer surface; the tint sets the thickness.
		tint := label.BackgroundColor().WithAlpha(bg.Blur.Opacity())
		fmt.Fprintf(b, "  background-color: %s;\n", tint.CSS())
		fmt.Fprintf(b, "  border-radius: %dpx;\n", style.CornerRadius)
	case label.BackgroundCustom:
		if bg.Custom.Image != "" {
			fmt.Fprintf(b, "  background-image: url(%q);\n", fileURL(bg.Custom.Image))
			b.WriteString("  background-size: cover;\n")
		}
	}
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
