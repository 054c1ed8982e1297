package theme

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/transientlabel/internal/label"
)

func TestGenerateCSS_Default(t *testing.T) {
	css := GenerateCSS(label.DefaultStyle())

	assert.Contains(t, css, "color: @window_fg_color;")
	assert.Contains(t, css, "padding: 4px;")
	assert.Contains(t, css, "background-color: alpha(@window_bg_color, 0.40);")
	assert.Contains(t, css, "border-radius: 8px;")
	assert.Contains(t, css, "font-size: 17pt;")
	assert.Contains(t, css, "font-weight: 600;")
	assert.Contains(t, css, `font-feature-settings: "tnum";`)
	assert.Contains(t, css, "transition: opacity 50ms ease-in;")
	assert.Contains(t, css, "transition: opacity 100ms ease-out;")
	assert.NotContains(t, css, "font-family")
	assert.Equal(t, strings.Count(css, "{"), strings.Count(css, "}"))
}

func TestGenerateCSS_Backgrounds(t *testing.T) {
	tests := []struct {
		name     string
		bg       label.Background
		contains []string
		excludes []string
	}{
		{
			name:     "none",
			bg:       label.NoBackground(),
			contains: []string{"background: none;", "box-shadow: none;"},
			excludes: []string{"border-radius"},
		},
		{
			name:     "solid",
			bg:       label.SolidBackground(label.RGBA(255, 0, 0, 1)),
			contains: []string{"background-color: rgba(255, 0, 0, 1.00);", "border-radius: 8px;"},
		},
		{
			name:     "blur",
			bg:       label.BlurBackground(label.BlurThick),
			contains: []string{"background-color: alpha(@window_bg_color, 0.70);", "border-radius: 8px;"},
		},
		{
			name:     "custom image",
			bg:       label.CustomViewBackground(label.CustomBackground{Image: "/tmp/bg image.png"}),
			contains: []string{`background-image: url("file:///tmp/bg%20image.png");`, "background-size: cover;"},
			excludes: []string{"border-radius"},
		},
		{
			name:     "custom class only",
			bg:       label.CustomViewBackground(label.CustomBackground{Class: "stripes"}),
			excludes: []string{"background-image", "background-color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := label.DefaultStyle()
			style.Background = tt.bg
			css := GenerateCSS(style)

			for _, s := range tt.contains {
				assert.Contains(t, css, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, css, s)
			}
		})
	}
}

func TestGenerateCSS_Font(t *testing.T) {
	style := label.DefaultStyle()
	style.Font = label.Font{Family: "JetBrains Mono", Size: 12.5, Weight: label.WeightBold}
	style.TextColor = label.RGBA(0, 128, 255, 0.5)
	style.AppearDuration = 0
	style.HideDuration = 250 * time.Millisecond

	css := GenerateCSS(style)

	assert.Contains(t, css, `font-family: "JetBrains Mono";`)
	assert.Contains(t, css, "font-size: 12.5pt;")
	assert.Contains(t, css, "font-weight: 700;")
	assert.Contains(t, css, "font-feature-settings: normal;")
	assert.Contains(t, css, "color: rgba(0, 128, 255, 0.50);")
	assert.Contains(t, css, "transition: opacity 0ms ease-in;")
	assert.Contains(t, css, "transition: opacity 250ms ease-out;")
}

func TestBackgroundClasses(t *testing.T) {
	assert.Equal(t, []string{"background-solid"}, BackgroundClasses(label.DefaultBackground()))
	assert.Equal(t, []string{"background-none"}, BackgroundClasses(label.NoBackground()))
	assert.Equal(t, []string{"background-blur", "blur-thin"}, BackgroundClasses(label.BlurBackground(label.BlurThin)))
	assert.Equal(t, []string{"background-custom", "stripes"},
		BackgroundClasses(label.CustomViewBackground(label.CustomBackground{Class: "stripes"})))
	assert.Equal(t, []string{"background-custom"},
		BackgroundClasses(label.CustomViewBackground(label.CustomBackground{Image: "/x.png"})))
}

func TestStateClass(t *testing.T) {
	assert.Equal(t, ClassVisible, StateClass(true))
	assert.Equal(t, ClassHidden, StateClass(false))
}
