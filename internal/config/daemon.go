package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// Duration is a time.Duration written in TOML as "750ms", "1s" or a bare
// number of milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q (want e.g. \"750ms\", \"1s\" or milliseconds): %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for transientlabeld.
// Loaded from ~/.config/transientlabel/transientlabeld.toml
type DaemonConfig struct {
	Label   LabelConfig   `toml:"label"`
	Display DisplayConfig `toml:"display"`
	Audio   AudioConfig   `toml:"audio"`
	Theme   ThemeConfig   `toml:"theme"`
}

// LabelConfig contains the hide delay and the label style.
type LabelConfig struct {
	Delay          Duration         `toml:"delay"`
	TextColor      label.Color      `toml:"text_color"`
	Padding        int              `toml:"padding"`
	CornerRadius   int              `toml:"corner_radius"`
	AppearDuration Duration         `toml:"appear_duration"`
	HideDuration   Duration         `toml:"hide_duration"`
	Font           label.Font       `toml:"font"`
	Background     BackgroundConfig `toml:"background"`
}

// BackgroundConfig is the flattened form of label.Background.
// Only the fields used by Kind are read.
type BackgroundConfig struct {
	Kind    string      `toml:"kind"`    // "none", "solid", "blur", "custom"
	Color   label.Color `toml:"color"`   // solid
	Opacity float64     `toml:"opacity"` // solid, 0.0-1.0
	Blur    string      `toml:"blur"`    // blur: "ultra-thin", "thin", "regular", "thick"
	Class   string      `toml:"class"`   // custom: CSS class defined by the theme
	Image   string      `toml:"image"`   // custom: image file drawn behind the text
}

// DisplayConfig contains window placement settings.
type DisplayConfig struct {
	Position string `toml:"position"` // "top-center", "bottom-right", etc.
	OffsetX  int    `toml:"offset_x"` // Pixels from screen edge
	OffsetY  int    `toml:"offset_y"` // Pixels from screen edge
	Monitor  int    `toml:"monitor"`  // 0 = compositor choice, 1+ = specific monitor
}

// AudioConfig contains the sound played when the label appears.
type AudioConfig struct {
	Enabled bool   `toml:"enabled"`
	Volume  int    `toml:"volume"` // 0-100
	Sound   string `toml:"sound"`  // WAV, OGG or MP3 file
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name without .css extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// Position represents the label position on screen.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionCenter       Position = "center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	style := label.DefaultStyle()
	return &DaemonConfig{
		Label: LabelConfig{
			Delay:          Duration(visibility.DefaultDelay),
			TextColor:      style.TextColor,
			Padding:        style.Padding,
			CornerRadius:   style.CornerRadius,
			AppearDuration: Duration(style.AppearDuration),
			HideDuration:   Duration(style.HideDuration),
			Font:           style.Font,
			Background: BackgroundConfig{
				Kind:    string(style.Background.Kind),
				Color:   style.Background.Color,
				Opacity: style.Background.Opacity,
				Blur:    string(label.BlurRegular),
			},
		},
		Display: DisplayConfig{
			Position: string(PositionTopCenter),
			OffsetX:  0,
			OffsetY:  48,
			Monitor:  0,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  60,
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
	}
}

// LoadDaemonConfig loads the daemon configuration from path, or from
// DaemonConfigPath when path is empty. Missing files yield the defaults.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		path = DaemonConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseDaemonConfig(data)
}

// ParseDaemonConfig decodes TOML over the defaults and validates the result.
func ParseDaemonConfig(data []byte) (*DaemonConfig, error) {
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to path, or to
// DaemonConfigPath when path is empty.
func SaveDaemonConfig(config *DaemonConfig, path string) error {
	if path == "" {
		path = DaemonConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate reports every invalid setting, joined into one error.
func (c *DaemonConfig) Validate() error {
	var errs []error

	if c.Label.Delay <= 0 {
		errs = append(errs, fmt.Errorf("label delay %s: %w", c.Label.Delay.Duration(), visibility.ErrInvalidDelay))
	}
	if err := c.Style().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("label: %w", err))
	}
	if !slices.Contains(ValidPositions(), Position(c.Display.Position)) {
		errs = append(errs, fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions()))
	}
	if c.Display.Monitor < 0 {
		errs = append(errs, fmt.Errorf("monitor must not be negative, got %d", c.Display.Monitor))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		errs = append(errs, fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume))
	}
	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Theme.ColorScheme)) {
		errs = append(errs, fmt.Errorf("invalid color scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes()))
	}

	return errors.Join(errs...)
}

// Style builds the label style described by the [label] section.
func (c *DaemonConfig) Style() label.Style {
	return label.Style{
		Font:           c.Label.Font,
		TextColor:      c.Label.TextColor,
		Background:     c.Label.Background.Background(),
		Padding:        c.Label.Padding,
		CornerRadius:   c.Label.CornerRadius,
		AppearDuration: c.Label.AppearDuration.Duration(),
		HideDuration:   c.Label.HideDuration.Duration(),
	}
}

// SoundPath returns the cue sound path with ~ expanded.
func (c *DaemonConfig) SoundPath() string {
	return ExpandPath(c.Audio.Sound)
}

// Background converts the flattened section into a label.Background.
func (b BackgroundConfig) Background() label.Background {
	switch label.BackgroundKind(b.Kind) {
	case label.BackgroundNone:
		return label.NoBackground()
	case label.BackgroundSolid:
		return label.Background{Kind: label.BackgroundSolid, Color: b.Color, Opacity: b.Opacity}
	case label.BackgroundBlur:
		return label.BlurBackground(label.BlurStyle(b.Blur))
	case label.BackgroundCustom:
		return label.CustomViewBackground(label.CustomBackground{
			Class: b.Class,
			Image: ExpandPath(b.Image),
		})
	default:
		// Left for label.Background.Validate to reject.
		return label.Background{Kind: label.BackgroundKind(b.Kind)}
	}
}
