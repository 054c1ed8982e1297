package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/visibility"
)

func TestDefaultDaemonConfig(t *testing.T) {
	cfg := DefaultDaemonConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.Label.Delay.Duration())
	assert.Equal(t, string(PositionTopCenter), cfg.Display.Position)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, label.DefaultStyle(), cfg.Style())
}

func TestLoadDaemonConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadDaemonConfig("/nonexistent/path/transientlabeld.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultDaemonConfig(), cfg)
}

func TestLoadDaemonConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transientlabeld.toml")

	content := `
[label]
delay = "750ms"
text_color = "#ff8800"
padding = 6

[label.font]
family = "Inter"
size = 24.0
weight = "bold"
monospaced_digits = false

[label.background]
kind = "blur"
blur = "thick"

[display]
position = "bottom-right"
offset_x = 20
offset_y = 30
monitor = 2

[audio]
enabled = true
volume = 25
sound = "/usr/share/sounds/pop.ogg"

[theme]
name = "minimal"
color_scheme = "dark"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadDaemonConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Label.Delay.Duration())
	assert.Equal(t, "#ff8800", cfg.Label.TextColor.Hex())
	assert.Equal(t, 6, cfg.Label.Padding)
	assert.Equal(t, label.DefaultCornerRadius, cfg.Label.CornerRadius, "unset fields keep defaults")
	assert.Equal(t, "Inter", cfg.Label.Font.Family)
	assert.Equal(t, 24.0, cfg.Label.Font.Size)
	assert.Equal(t, label.WeightBold, cfg.Label.Font.Weight)
	assert.False(t, cfg.Label.Font.MonospacedDigits)
	assert.Equal(t, "bottom-right", cfg.Display.Position)
	assert.Equal(t, 20, cfg.Display.OffsetX)
	assert.Equal(t, 30, cfg.Display.OffsetY)
	assert.Equal(t, 2, cfg.Display.Monitor)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 25, cfg.Audio.Volume)
	assert.Equal(t, "minimal", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.ColorScheme)

	bg := cfg.Style().Background
	assert.Equal(t, label.BackgroundBlur, bg.Kind)
	assert.Equal(t, label.BlurThick, bg.Blur)
}

func TestLoadDaemonConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transientlabeld.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadDaemonConfig(path)
	assert.Error(t, err)
}

func TestParseDaemonConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero delay", "[label]\ndelay = \"0s\""},
		{"negative delay", "[label]\ndelay = \"-1s\""},
		{"bad duration", "[label]\ndelay = \"soon\""},
		{"bad color", "[label]\ntext_color = \"chartreuse\""},
		{"bad background kind", "[label.background]\nkind = \"gradient\""},
		{"bad blur", "[label.background]\nkind = \"blur\"\nblur = \"frosted\""},
		{"custom without class or image", "[label.background]\nkind = \"custom\""},
		{"bad opacity", "[label.background]\nopacity = 1.5"},
		{"bad weight", "[label.font]\nweight = \"feather\""},
		{"bad position", "[display]\nposition = \"middle-ish\""},
		{"negative monitor", "[display]\nmonitor = -1"},
		{"volume too high", "[audio]\nvolume = 101"},
		{"bad color scheme", "[theme]\ncolor_scheme = \"sepia\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDaemonConfig([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidate_DelayWrapsSentinel(t *testing.T) {
	cfg := DefaultDaemonConfig()
	cfg.Label.Delay = 0
	assert.ErrorIs(t, cfg.Validate(), visibility.ErrInvalidDelay)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultDaemonConfig()
	cfg.Label.Delay = -1
	cfg.Display.Position = "middle"
	cfg.Audio.Volume = 101

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, visibility.ErrInvalidDelay)
	assert.Contains(t, err.Error(), `invalid position "middle"`)
	assert.Contains(t, err.Error(), "volume must be between 0 and 100, got 101")
}

func TestBackgroundConfig_Background(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   BackgroundConfig
		want label.Background
	}{
		{"none", BackgroundConfig{Kind: "none"}, label.NoBackground()},
		{
			"solid",
			BackgroundConfig{Kind: "solid", Color: label.RGBA(1, 2, 3, 1), Opacity: 0.5},
			label.Background{Kind: label.BackgroundSolid, Color: label.RGBA(1, 2, 3, 1), Opacity: 0.5},
		},
		{"blur", BackgroundConfig{Kind: "blur", Blur: "thin"}, label.BlurBackground(label.BlurThin)},
		{
			"custom",
			BackgroundConfig{Kind: "custom", Class: "stripes", Image: "~/bg.png"},
			label.CustomViewBackground(label.CustomBackground{Class: "stripes", Image: filepath.Join(home, "bg.png")}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Background())
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1s", time.Second},
		{"750ms", 750 * time.Millisecond},
		{"1500", 1500 * time.Millisecond},
		{"1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			require.NoError(t, d.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, d.Duration())
		})
	}

	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("later")))
}

func TestSaveDaemonConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "transientlabeld.toml")

	cfg := DefaultDaemonConfig()
	cfg.Label.Delay = Duration(2 * time.Second)
	cfg.Label.TextColor = label.MustParseColor("#11223380")
	cfg.Label.Background.Kind = "custom"
	cfg.Label.Background.Class = "checkers"
	cfg.Display.Position = string(PositionBottomLeft)

	require.NoError(t, SaveDaemonConfig(cfg, path))

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	loaded, err := LoadDaemonConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, loaded.Label.Delay.Duration())
	assert.Equal(t, "#11223380", loaded.Label.TextColor.String())
	assert.Equal(t, "checkers", loaded.Label.Background.Class)
	assert.Equal(t, string(PositionBottomLeft), loaded.Display.Position)
}

func TestDaemonConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/transientlabel/transientlabeld.toml", DaemonConfigPath())
	assert.Equal(t, "/custom/config/transientlabel/themes", ThemesDir())
}

func TestDaemonConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, DaemonConfigPath(), filepath.Join(".config", "transientlabel", "transientlabeld.toml"))
}

func TestSoundPath_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultDaemonConfig()
	cfg.Audio.Sound = "~/sounds/pop.wav"
	assert.Equal(t, filepath.Join(home, "sounds", "pop.wav"), cfg.SoundPath())

	cfg.Audio.Sound = "/abs/pop.wav"
	assert.Equal(t, "/abs/pop.wav", cfg.SoundPath())
}

func TestWatcher_Reloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transientlabeld.toml")
	require.NoError(t, os.WriteFile(path, []byte("[label]\ndelay = \"1s\"\n"), 0644))

	initial, err := LoadDaemonConfig(path)
	require.NoError(t, err)

	w := NewWatcher(path, nil)
	var reloaded atomic.Pointer[DaemonConfig]
	var failures atomic.Int32
	w.SetReloadCallback(func(c *DaemonConfig) { reloaded.Store(c) })
	w.SetErrorCallback(func(error) { failures.Add(1) })

	require.NoError(t, w.Start(initial))
	defer w.Stop()
	assert.Same(t, initial, w.Current())

	writeAtomic(t, path, "[label]\ndelay = \"3s\"\n")
	assert.Eventually(t, func() bool {
		c := reloaded.Load()
		return c != nil && c.Label.Delay.Duration() == 3*time.Second
	}, 2*time.Second, 10*time.Millisecond)

	writeAtomic(t, path, "[label]\ndelay = \"0s\"\n")
	assert.Eventually(t, func() bool { return failures.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 3*time.Second, w.Current().Label.Delay.Duration(), "invalid file keeps last valid config")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transientlabeld.toml")

	w := NewWatcher(path, nil)
	var calls atomic.Int32
	w.SetReloadCallback(func(*DaemonConfig) { calls.Add(1) })
	w.SetErrorCallback(func(error) { calls.Add(1) })
	require.NoError(t, w.Start(DefaultDaemonConfig()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0644))
	time.Sleep(100 * time.Millisecond)
	w.Stop()
	w.Stop()

	assert.Zero(t, calls.Load())
}

// writeAtomic replaces path the way editors do, so the watcher never sees
// a truncated file.
func writeAtomic(t *testing.T, path, content string) {
	t.Helper()
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0644))
	require.NoError(t, os.Rename(tmp, path))
}
