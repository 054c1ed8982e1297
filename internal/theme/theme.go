package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importPattern matches @import "x.css", @import 'x.css' and
// @import url("x.css"), with or without the trailing semicolon.
var importPattern = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a stylesheet with every @import inlined.
type Theme struct {
	Name    string
	Path    string // Empty for builtin themes
	CSS     string
	ModTime time.Time
	Builtin bool
}

// Load reads the user theme at path.
func Load(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     Inline(string(data), filepath.Dir(path)),
		ModTime: info.ModTime(),
	}, nil
}

// LoadBuiltin returns the bundled theme called name.
func LoadBuiltin(name string) (*Theme, bool) {
	css, ok := Bundled(name)
	if !ok {
		return nil, false
	}
	return &Theme{Name: name, CSS: Inline(css, ""), Builtin: true}, true
}

// Inline replaces each @import in css with the imported stylesheet.
// Relative references are looked up in dir first and then among the
// bundled partials and themes. Each file is inlined at most once, which
// also breaks import cycles.
func Inline(css, dir string) string {
	in := &inliner{seen: make(map[string]bool)}
	return in.inline(css, dir)
}

type inliner struct {
	seen map[string]bool
}

func (in *inliner) inline(css, dir string) string {
	return importPattern.ReplaceAllStringFunc(css, func(stmt string) string {
		m := importPattern.FindStringSubmatch(stmt)
		if len(m) < 2 {
			return stmt
		}
		ref := m[1]

		file := ref
		if !filepath.IsAbs(ref) {
			file = filepath.Join(dir, ref)
		}
		if in.seen[file] {
			return fmt.Sprintf("/* skipped circular import %s */", ref)
		}
		in.seen[file] = true

		data, err := os.ReadFile(file)
		if err == nil {
			return fmt.Sprintf("/* from %s */\n%s", ref, in.inline(string(data), filepath.Dir(file)))
		}
		if bundled, ok := in.builtin(ref); ok {
			return fmt.Sprintf("/* from bundled %s */\n%s", ref, bundled)
		}
		return fmt.Sprintf("/* missing import %s: %v */", ref, err)
	})
}

// builtin resolves ref against the embedded stylesheets.
func (in *inliner) builtin(ref string) (string, bool) {
	base := filepath.Base(ref)
	if strings.HasPrefix(base, partialPrefix) {
		return BundledPartial(base)
	}
	css, ok := Bundled(strings.TrimSuffix(base, ".css"))
	if !ok {
		return "", false
	}
	return in.inline(css, ""), true
}

// Resolve finds a theme by name: a file in themesDir first, then the
// bundled themes. Unknown names fall back to the default theme and
// found is false. err reports a user theme that exists but could not be
// read; a usable theme is returned regardless.
func Resolve(name, themesDir string) (theme *Theme, found bool, err error) {
	if name == "" {
		name = DefaultThemeName
	}

	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		if _, statErr := os.Stat(path); statErr == nil {
			user, loadErr := Load(name, path)
			if loadErr == nil {
				return user, true, nil
			}
			err = fmt.Errorf("theme %s: %w", name, loadErr)
		}
	}

	if builtin, ok := LoadBuiltin(name); ok {
		return builtin, true, err
	}
	def, _ := LoadBuiltin(DefaultThemeName)
	return def, false, err
}

// Entry describes one selectable theme.
type Entry struct {
	Name    string
	Path    string // Set when a user file provides or overrides the theme
	Default bool
	Builtin bool
}

// List returns the bundled themes followed by the user themes in
// themesDir. A user file overriding a bundled theme is reported on the
// bundled entry.
func List(themesDir string) ([]Entry, error) {
	names := BundledNames()
	entries := make([]Entry, 0, len(names))
	index := make(map[string]int, len(names))
	for _, name := range names {
		index[name] = len(entries)
		entries = append(entries, Entry{Name: name, Default: name == DefaultThemeName, Builtin: true})
	}

	if themesDir == "" {
		return entries, nil
	}
	files, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return entries, fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, f := range files {
		file := f.Name()
		if f.IsDir() || filepath.Ext(file) != ".css" || strings.HasPrefix(file, partialPrefix) {
			continue
		}
		name := strings.TrimSuffix(file, ".css")
		path := filepath.Join(themesDir, file)
		if i, ok := index[name]; ok {
			entries[i].Path = path
			continue
		}
		index[name] = len(entries)
		entries = append(entries, Entry{Name: name, Path: path})
	}
	return entries, nil
}
