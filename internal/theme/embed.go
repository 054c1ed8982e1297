package theme

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// DefaultThemeName is the theme used when none is configured or the
// configured one cannot be found.
const DefaultThemeName = "default"

//go:embed themes/*.css
var bundledFS embed.FS

const bundledDir = "themes"

// partialPrefix marks CSS files that are only meant to be imported.
const partialPrefix = "_"

// Bundled returns the raw CSS of a bundled theme. Imports are left as is.
func Bundled(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, partialPrefix) {
		return "", false
	}
	return readBundled(name + ".css")
}

// BundledPartial returns the raw CSS of a bundled partial. The leading
// underscore and the .css extension are optional.
func BundledPartial(name string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimPrefix(name, partialPrefix), ".css")
	if name == "" {
		return "", false
	}
	return readBundled(partialPrefix + name + ".css")
}

// BundledNames returns the sorted names of the bundled themes.
func BundledNames() []string {
	entries, err := fs.ReadDir(bundledFS, bundledDir)
	if err != nil {
		return []string{DefaultThemeName}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || strings.HasPrefix(file, partialPrefix) || path.Ext(file) != ".css" {
			continue
		}
		names = append(names, strings.TrimSuffix(file, ".css"))
	}
	slices.Sort(names)
	return names
}

// IsBundled reports whether name is a bundled theme.
func IsBundled(name string) bool {
	_, ok := Bundled(name)
	return ok
}

func readBundled(file string) (string, bool) {
	data, err := bundledFS.ReadFile(path.Join(bundledDir, file))
	if err != nil {
		return "", false
	}
	return string(data), true
}
