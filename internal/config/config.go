// Package config handles configuration file loading and parsing.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "transientlabel"

// ConfigDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName)
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() string {
	return filepath.Join(ConfigDir(), "transientlabeld.toml")
}

// ThemesDir returns the directory searched for user themes.
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
