package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./tonemill.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tonemill", "config.toml")
}

// Discover finds the config file, if any. Search order:
//  1. TONEMILL_CONFIG environment variable
//  2. ./tonemill.toml (current directory)
//  3. $XDG_CONFIG_HOME/tonemill/config.toml
//
// Unlike the input path, a missing config file is not an error: the
// built-in defaults carry a run on their own.
func Discover() string {
	if envPath := os.Getenv("TONEMILL_CONFIG"); envPath != "" {
		return envPath
	}
	for _, p := range []string{"./tonemill.toml", DefaultPath()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
