package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names a config file explicitly and disables the search.
const EnvConfig = "CINETRACK_CONFIG"

// ErrNotFound is returned by Discover when no search path holds a config.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG config location, where `config init` writes.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cinetrack", "config.toml")
}

// SearchPaths lists the locations Discover checks, in order.
func SearchPaths() []string {
	return []string{
		"config.toml",
		DefaultPath(),
		"/etc/cinetrack/config.toml",
	}
}

// Discover returns $CINETRACK_CONFIG if set, else the first SearchPaths
// entry that is a regular file. A set but unreadable $CINETRACK_CONFIG is
// an error, never a fallback.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
