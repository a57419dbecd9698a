package config

import (
	"fmt"
	"strings"
)

// ConfigError reports everything wrong with a config file at once:
// unresolved ${VAR} references and validation failures.
type ConfigError struct {
	Path    string
	Missing []string // "VAR" or "VAR: message" for ${VAR:?message}
	Errors  []string // "section.key: problem"
}

// checkLoaded returns a *ConfigError when missing or problems is non-empty.
func checkLoaded(path string, missing, problems []string) error {
	if len(missing) == 0 && len(problems) == 0 {
		return nil
	}
	return &ConfigError{Path: path, Missing: missing, Errors: problems}
}

func (e *ConfigError) Error() string {
	if len(e.Missing) == 0 && len(e.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("validation failed:")
		for _, msg := range e.Errors {
			fmt.Fprintf(&b, "\n  - %s", msg)
		}
	}
	return b.String()
}
