package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

const maxConcurrency = 32

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Catalog.Path == "" {
		errs = append(errs, "catalog.path: required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	for name, p := range map[string]ProviderConfig{
		"tmdb":   c.Providers.TMDB,
		"omdb":   c.Providers.OMDb,
		"tvmaze": c.Providers.TVMaze,
		"trakt":  c.Providers.Trakt,
	} {
		if p.Timeout < 0 {
			errs = append(errs, fmt.Sprintf("providers.%s.timeout: must not be negative", name))
		}
		if p.BaseURL != "" {
			if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, fmt.Sprintf("providers.%s.base_url: invalid URL %q", name, p.BaseURL))
			}
		}
	}

	if c.Upcoming.Concurrency < 0 || c.Upcoming.Concurrency > maxConcurrency {
		errs = append(errs, fmt.Sprintf("upcoming.concurrency: must be between 1 and %d, got %d", maxConcurrency, c.Upcoming.Concurrency))
	}

	return errs
}
