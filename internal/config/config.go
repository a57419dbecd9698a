// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values applied by Load.
const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8585
	DefaultLogLevel    = "info"
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 4
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Database  DatabaseConfig  `toml:"database"`
	Providers ProvidersConfig `toml:"providers"`
	Upcoming  UpcomingConfig  `toml:"upcoming"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// CatalogConfig locates the JSON catalog snapshot.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig locates the SQLite cache and event log.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ProvidersConfig struct {
	TMDB   ProviderConfig `toml:"tmdb"`
	OMDb   ProviderConfig `toml:"omdb"`
	TVMaze ProviderConfig `toml:"tvmaze"`
	Trakt  ProviderConfig `toml:"trakt"`
}

// ProviderConfig configures one metadata API. BaseURL is empty for the
// public endpoint.
type ProviderConfig struct {
	APIKey  string        `toml:"api_key"`
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
}

// Enabled reports whether an API key is configured.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

type UpcomingConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Environment variables consulted when a provider key is left blank.
var providerKeyEnv = map[string]string{
	"tmdb":  "TMDB_API_KEY",
	"omdb":  "OMDB_API_KEY",
	"trakt": "TRAKT_API_KEY",
}

// Load reads, substitutes, defaults and validates the configuration file.
// Unresolved variables and validation failures come back as *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := checkLoaded(path, missing, cfg.Validate()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithoutValidation reads the configuration without validating it.
// Unresolved variables are left in place.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

// Default returns a configuration with every default applied and provider
// keys taken from the environment.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = filepath.Join(DataDir(), "catalog.json")
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(DataDir(), "cinetrack.db")
	}
	if c.Upcoming.Concurrency == 0 {
		c.Upcoming.Concurrency = DefaultConcurrency
	}

	for name, p := range map[string]*ProviderConfig{
		"tmdb":   &c.Providers.TMDB,
		"omdb":   &c.Providers.OMDb,
		"tvmaze": &c.Providers.TVMaze,
		"trakt":  &c.Providers.Trakt,
	} {
		if p.Timeout == 0 {
			p.Timeout = DefaultTimeout
		}
		if env, ok := providerKeyEnv[name]; ok && p.APIKey == "" {
			p.APIKey = os.Getenv(env)
		}
	}
}

// DataDir returns the XDG data directory for cinetrack.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cinetrack")
}

// Addr returns host:port for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Comment lines are copied through untouched. Unresolved references are
// left unchanged and reported in missing; a ":?" reference reports
// "VAR: message".
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		var m []string
		lines[i], m = substituteLine(line)
		missing = append(missing, m...)
	}
	return strings.Join(lines, ""), missing
}

func substituteLine(line string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]

		value, ok := os.LookupEnv(name)
		switch op {
		case "-":
			if !ok || value == "" {
				return arg
			}
			return value
		case "?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
