// Package config loads the kmb configuration from a TOML file, the
// environment, and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment variables overriding the configuration file.
const (
	EnvAPIKey   = "GEMINI_API_KEY"
	EnvStore    = "KOMOREBI_STORE"
	EnvDriver   = "KOMOREBI_DRIVER"
	EnvLogLevel = "KOMOREBI_LOG_LEVEL"
)

// Config holds all configuration for kmb.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Gemini  GeminiConfig  `toml:"gemini"`
	Refresh RefreshConfig `toml:"refresh"`
	Logging LoggingConfig `toml:"logging"`
}

// StoreConfig selects where holdings are saved.
type StoreConfig struct {
	Driver string `toml:"driver"` // "file" or "sqlite"
	Path   string `toml:"path"`   // directory for "file", database file for "sqlite"
}

// GeminiConfig holds Gemini API configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// RefreshConfig tunes quote refreshes.
type RefreshConfig struct {
	Timeout     string `toml:"timeout"`      // per refresh, e.g. "60s"
	CacheTTL    string `toml:"cache_ttl"`    // "0" disables the cache
	MinInterval string `toml:"min_interval"` // between two upstream calls
	Match       string `toml:"match"`        // "substring" or "exact"
	Schedule    string `toml:"schedule"`     // cron spec used by watch
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Driver: "file", Path: defaultStorePath()},
		Refresh: RefreshConfig{
			Timeout:     "60s",
			CacheTTL:    "5m",
			MinInterval: "10s",
			Match:       "substring",
			Schedule:    "*/15 * * * *",
		},
		Logging: LoggingConfig{Level: "warn"},
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".komorebi"
	}
	return filepath.Join(dir, "komorebi")
}

// Load reads the configuration file at path over the defaults, then
// applies the environment. A missing file is not an error. Variables from
// a .env file in the working directory are loaded first, without
// overriding the real environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv(EnvDriver); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the durations and enumerations.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"refresh.timeout":      c.Refresh.Timeout,
		"refresh.cache_ttl":    c.Refresh.CacheTTL,
		"refresh.min_interval": c.Refresh.MinInterval,
	} {
		if _, err := parseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	switch c.Refresh.Match {
	case "", "substring", "exact":
	default:
		return fmt.Errorf("invalid refresh.match %q, want \"substring\" or \"exact\"", c.Refresh.Match)
	}
	switch c.Store.Driver {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("invalid store.driver %q, want \"file\" or \"sqlite\"", c.Store.Driver)
	}
	return nil
}

// GetTimeout returns the refresh timeout, 0 meaning none.
func (c *RefreshConfig) GetTimeout() time.Duration { return mustDuration(c.Timeout) }

// GetCacheTTL returns how long quotes are cached, 0 meaning no cache.
func (c *RefreshConfig) GetCacheTTL() time.Duration { return mustDuration(c.CacheTTL) }

// GetMinInterval returns the minimum interval between upstream calls.
func (c *RefreshConfig) GetMinInterval() time.Duration { return mustDuration(c.MinInterval) }

func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// mustDuration is only called on validated values.
func mustDuration(s string) time.Duration {
	d, err := parseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
