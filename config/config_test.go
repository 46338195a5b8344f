package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvDriver, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != "file" {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, "file")
	}
	if got := cfg.Refresh.GetTimeout(); got != time.Minute {
		t.Errorf("GetTimeout() = %v, want %v", got, time.Minute)
	}
	if got := cfg.Refresh.GetCacheTTL(); got != 5*time.Minute {
		t.Errorf("GetCacheTTL() = %v, want %v", got, 5*time.Minute)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "komorebi.toml")
	content := `
[store]
driver = "sqlite"
path = "/tmp/komorebi.db"

[gemini]
api_key = "from-file"
model = "gemini-2.5-flash"

[refresh]
cache_ttl = "0"
match = "exact"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvDriver, "")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "/tmp/komorebi.db" {
		t.Errorf("Store = %+v, want sqlite at /tmp/komorebi.db", cfg.Store)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("Gemini.APIKey = %q, want the environment to win", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q, want %q", cfg.Gemini.Model, "gemini-2.5-flash")
	}
	if cfg.Refresh.GetCacheTTL() != 0 {
		t.Errorf("GetCacheTTL() = %v, want 0", cfg.Refresh.GetCacheTTL())
	}
	if cfg.Refresh.Timeout != "60s" {
		t.Errorf("Refresh.Timeout = %q, want the default to be kept", cfg.Refresh.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"bad toml", "[store"},
		{"bad duration", "[refresh]\ntimeout = \"soon\""},
		{"bad match", "[refresh]\nmatch = \"fuzzy\""},
		{"bad driver", "[store]\ndriver = \"redis\""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvDriver, "")
			path := filepath.Join(t.TempDir(), "komorebi.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want an error")
			}
		})
	}
}
