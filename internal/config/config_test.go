package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.BackendURL != "http://localhost:8080/api" {
		t.Errorf("unexpected default backend URL: %s", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("unexpected default timeout: %v", cfg.HTTPTimeout)
	}
	if cfg.DataBackend != "rest" {
		t.Errorf("unexpected default data backend: %s", cfg.DataBackend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected default log level: %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BACKEND_API_URL", "https://store.example.com/api")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("DATA_BACKEND", "memory")

	cfg := Load()
	if cfg.BackendURL != "https://store.example.com/api" {
		t.Errorf("env backend URL not applied: %s", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("env timeout not applied: %v", cfg.HTTPTimeout)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("env data backend not applied: %s", cfg.DataBackend)
	}
}

func TestLoadIgnoresMalformedDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	cfg := Load()
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("malformed duration should fall back to default, got %v", cfg.HTTPTimeout)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			BackendURL:  "http://localhost:8080/api",
			HTTPTimeout: 15 * time.Second,
			StateDBPath: t.TempDir() + "/state.db",
			DataBackend: "rest",
			LogLevel:    "info",
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"valid memory backend", func(c *Config) { c.DataBackend = "memory" }, ""},
		{"bad scheme", func(c *Config) { c.BackendURL = "ftp://host/api" }, "scheme"},
		{"missing host", func(c *Config) { c.BackendURL = "http://" }, "missing host"},
		{"timeout too small", func(c *Config) { c.HTTPTimeout = 100 * time.Millisecond }, "timeout"},
		{"bad backend", func(c *Config) { c.DataBackend = "sheets" }, "data backend"},
		{"empty db path", func(c *Config) { c.StateDBPath = "" }, "state database path"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		BackendURL:  "ftp://host/api",
		HTTPTimeout: 0,
		StateDBPath: "state.db",
		DataBackend: "sheets",
		LogLevel:    "loud",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"scheme", "timeout", "data backend", "log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("combined error missing %q: %v", want, err)
		}
	}
}
