package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if cfg.ServerURL != "ws://localhost:8080/ws" {
		t.Errorf("Unexpected default server URL: %s", cfg.ServerURL)
	}
	if cfg.MinRetryDelay != time.Second || cfg.MaxRetryDelay != 5*time.Second {
		t.Errorf("Unexpected default retry delays: %s..%s", cfg.MinRetryDelay, cfg.MaxRetryDelay)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	contents := []byte(
		"server_url: wss://play.example.com/ws\n" +
			"min_retry_delay: 2s\n" +
			"max_retry_delay: 8s\n" +
			"resume_timeout: 3s\n")
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ServerURL != "wss://play.example.com/ws" {
		t.Errorf("Expected file URL, got %s", cfg.ServerURL)
	}
	if cfg.MinRetryDelay != 2*time.Second || cfg.MaxRetryDelay != 8*time.Second {
		t.Errorf("Expected file delays, got %s..%s", cfg.MinRetryDelay, cfg.MaxRetryDelay)
	}
	if cfg.ResumeTimeout != 3*time.Second {
		t.Errorf("Expected 3s resume timeout, got %s", cfg.ResumeTimeout)
	}
	// Untouched knobs keep their defaults.
	if cfg.NotificationTTL != 5*time.Second {
		t.Errorf("Expected default notification TTL, got %s", cfg.NotificationTTL)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing file should not fail: %v", err)
	}
	if cfg.ServerURL != Default().ServerURL {
		t.Errorf("Expected defaults, got %s", cfg.ServerURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvServerURL, "wss://env.example.com/ws")
	t.Setenv(EnvSessionFile, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ServerURL != "wss://env.example.com/ws" {
		t.Errorf("Expected env URL, got %s", cfg.ServerURL)
	}
	if cfg.SessionFile != "" {
		t.Errorf("Expected persistence disabled via env, got %q", cfg.SessionFile)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"http scheme", func(c *Config) { c.ServerURL = "http://example.com/ws" }},
		{"missing host", func(c *Config) { c.ServerURL = "ws://" }},
		{"zero min delay", func(c *Config) { c.MinRetryDelay = 0 }},
		{"inverted delays", func(c *Config) { c.MinRetryDelay = 10 * time.Second }},
		{"zero resume timeout", func(c *Config) { c.ResumeTimeout = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
