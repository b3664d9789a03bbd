package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// Environment variable overrides.
const (
	EnvServerURL   = "RESISTANCE_SERVER_URL"
	EnvSessionFile = "RESISTANCE_SESSION_FILE"
)

// Config carries every tunable of the session layer.
type Config struct {
	// ServerURL is the websocket endpoint of the game server.
	ServerURL string `yaml:"server_url"`

	// SessionFile is where the session triple is persisted. Empty disables
	// persistence.
	SessionFile string `yaml:"session_file"`

	// MinRetryDelay and MaxRetryDelay bound the reconnect backoff. Retries
	// themselves are unbounded; a client left open keeps trying.
	MinRetryDelay time.Duration `yaml:"min_retry_delay"`
	MaxRetryDelay time.Duration `yaml:"max_retry_delay"`

	// HandshakeTimeout bounds a single dial attempt.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`

	// ResumeTimeout bounds how long a resume attempt may block room UI
	// before it is treated as failed.
	ResumeTimeout time.Duration `yaml:"resume_timeout"`

	// NotificationTTL is how long notifications stay active.
	NotificationTTL time.Duration `yaml:"notification_ttl"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		ServerURL:        "ws://localhost:8080/ws",
		SessionFile:      defaultSessionFile(),
		MinRetryDelay:    time.Second,
		MaxRetryDelay:    5 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		ResumeTimeout:    10 * time.Second,
		NotificationTTL:  5 * time.Second,
	}
}

// rawConfig is the YAML shape of the config file. Durations are strings in
// Go duration syntax ("1s", "500ms"); yaml.v2 has no native duration
// support.
type rawConfig struct {
	ServerURL        string  `yaml:"server_url"`
	SessionFile      *string `yaml:"session_file"`
	MinRetryDelay    string  `yaml:"min_retry_delay"`
	MaxRetryDelay    string  `yaml:"max_retry_delay"`
	HandshakeTimeout string  `yaml:"handshake_timeout"`
	ResumeTimeout    string  `yaml:"resume_timeout"`
	NotificationTTL  string  `yaml:"notification_ttl"`
}

// Load builds the effective configuration. A missing file is not an error;
// an unreadable or malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := cfg.applyFile(data); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyFile overlays file values onto the defaults.
func (c *Config) applyFile(data []byte) error {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if raw.ServerURL != "" {
		c.ServerURL = raw.ServerURL
	}
	if raw.SessionFile != nil {
		c.SessionFile = *raw.SessionFile
	}

	durations := []struct {
		value  string
		target *time.Duration
		field  string
	}{
		{raw.MinRetryDelay, &c.MinRetryDelay, "min_retry_delay"},
		{raw.MaxRetryDelay, &c.MaxRetryDelay, "max_retry_delay"},
		{raw.HandshakeTimeout, &c.HandshakeTimeout, "handshake_timeout"},
		{raw.ResumeTimeout, &c.ResumeTimeout, "resume_timeout"},
		{raw.NotificationTTL, &c.NotificationTTL, "notification_ttl"},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.field, err)
		}
		*d.target = parsed
	}
	return nil
}

// applyEnv lets the environment override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v, ok := os.LookupEnv(EnvSessionFile); ok {
		c.SessionFile = v
	}
}

// Validate checks the configuration for values the session layer cannot
// run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server URL scheme must be ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL is missing a host")
	}
	if c.MinRetryDelay <= 0 || c.MaxRetryDelay <= 0 {
		return fmt.Errorf("retry delays must be positive")
	}
	if c.MinRetryDelay > c.MaxRetryDelay {
		return fmt.Errorf("min retry delay %s exceeds max %s", c.MinRetryDelay, c.MaxRetryDelay)
	}
	if c.ResumeTimeout <= 0 {
		return fmt.Errorf("resume timeout must be positive")
	}
	return nil
}

// defaultSessionFile places the session under the user config directory,
// falling back to the working directory when none is available.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".resistance-session.json"
	}
	return filepath.Join(dir, "resistance", "session.json")
}
