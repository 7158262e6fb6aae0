// Package config holds agenthub configuration. Configuration is loaded from
// a YAML file under the user's home directory, after which environment
// variables (optionally sourced from a .env file) override individual fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all agenthub configuration.
type Config struct {
	// Backend API settings
	API APIConfig `yaml:"api"`

	// Session credential storage
	Session SessionConfig `yaml:"session"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// TUI settings
	UI UIConfig `yaml:"ui"`
}

// APIConfig configures the backend gateway.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// SessionConfig configures where the session credential is persisted.
type SessionConfig struct {
	CredentialsPath string `yaml:"credentials_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`  // log file; empty means stderr
}

// UIConfig configures the chat TUI.
type UIConfig struct {
	Theme string `yaml:"theme"` // auto, dark, light
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000/api",
			Timeout: "30s",
		},
		Session: SessionConfig{
			CredentialsPath: filepath.Join(home, ".agenthub", "session"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agenthub", "config.yaml")
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist, then applies environment overrides. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	// .env is optional; its values only matter through the env overrides.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values. Only set
// variables override.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AGENTHUB_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("AGENTHUB_API_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("AGENTHUB_CREDENTIALS_PATH"); v != "" {
		c.Session.CredentialsPath = v
	}
	if v := os.Getenv("AGENTHUB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AGENTHUB_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("config: invalid api.timeout %q: %w", c.API.Timeout, err)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid logging.level %q", c.Logging.Level)
	}
	return nil
}

// RequestTimeout parses the API timeout, defaulting to 30s.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}
