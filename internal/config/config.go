package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage modes.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Config holds all physbank configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the problem backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
	Debug   bool   `yaml:"debug"` // log request/response payloads
}

// StorageConfig selects the problem store.
type StorageConfig struct {
	Mode string `yaml:"mode"` // remote, local
	Path string `yaml:"path"` // SQLite file for local mode
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5174",
			Timeout: "30s",
		},
		Storage: StorageConfig{
			Mode: ModeRemote,
			Path: defaultDataPath("storage.db"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultPath returns ~/.physbank/config.yaml.
func DefaultPath() string {
	return defaultDataPath("config.yaml")
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".physbank", name)
	}
	return filepath.Join(home, ".physbank", name)
}

// Load reads the config at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PHYSBANK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PHYSBANK_MODE"); v != "" {
		c.Storage.Mode = v
	}
	if v := os.Getenv("PHYSBANK_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("PHYSBANK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the config for values the CLI cannot work with.
func (c *Config) Validate() error {
	switch c.Storage.Mode {
	case ModeRemote:
		if c.API.BaseURL == "" {
			return fmt.Errorf("api.base_url is required in %s mode", ModeRemote)
		}
	case ModeLocal:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required in %s mode", ModeLocal)
		}
	default:
		return fmt.Errorf("invalid storage.mode %q: must be %s or %s", c.Storage.Mode, ModeRemote, ModeLocal)
	}

	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api.timeout: %w", err)
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	return nil
}

// GetTimeout returns the API timeout, falling back to 30s.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
