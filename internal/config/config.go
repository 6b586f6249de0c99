// Package config loads the shop tool's configuration: a small YAML file
// with environment-variable overrides. Every field has a default, so the
// binary runs with no config at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides, applied after the file is read.
const (
	EnvDatabase = "MECHSHOP_DB"
	EnvPolicy   = "MECHSHOP_POLICY"
)

// Config holds the tool's settings.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`

	// OdometerPolicy selects how out-of-range odometer/bill input is
	// handled: "lenient" records it as entered, "strict" re-prompts.
	OdometerPolicy string `yaml:"odometer_policy"`

	// MaxIdentityRetries bounds the duplicate-identity re-prompt loop
	// when adding customers and mechanics.
	MaxIdentityRetries int `yaml:"max_identity_retries"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:           "mechshop.db",
		OdometerPolicy:     "lenient",
		MaxIdentityRetries: 5,
	}
}

// Load reads the YAML file at path, fills unset fields with defaults, and
// applies environment overrides. An empty path skips the file and returns
// defaults plus overrides. A missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv(EnvPolicy); v != "" {
		cfg.OdometerPolicy = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.OdometerPolicy {
	case "lenient", "strict":
	default:
		return fmt.Errorf("invalid odometer_policy %q: must be lenient or strict", c.OdometerPolicy)
	}
	if c.MaxIdentityRetries < 1 {
		return fmt.Errorf("max_identity_retries must be >= 1, got %d", c.MaxIdentityRetries)
	}
	if c.Database == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}
