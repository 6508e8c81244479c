// Package config loads plccompress's configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var globalConfigPath string

// SetConfigPath sets a custom config path for the current session
// (set via the --config global flag).
func SetConfigPath(path string) {
	globalConfigPath = path
}

const (
	// ConfigFileName is the name of the config file.
	ConfigFileName = "config.yaml"

	// DefaultConfigDir is the default directory for plccompress
	// configuration, relative to the user's home directory.
	DefaultConfigDir = ".config/plccompress"
)

// Config is plccompress's configuration.
type Config struct {
	// DatabasePath is the SQLite mirror database path that the compress
	// and stats commands read operations from.
	DatabasePath string `yaml:"database_path" validate:"required"`

	// SpamThresholdBytes mirrors the large_operation spam detection
	// threshold. No command reads it: batch compression runs skip only
	// DIDs already flagged in the did_spam table.
	SpamThresholdBytes int `yaml:"spam_threshold_bytes" validate:"min=0"`

	// BatchSize is how many identities' chains a batch run compresses
	// before reporting progress.
	BatchSize int `yaml:"batch_size" validate:"min=1"`
}

var validate = validator.New()

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:       "plc_mirror.sqlite",
		SpamThresholdBytes: 3000,
		BatchSize:          10000,
	}
}

// GetConfigPath returns the default config file path.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultConfigDir, ConfigFileName), nil
}

// Load reads the configuration, using the custom path set via
// SetConfigPath if any, otherwise the default path. A missing file is
// not an error: it yields the default configuration.
func Load() (*Config, error) {
	path := globalConfigPath
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
