package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file modcheck looks for in the working directory.
const DefaultPath = ".modcheck.yaml"

// HistoryConfig represents check-run history configuration
type HistoryConfig struct {
	// Enabled enables recording of check results
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`

	// KeepDays is the number of days to keep recorded runs
	KeepDays int `yaml:"keep_days"`
}

// Config represents modcheck configuration options
type Config struct {
	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Strict rejects the (devel) placeholder version during version checks
	Strict bool `yaml:"strict"`

	// Require lists module paths that must be present in every checked binary
	Require []string `yaml:"require"`

	// History contains check-run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Strict:   false,
		Require:  nil,
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   ".modcheck/history.db",
			KeepDays: 90,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	type yamlConfig struct {
		LogLevel string        `yaml:"log_level"`
		Strict   bool          `yaml:"strict"`
		Require  []string      `yaml:"require"`
		History  HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	// Strict is explicitly set if present in YAML
	if yamlCfg.Strict {
		cfg.Strict = yamlCfg.Strict
	}
	if len(yamlCfg.Require) > 0 {
		cfg.Require = yamlCfg.Require
	}

	// Merge history config - detect whether the section and its individual
	// keys were provided at all, so an explicit "enabled: false" is honoured
	// while an absent key keeps the default.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			history := yamlCfg.History
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = history.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = history.DBPath
			}
			if _, exists := historyMap["keep_days"]; exists {
				cfg.History.KeepDays = history.KeepDays
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .modcheck.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultPath))
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}

	if c.History.KeepDays < 0 {
		return fmt.Errorf("history.keep_days must not be negative, got %d", c.History.KeepDays)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path must be set when history is enabled")
	}

	return nil
}

// StarterYAML returns the commented starter config written by "modcheck init".
func StarterYAML() []byte {
	return []byte(`# modcheck configuration
log_level: info

# Reject the (devel) placeholder version during checks
strict: false

# Module paths that must be present in every checked binary
# require:
#   - github.com/example/widget

history:
  enabled: true
  db_path: .modcheck/history.db
  keep_days: 90
`)
}
