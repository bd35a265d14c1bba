package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"subarray/internal/analysis"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "subarray.yaml"

// Config holds all subarray configuration.
type Config struct {
	// Defaults for single analyses
	Analysis AnalysisConfig `yaml:"analysis"`

	// Battery runner settings
	Battery BatteryConfig `yaml:"battery"`

	// Analysis history persistence
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AnalysisConfig selects the default analyzer.
type AnalysisConfig struct {
	Algorithm string  `yaml:"algorithm"` // kadane, prefixsum
	Target    float64 `yaml:"target"`    // prefixsum only
}

// BatteryConfig configures case suite execution.
type BatteryConfig struct {
	Parallelism int     `yaml:"parallelism"`
	Tolerance   float64 `yaml:"tolerance"` // allowed |want-got| on totals
}

// HistoryConfig configures the SQLite history store.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path"` // empty disables history
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Algorithm: analysis.AlgorithmKadane,
			Target:    0,
		},
		Battery: BatteryConfig{
			Parallelism: 4,
			Tolerance:   1e-9,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if config file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if algo := os.Getenv("SUBARRAY_ALGORITHM"); algo != "" {
		c.Analysis.Algorithm = algo
	}
	if raw := os.Getenv("SUBARRAY_TARGET"); raw != "" {
		// Malformed targets are ignored, the file value stays.
		if target, err := strconv.ParseFloat(raw, 64); err == nil {
			c.Analysis.Target = target
		}
	}
	if path := os.Getenv("SUBARRAY_HISTORY_DB"); path != "" {
		c.History.DatabasePath = path
	}
	if level := os.Getenv("SUBARRAY_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// HistoryEnabled returns whether analyses should be persisted.
func (c *Config) HistoryEnabled() bool {
	return c.History.DatabasePath != ""
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := analysis.New(c.Analysis.Algorithm, c.Analysis.Target); err != nil {
		return fmt.Errorf("analysis.algorithm: %w", err)
	}
	if c.Battery.Parallelism < 1 {
		return fmt.Errorf("battery.parallelism must be >= 1, got %d", c.Battery.Parallelism)
	}
	if c.Battery.Tolerance < 0 {
		return fmt.Errorf("battery.tolerance must be >= 0, got %v", c.Battery.Tolerance)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
