package config

import "fmt"

// Supported log encodings.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Validate checks the log format. Levels are checked when the logger is built.
func (c *LoggingConfig) Validate() error {
	switch c.Format {
	case "", LogFormatConsole, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (valid: %s, %s)", c.Format, LogFormatConsole, LogFormatJSON)
	}
}
