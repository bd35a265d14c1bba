// Package battery runs YAML-defined suites of subarray analysis cases.
// Each case names an algorithm, its input and, optionally, the expected
// range. Batteries are used as regression checks and from the CLI.
package battery

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only battery file version understood.
const SupportedVersion = 1

// ErrInvalidBattery is wrapped by every validation failure.
var ErrInvalidBattery = errors.New("invalid battery")

// Battery is a collection of analysis cases.
type Battery struct {
	Version   int      `yaml:"version"`
	Tolerance *float64 `yaml:"tolerance,omitempty"` // overrides the runner tolerance
	Cases     []Case   `yaml:"cases"`
}

// Case is a single analysis to run.
type Case struct {
	ID        string       `yaml:"id"`
	Algorithm string       `yaml:"algorithm"`
	Target    float64      `yaml:"target,omitempty"`
	Values    []float64    `yaml:"values"`
	Expect    *Expectation `yaml:"expect,omitempty"`
}

// Expectation is the result a case must produce. Start and End of -1 expect
// no matching subarray.
type Expectation struct {
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Total float64 `yaml:"total"`
}

// Load reads a YAML battery file from disk.
func Load(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML battery.
func Parse(data []byte) (*Battery, error) {
	var b Battery
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse battery YAML: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the version and case identifiers. Algorithm names are
// resolved at run time so one bad case does not reject the whole battery.
func (b *Battery) Validate() error {
	if b.Version != SupportedVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidBattery, b.Version)
	}
	if b.Tolerance != nil && *b.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %v", ErrInvalidBattery, *b.Tolerance)
	}
	seen := make(map[string]bool, len(b.Cases))
	for i, c := range b.Cases {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("%w: case %d has no id", ErrInvalidBattery, i)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate case id %q", ErrInvalidBattery, id)
		}
		seen[id] = true
	}
	return nil
}
