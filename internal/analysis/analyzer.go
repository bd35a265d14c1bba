package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Analyzer finds a contiguous subarray of values matching its criterion.
// Implementations hold only immutable configuration and are safe for
// concurrent use.
type Analyzer interface {
	// Analyze never mutates values. A nil slice is treated as empty.
	Analyze(values []float64) Result
	// Name returns a fixed identifier, used for diagnostics only.
	Name() string
}

// Canonical algorithm names accepted by New.
const (
	AlgorithmKadane    = "kadane"
	AlgorithmPrefixSum = "prefixsum"
)

// ErrUnknownAlgorithm is returned by New for names it cannot resolve.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

type factory func(target float64) Analyzer

var registry = map[string]factory{
	AlgorithmKadane:    func(float64) Analyzer { return NewMaxSum() },
	AlgorithmPrefixSum: func(target float64) Analyzer { return NewTargetSum(target) },
}

var aliases = map[string]string{
	"maxsum":    AlgorithmKadane,
	"targetsum": AlgorithmPrefixSum,
}

// New resolves an analyzer by name (case-insensitive). target is only used
// by the prefix-sum analyzer.
func New(name string, target float64) (Analyzer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
	}
	return f(target), nil
}

// Algorithms returns the canonical algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
