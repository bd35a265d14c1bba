// Package analysis implements the subarray analyzers: a maximum-sum search
// (Kadane) and a longest-range-with-target-sum search (prefix sums). Both
// return a Result so callers can swap one for the other.
package analysis

import "fmt"

// noIndex marks a Result that describes no range.
const noIndex = -1

// Result describes a contiguous range [StartIndex, EndIndex] (both inclusive)
// and the total associated with it. Immutable value object.
type Result struct {
	startIndex int
	endIndex   int
	total      float64
}

// NewResult creates a Result. No validation is performed; analyzers keep
// both indices at -1 or both valid with start <= end.
func NewResult(startIndex, endIndex int, total float64) Result {
	return Result{
		startIndex: startIndex,
		endIndex:   endIndex,
		total:      total,
	}
}

// NoResult returns the sentinel (-1, -1, 0).
func NoResult() Result {
	return NewResult(noIndex, noIndex, 0)
}

// StartIndex returns the inclusive start of the range, or -1.
func (r Result) StartIndex() int { return r.startIndex }

// EndIndex returns the inclusive end of the range, or -1.
func (r Result) EndIndex() int { return r.endIndex }

// Total returns the aggregate value of the range.
func (r Result) Total() float64 { return r.total }

// Found reports whether the result describes a range.
func (r Result) Found() bool {
	return r.startIndex != noIndex && r.endIndex != noIndex
}

// Len returns the number of elements in the range, 0 for the sentinel.
func (r Result) Len() int {
	if !r.Found() {
		return 0
	}
	return r.endIndex - r.startIndex + 1
}

func (r Result) String() string {
	return fmt.Sprintf("StartIndex: %d, EndIndex: %d, Total: %v", r.startIndex, r.endIndex, r.total)
}
