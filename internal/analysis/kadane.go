package analysis

import "math"

// MaxSum finds the contiguous range with the greatest sum using Kadane's
// algorithm. O(n) time, O(1) space.
type MaxSum struct{}

// NewMaxSum creates a maximum-sum analyzer.
func NewMaxSum() MaxSum { return MaxSum{} }

// Name returns "Kadane".
func (MaxSum) Name() string { return "Kadane" }

// Analyze returns the earliest range with the maximum sum. An all-negative
// input yields its least negative element; an empty input yields NoResult.
func (MaxSum) Analyze(values []float64) Result {
	if len(values) == 0 {
		return NoResult()
	}

	maxSum := math.Inf(-1)
	currentSum := 0.0
	start, end := 0, 0
	tempStart := 0 // first index of the range currently accumulating

	for i, v := range values {
		currentSum += v

		// Strict comparison keeps the earliest maximal range on ties.
		if currentSum > maxSum {
			maxSum = currentSum
			start = tempStart
			end = i
		}

		if currentSum < 0 {
			currentSum = 0
			tempStart = i + 1
		}
	}

	return NewResult(start, end, maxSum)
}
