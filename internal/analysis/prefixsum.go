package analysis

// TargetSum finds the longest contiguous range whose elements sum exactly to
// a fixed target, using a map from prefix sum to its first index.
//
// Prefix sums are matched by exact float equality. Accumulated rounding can
// hide a range that sums to target in exact arithmetic. A NaN prefix sum
// never matches anything, so no range ending after a NaN element is found,
// and -0 and +0 are the same key.
type TargetSum struct {
	target float64
}

// NewTargetSum creates a prefix-sum analyzer for target.
func NewTargetSum(target float64) TargetSum {
	return TargetSum{target: target}
}

// Name returns "PrefixSum".
func (TargetSum) Name() string { return "PrefixSum" }

// Target returns the configured target sum.
func (a TargetSum) Target() float64 { return a.target }

// Analyze returns the longest range summing to the target. Among ranges of
// equal length the one found first, which is the leftmost, wins. The
// reported total is the target itself.
func (a TargetSum) Analyze(values []float64) Result {
	firstSeen := make(map[float64]int, len(values)+1)
	firstSeen[0] = -1 // ranges starting at index 0

	sum := 0.0
	bestLen := 0
	start, end := 0, noIndex

	for i, v := range values {
		sum += v

		if prev, ok := firstSeen[sum-a.target]; ok && i-prev > bestLen {
			bestLen = i - prev
			start = prev + 1
			end = i
		}

		// Only the first occurrence is kept; it gives the longest range.
		if _, ok := firstSeen[sum]; !ok {
			firstSeen[sum] = i
		}
	}

	if end == noIndex {
		return NoResult()
	}
	return NewResult(start, end, a.target)
}
