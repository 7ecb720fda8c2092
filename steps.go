package outline

import "math/bits"

// StepWidths returns the jump-flood step-width sequence for a buffer of the
// given size: powers of two from 2^(k-1) down to 1, where
// k = ceil(log2(max(width, height))). The first step reaches across half of
// the next power of two, so 1024 pixels yield 10 passes (512 ... 1) and 1000
// pixels yield the same 10.
//
// The sequence always ends at 1 and is never empty for a non-empty buffer.
func StepWidths(width, height int) []int {
	maxDim := max(width, height)
	if maxDim <= 0 {
		return nil
	}
	k := 0
	if maxDim > 1 {
		k = bits.Len(uint(maxDim - 1)) // ceil(log2(maxDim))
	}
	if k == 0 {
		return []int{1}
	}
	steps := make([]int, 0, k)
	for s := 1 << (k - 1); s >= 1; s >>= 1 {
		steps = append(steps, s)
	}
	return steps
}
