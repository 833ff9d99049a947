package util

import "math"

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RoundedDiv returns num/den rounded half away from zero. A zero denominator
// yields 0, not an error.
func RoundedDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return int64(math.Round(float64(num) / float64(den)))
}
