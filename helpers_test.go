package ircore

import "math"

// almostEqual compares floats with an absolute tolerance, in the teacher's
// test style.
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
