package ircore

import (
	"fmt"
	"sort"
)

// interpLinearClamp linearly interpolates y=f(x) at xq, using flat
// extrapolation (the nearest endpoint value) beyond the ends of xs. xs
// must be strictly increasing.
func interpLinearClamp(xs, ys []float64, xq float64) float64 {
	n := len(xs)
	if xq <= xs[0] {
		return ys[0]
	}
	if xq >= xs[n-1] {
		return ys[n-1]
	}
	j := sort.SearchFloat64s(xs, xq)
	// xs[j-1] < xq <= xs[j]
	x0, x1 := xs[j-1], xs[j]
	y0, y1 := ys[j-1], ys[j]
	w := (xq - x0) / (x1 - x0)
	return y0 + w*(y1-y0)
}

// interpLinearStrict linearly interpolates y=f(x) at xq, failing with
// MissingInitialCurve if xq falls outside [xs[0], xs[n-1]].
func interpLinearStrict(xs, ys []float64, xq float64) (float64, error) {
	n := len(xs)
	if xq < xs[0] || xq > xs[n-1] {
		return 0, fmt.Errorf("%w: query %v outside curve domain [%v,%v]", ErrMissingInitialCurve, xq, xs[0], xs[n-1])
	}
	return interpLinearClamp(xs, ys, xq), nil
}

// sortUniqueFloats returns the sorted, deduplicated union of the given
// slices (spec.md §4.F step 1, and §4.G.5's dense-grid construction).
func sortUniqueFloats(slices ...[]float64) []float64 {
	var all []float64
	for _, s := range slices {
		all = append(all, s...)
	}
	sort.Float64s(all)

	out := all[:0:0]
	for i, v := range all {
		if i == 0 || v != all[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// centeredDiff returns the derivative of y with respect to x at every node
// of a (possibly non-uniform) strictly increasing grid x, using an
// edge-aware three-point stencil: a centred difference at interior nodes
// and a one-sided difference at the two ends.
func centeredDiff(x, y []float64) []float64 {
	n := len(x)
	d := make([]float64, n)
	if n == 1 {
		return d
	}
	d[0] = (y[1] - y[0]) / (x[1] - x[0])
	d[n-1] = (y[n-1] - y[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		h1 := x[i] - x[i-1]
		h2 := x[i+1] - x[i]
		d[i] = (h2*h2*y[i-1]*(-1) + (h2*h2-h1*h1)*y[i] + h1*h1*y[i+1]) / (h1 * h2 * (h1 + h2))
	}
	return d
}

// binarySearchFloat returns the index of the largest element of xs that is
// <= xq, assuming xs is sorted ascending and xq is within range.
func binarySearchFloat(xs []float64, xq float64) int {
	j := sort.SearchFloat64s(xs, xq)
	if j < len(xs) && xs[j] == xq {
		return j
	}
	return j - 1
}
