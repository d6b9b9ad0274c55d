package ircore

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// quantile returns the p-quantile (p in [0,1]) of samples using linear
// interpolation between order statistics. samples is copied and sorted;
// the caller's slice is left untouched.
func quantile(p float64, samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// meanStd returns the sample mean and (ddof=1) standard deviation.
func meanStd(samples []float64) (mean, std float64) {
	mean, variance := stat.MeanVariance(samples, nil)
	return mean, math.Sqrt(variance)
}

// rms returns the root-mean-square of samples.
func rms(samples []float64) float64 {
	var sumSq float64
	for _, v := range samples {
		sumSq += v * v
	}
	return math.Sqrt(sumSq / float64(len(samples)))
}

// maxAbs returns the maximum absolute value in samples.
func maxAbs(samples []float64) float64 {
	var m float64
	for _, v := range samples {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// interpolateRowLinear linearly interpolates a per-pillar row (length K,
// at maturities M) to a single target maturity, with flat extrapolation
// beyond the end pillars. Used by the wedge validator (§4.G.4), which
// calls it once per path for linear interpolation in maturity (spec.md §9
// "Interpolation helper").
func interpolateRowLinear(M []float64, row []float64, target float64) float64 {
	return interpLinearClamp(M, row, target)
}

// denseMaturityGrid builds the dense maturity axis of spec.md §4.G.5:
// `pointsPerInterval` equally spaced, endpoint-excluded points inserted
// per pillar interval, with the final pillar appended and duplicates
// removed.
func denseMaturityGrid(M []float64, pointsPerInterval int) []float64 {
	var out []float64
	out = append(out, M[0])
	for k := 0; k < len(M)-1; k++ {
		lo, hi := M[k], M[k+1]
		for j := 1; j <= pointsPerInterval; j++ {
			w := float64(j) / float64(pointsPerInterval+1)
			out = append(out, lo+w*(hi-lo))
		}
		out = append(out, hi)
	}
	return sortUniqueFloats(out)
}
