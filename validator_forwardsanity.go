package ircore

import "fmt"

// ForwardSanityReport is the result of the implied-forward-rate sanity
// validator (spec.md §4.G.2), for one chosen pillar pair.
type ForwardSanityReport struct {
	Mean float64
	Std  float64
	Q05  float64
	Q95  float64
}

// CheckForwardSanity computes the implied forward rate between pillars i
// and j (i<j), F_ij(p,t) = (Y_j*M_j - Y_i*M_i)/(M_j-M_i), across every
// (path,time) and reports its sample distribution. A well-behaved curve
// is expected to produce a forward that is positive and bounded.
func CheckForwardSanity(cube *RateCube, pillars PillarSet, i, j int) (ForwardSanityReport, error) {
	if err := checkCubeShape(cube, cube.T, pillars.Len(), "CheckForwardSanity"); err != nil {
		return ForwardSanityReport{}, err
	}
	if i < 0 || j >= pillars.Len() || i >= j {
		return ForwardSanityReport{}, fmt.Errorf("%w: need 0<=i<j<K, got i=%d j=%d K=%d", ErrShapeMismatch, i, j, pillars.Len())
	}
	Mi, Mj := pillars.YearAt(i), pillars.YearAt(j)
	denom := Mj - Mi

	samples := make([]float64, 0, cube.P*cube.T)
	for p := 0; p < cube.P; p++ {
		for t := 0; t < cube.T; t++ {
			Yi := cube.At(p, t, i)
			Yj := cube.At(p, t, j)
			samples = append(samples, (Yj*Mj-Yi*Mi)/denom)
		}
	}

	mean, std := meanStd(samples)
	return ForwardSanityReport{
		Mean: mean,
		Std:  std,
		Q05:  quantile(0.05, samples),
		Q95:  quantile(0.95, samples),
	}, nil
}
