package ircore

import "math"

// MonotonicityReport is the result of the discount-factor monotonicity
// validator (spec.md §4.G.1).
type MonotonicityReport struct {
	ViolationRate float64
	MaxIncrease   float64
	// FrequencyMap has shape (T,K-1): the fraction of paths with a DF
	// increase at (i,k->k+1), averaged over paths.
	FrequencyMap [][]float64
}

// CheckMonotonicity verifies that the discount factor DF(p,i,k)=exp(-Y*M_k)
// is non-increasing in k, for every path and time.
func CheckMonotonicity(cube *RateCube, pillars PillarSet, tol float64) MonotonicityReport {
	M := pillars.Years()
	K := cube.K
	freq := make([][]float64, cube.T)
	for i := range freq {
		freq[i] = make([]float64, K-1)
	}

	var violations int
	var total int
	var maxIncrease float64

	for p := 0; p < cube.P; p++ {
		for i := 0; i < cube.T; i++ {
			row := cube.PathSlice(p, i)
			prevDF := math.Exp(-row[0] * M[0])
			for k := 0; k < K-1; k++ {
				df := math.Exp(-row[k+1] * M[k+1])
				diff := df - prevDF
				total++
				if diff > tol {
					violations++
					freq[i][k]++
					if diff > maxIncrease {
						maxIncrease = diff
					}
				}
				prevDF = df
			}
		}
	}

	for i := range freq {
		for k := range freq[i] {
			freq[i][k] /= float64(cube.P)
		}
	}

	rate := 0.0
	if total > 0 {
		rate = float64(violations) / float64(total)
	}

	return MonotonicityReport{
		ViolationRate: rate,
		MaxIncrease:   maxIncrease,
		FrequencyMap:  freq,
	}
}
