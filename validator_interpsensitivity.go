package ircore

import "math"

// minMaturityClamp floors a maturity before it is used as a divisor when
// converting an interpolated log discount factor back to a zero rate.
const minMaturityClamp = 1e-8

// InterpSensitivityReport is the result of the interpolation-sensitivity
// validator (spec.md §4.G.5): it compares two reinterpolation schemes
// ("zero-linear" and "logdf-linear") of the same cube onto a dense
// maturity grid.
type InterpSensitivityReport struct {
	DenseGrid []float64

	// PerPathTimeRMS and PerPathTimeMaxAbs have shape (P,T).
	PerPathTimeRMS    [][]float64
	PerPathTimeMaxAbs [][]float64

	// Per-time cross-path summaries, each of length T.
	TimeMedianRMS    []float64
	TimeP95RMS       []float64
	TimeMedianMaxAbs []float64
	TimeP95MaxAbs    []float64
}

// CheckInterpSensitivity reinterpolates cube onto a dense maturity grid
// (pointsPerInterval equally spaced, endpoint-excluded points per pillar
// interval, plus the final pillar) under linear-in-Y and linear-in-lnDF
// schemes, and reports their discrepancy.
func CheckInterpSensitivity(cube *RateCube, pillars PillarSet, pointsPerInterval int) InterpSensitivityReport {
	M := pillars.Years()
	dense := denseMaturityGrid(M, pointsPerInterval)

	rmsPT := make([][]float64, cube.P)
	maxPT := make([][]float64, cube.P)
	for p := range rmsPT {
		rmsPT[p] = make([]float64, cube.T)
		maxPT[p] = make([]float64, cube.T)
	}

	lnDFRow := make([]float64, cube.K)
	diff := make([]float64, len(dense))

	for p := 0; p < cube.P; p++ {
		for t := 0; t < cube.T; t++ {
			row := cube.PathSlice(p, t)
			for k := 0; k < cube.K; k++ {
				lnDFRow[k] = -row[k] * M[k]
			}
			for j, target := range dense {
				zLinear := interpLinearClamp(M, row, target)
				lnDF := interpLinearClamp(M, lnDFRow, target)
				tc := math.Max(target, minMaturityClamp)
				zLogDF := -lnDF / tc
				diff[j] = zLinear - zLogDF
			}
			rmsPT[p][t] = rms(diff)
			maxPT[p][t] = maxAbs(diff)
		}
	}

	medRMS := make([]float64, cube.T)
	p95RMS := make([]float64, cube.T)
	medMax := make([]float64, cube.T)
	p95Max := make([]float64, cube.T)
	colRMS := make([]float64, cube.P)
	colMax := make([]float64, cube.P)
	for t := 0; t < cube.T; t++ {
		for p := 0; p < cube.P; p++ {
			colRMS[p] = rmsPT[p][t]
			colMax[p] = maxPT[p][t]
		}
		medRMS[t] = quantile(0.5, colRMS)
		p95RMS[t] = quantile(0.95, colRMS)
		medMax[t] = quantile(0.5, colMax)
		p95Max[t] = quantile(0.95, colMax)
	}

	return InterpSensitivityReport{
		DenseGrid:         dense,
		PerPathTimeRMS:    rmsPT,
		PerPathTimeMaxAbs: maxPT,
		TimeMedianRMS:     medRMS,
		TimeP95RMS:        p95RMS,
		TimeMedianMaxAbs:  medMax,
		TimeP95MaxAbs:     p95Max,
	}
}
