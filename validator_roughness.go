package ircore

import (
	"math"

	"gonum.org/v1/gonum/integrate"
)

// RoughnessReport is the result of the forward-roughness validator
// (spec.md §4.G.6), reported per (path,time) for both reinterpolation
// schemes.
type RoughnessReport struct {
	DenseGrid      []float64
	RoughnessZero  [][]float64 // zero-linear scheme, shape (P,T)
	RoughnessLogDF [][]float64 // logdf-linear scheme, shape (P,T)
}

// CheckForwardRoughness forms tz(T)=T*z(T) on the dense maturity grid for
// both interpolation schemes, differentiates it twice via edge-aware finite
// differences (first the instantaneous forward f=d(tz)/dT, then the slope
// of f), and integrates the absolute value of that second derivative of tz
// by the trapezoidal rule as a roughness proxy.
func CheckForwardRoughness(cube *RateCube, pillars PillarSet, pointsPerInterval int) RoughnessReport {
	M := pillars.Years()
	dense := denseMaturityGrid(M, pointsPerInterval)

	roughZero := make([][]float64, cube.P)
	roughLogDF := make([][]float64, cube.P)
	for p := range roughZero {
		roughZero[p] = make([]float64, cube.T)
		roughLogDF[p] = make([]float64, cube.T)
	}

	lnDFRow := make([]float64, cube.K)
	zLinear := make([]float64, len(dense))
	zLogDF := make([]float64, len(dense))
	tz := make([]float64, len(dense))

	for p := 0; p < cube.P; p++ {
		for t := 0; t < cube.T; t++ {
			row := cube.PathSlice(p, t)
			for k := 0; k < cube.K; k++ {
				lnDFRow[k] = -row[k] * M[k]
			}
			for j, target := range dense {
				zLinear[j] = interpLinearClamp(M, row, target)
				lnDF := interpLinearClamp(M, lnDFRow, target)
				tc := math.Max(target, minMaturityClamp)
				zLogDF[j] = -lnDF / tc
			}

			roughZero[p][t] = roughnessOf(dense, zLinear, tz)
			roughLogDF[p][t] = roughnessOf(dense, zLogDF, tz)
		}
	}

	return RoughnessReport{DenseGrid: dense, RoughnessZero: roughZero, RoughnessLogDF: roughLogDF}
}

// roughnessOf computes the forward-roughness proxy for one (path,time)
// zero-rate curve z over the dense maturity grid T. scratch is reused
// scratch space of len(T) for tz.
func roughnessOf(T, z, scratch []float64) float64 {
	for j := range T {
		scratch[j] = T[j] * z[j]
	}
	f := centeredDiff(T, scratch)
	d2f := centeredDiff(T, f)
	for j := range d2f {
		d2f[j] = math.Abs(d2f[j])
	}
	return integrate.Trapezoidal(T, d2f)
}
