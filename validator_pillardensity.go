package ircore

import (
	"fmt"
	"math"
)

// InterpScheme selects how a per-pillar zero-rate row is reinterpolated
// onto a denser maturity grid (spec.md §4.G.5, §4.G.7).
type InterpScheme int

const (
	// SchemeZeroLinear interpolates linearly in the zero rate itself.
	SchemeZeroLinear InterpScheme = iota
	// SchemeLogDFLinear converts to log discount factor, interpolates
	// linearly there, and converts back.
	SchemeLogDFLinear
)

func interpScheme(scheme InterpScheme, M, Y, dense []float64) ([]float64, error) {
	out := make([]float64, len(dense))
	switch scheme {
	case SchemeZeroLinear:
		for j, target := range dense {
			out[j] = interpLinearClamp(M, Y, target)
		}
	case SchemeLogDFLinear:
		lnDF := make([]float64, len(Y))
		for k := range Y {
			lnDF[k] = -Y[k] * M[k]
		}
		for j, target := range dense {
			v := interpLinearClamp(M, lnDF, target)
			tc := math.Max(target, minMaturityClamp)
			out[j] = -v / tc
		}
	default:
		return nil, fmt.Errorf("%w: unknown interpolation scheme %d", ErrShapeMismatch, scheme)
	}
	return out, nil
}

// coarsePillarIndices returns pillar indices taken at stride 2, always
// including the last pillar.
func coarsePillarIndices(k int) []int {
	var idx []int
	for i := 0; i < k; i += 2 {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != k-1 {
		idx = append(idx, k-1)
	}
	return idx
}

// PillarDensityReport is the result of the pillar-density stress
// validator (spec.md §4.G.7).
type PillarDensityReport struct {
	DenseGrid         []float64
	CoarsePillarIdx   []int
	PerPathTimeRMS    [][]float64
	PerPathTimeMaxAbs [][]float64
	TimeMedianRMS     []float64
	TimeP95RMS        []float64
	TimeMedianMaxAbs  []float64
	TimeP95MaxAbs     []float64
}

// CheckPillarDensityStress compares a full-resolution reinterpolation of
// the cube against a coarsened-pillar reinterpolation (stride 2, always
// keeping the last pillar), both onto the same dense maturity grid, under
// one interpolation scheme.
func CheckPillarDensityStress(cube *RateCube, pillars PillarSet, pointsPerInterval int, scheme InterpScheme) (PillarDensityReport, error) {
	M := pillars.Years()
	dense := denseMaturityGrid(M, pointsPerInterval)
	coarseIdx := coarsePillarIndices(cube.K)
	coarseM := make([]float64, len(coarseIdx))
	for i, idx := range coarseIdx {
		coarseM[i] = M[idx]
	}

	rmsPT := make([][]float64, cube.P)
	maxPT := make([][]float64, cube.P)
	for p := range rmsPT {
		rmsPT[p] = make([]float64, cube.T)
		maxPT[p] = make([]float64, cube.T)
	}

	coarseRow := make([]float64, len(coarseIdx))
	diff := make([]float64, len(dense))

	for p := 0; p < cube.P; p++ {
		for t := 0; t < cube.T; t++ {
			row := cube.PathSlice(p, t)
			for i, idx := range coarseIdx {
				coarseRow[i] = row[idx]
			}

			full, err := interpScheme(scheme, M, row, dense)
			if err != nil {
				return PillarDensityReport{}, err
			}
			coarse, err := interpScheme(scheme, coarseM, coarseRow, dense)
			if err != nil {
				return PillarDensityReport{}, err
			}
			for j := range dense {
				diff[j] = full[j] - coarse[j]
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

	return PillarDensityReport{
		DenseGrid:         dense,
		CoarsePillarIdx:   coarseIdx,
		PerPathTimeRMS:    rmsPT,
		PerPathTimeMaxAbs: maxPT,
		TimeMedianRMS:     medRMS,
		TimeP95RMS:        p95RMS,
		TimeMedianMaxAbs:  medMax,
		TimeP95MaxAbs:     p95Max,
	}, nil
}
