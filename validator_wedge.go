package ircore

import "fmt"

// WedgeReport is the result of the one-step DF wedge validator
// (spec.md §4.G.4): a dynamic multiplicative-consistency residual between
// a long-maturity discount factor and the product of a short DF and a
// rolled-forward DF.
type WedgeReport struct {
	Mean         float64
	Q05          float64
	Q95          float64
	FracAbsGt1Bp float64
}

// CheckWedge evaluates the one-step DF wedge at step index i (comparing
// time index i to i+1), using base pillar index kBase as the long
// maturity. It fails with BadWedgeConfiguration unless 0 < u < T_long,
// where u = t[i+1]-t[i] and T_long = M[kBase].
func CheckWedge(cube *RateCube, grid TimeGrid, pillars PillarSet, i, kBase int) (WedgeReport, error) {
	if err := checkCubeShape(cube, grid.Len(), pillars.Len(), "CheckWedge"); err != nil {
		return WedgeReport{}, err
	}
	if i < 0 || i+1 >= grid.Len() {
		return WedgeReport{}, fmt.Errorf("%w: step index %d out of range", ErrBadWedgeConfig, i)
	}
	u := grid.At(i+1) - grid.At(i)
	tLong := pillars.YearAt(kBase)
	if !(u > 0 && u < tLong) {
		return WedgeReport{}, fmt.Errorf("%w: u=%v must satisfy 0<u<T_long=%v", ErrBadWedgeConfig, u, tLong)
	}
	M := pillars.Years()

	wedges := make([]float64, cube.P)
	var countGt int
	for p := 0; p < cube.P; p++ {
		rowI := cube.PathSlice(p, i)
		rowI1 := cube.PathSlice(p, i+1)

		yLong := rowI[kBase]
		yU := interpolateRowLinear(M, rowI, u)
		yRem := interpolateRowLinear(M, rowI1, tLong-u)

		lnDFLong := -yLong * tLong
		lnDFShort := -yU * u
		lnDFRem := -yRem * (tLong - u)
		w := lnDFLong - lnDFShort - lnDFRem
		wedges[p] = w
		if w < 0 {
			if -w > WedgeBpThreshold {
				countGt++
			}
		} else if w > WedgeBpThreshold {
			countGt++
		}
	}

	mean, _ := meanStd(wedges)
	return WedgeReport{
		Mean:         mean,
		Q05:          quantile(0.05, wedges),
		Q95:          quantile(0.95, wedges),
		FracAbsGt1Bp: float64(countGt) / float64(cube.P),
	}, nil
}
