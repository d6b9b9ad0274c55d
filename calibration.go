package ircore

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultReturnHorizonDays is the default sampling horizon, in business
// days, for the historical calibrator's shifted log-returns.
const DefaultReturnHorizonDays = 5

// DefaultAnnualizationDays converts the return horizon (business days) to
// a year fraction for the OU stationary-increment identity. Kept distinct
// from DefaultReturnHorizonDays per spec.md §9's open question: callers
// must be able to tune either independently of the other.
const DefaultAnnualizationDays = 252.0

// HistoricalCalibrator recovers a per-pillar correlation matrix and
// volatility vector from a history of observed pillar rates, for a fixed
// mean-reversion and shift.
type HistoricalCalibrator struct {
	// ReturnHorizonDays is h in spec.md §4.D. Zero uses DefaultReturnHorizonDays.
	ReturnHorizonDays int
	// AnnualizationDays converts h to a year fraction dt=h/AnnualizationDays.
	// Zero uses DefaultAnnualizationDays.
	AnnualizationDays float64
	// Lambda is the global mean-reversion used to map return variance to
	// OU volatility.
	Lambda float64
	// ShiftBp is the global shift, in basis points.
	ShiftBp float64
}

// Calibrate estimates (corr, sigma) from an N x K history of pillar rates
// (rate units, not bp). N must exceed the return horizon.
//
// It fails with NonPositiveShift if any shifted rate Y+s <= 0.
func (c HistoricalCalibrator) Calibrate(history *mat.Dense) (corr *mat.SymDense, sigma []float64, err error) {
	h := c.ReturnHorizonDays
	if h <= 0 {
		h = DefaultReturnHorizonDays
	}
	annualization := c.AnnualizationDays
	if annualization <= 0 {
		annualization = DefaultAnnualizationDays
	}

	N, K := history.Dims()
	if N <= h {
		return nil, nil, fmt.Errorf("%w: history has %d rows, need more than horizon %d", ErrShapeMismatch, N, h)
	}

	s := c.ShiftBp * 1e-4
	numRows := N - h

	r := mat.NewDense(numRows, K, nil)
	for t := 0; t < numRows; t++ {
		for k := 0; k < K; k++ {
			num := history.At(t+h, k) + s
			den := history.At(t, k) + s
			if num <= 0 || den <= 0 {
				return nil, nil, fmt.Errorf("%w: shift %v too small at row %d, col %d", ErrNonPositiveShift, s, t, k)
			}
			r.Set(t, k, math.Log(num/den))
		}
	}

	symCorr := mat.NewSymDense(K, nil)
	stat.CorrelationMatrix(symCorr, r, nil)
	for i := 0; i < K; i++ {
		for j := i; j < K; j++ {
			v := symCorr.At(i, j)
			if math.IsNaN(v) {
				v = 0
			}
			if i == j {
				v = 1
			}
			symCorr.SetSym(i, j, v)
		}
	}

	dt := float64(h) / annualization
	lam := c.Lambda
	lamSafe := lam
	if math.Abs(lam) < LambdaEpsilon {
		lamSafe = LambdaEpsilon
	}
	denom := 1.0 - math.Exp(-2.0*lamSafe*dt)
	if denom < 1e-12 {
		denom = 1e-12
	}

	sigma = make([]float64, K)
	col := make([]float64, numRows)
	for k := 0; k < K; k++ {
		mat.Col(col, k, r)
		v := stat.Variance(col, nil)
		if v < 0 {
			v = 0
		}
		sigma[k] = math.Sqrt(v * 2.0 * lamSafe / denom)
	}

	return symCorr, sigma, nil
}
