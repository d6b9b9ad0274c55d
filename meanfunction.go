package ircore

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DeltaFloor is the default floor applied to the mean function, in rate
// units (spec.md §9 numerical safety table).
const DeltaFloor = 1e-8

// MeanFunctionBuilder builds the deterministic mean function g(t,k) that
// the Ultimate Base Curve transform targets in expectation.
type MeanFunctionBuilder struct {
	Grid    TimeGrid
	Pillars PillarSet
	Curve   DiscountCurve
	// Delta floors g away from zero (and below). Zero value uses DeltaFloor.
	Delta float64
}

// Build computes g(t,k) = max(f_k(t), delta) for
// f_k(t) = -(1/M_k) * ln( DF(0,t+M_k) / DF(0,t) )
// over the builder's TimeGrid x PillarSet, returning a (T,K) matrix.
//
// It fails with InvalidCurve if DF(0,t_i) or DF(0,t_i+M_k) is non-positive
// for any (i,k), since the forward rate then requires a logarithm of a
// non-positive value.
func (b MeanFunctionBuilder) Build() (*mat.Dense, error) {
	delta := b.Delta
	if delta <= 0 {
		delta = DeltaFloor
	}

	T := b.Grid.Len()
	K := b.Pillars.Len()
	g := mat.NewDense(T, K, nil)

	years := b.Pillars.Years()

	for i := 0; i < T; i++ {
		ti := b.Grid.At(i)
		dfT, err := b.Curve.DF(ti)
		if err != nil {
			return nil, fmt.Errorf("%w: DF(0,%v): %v", ErrInvalidCurve, ti, err)
		}
		if dfT <= 0 {
			return nil, fmt.Errorf("%w: DF(0,%v)=%v is not positive", ErrInvalidCurve, ti, dfT)
		}
		for k := 0; k < K; k++ {
			Mk := years[k]
			dfTM, err := b.Curve.DF(ti + Mk)
			if err != nil {
				return nil, fmt.Errorf("%w: DF(0,%v): %v", ErrInvalidCurve, ti+Mk, err)
			}
			if dfTM <= 0 {
				return nil, fmt.Errorf("%w: DF(0,%v)=%v is not positive", ErrInvalidCurve, ti+Mk, dfTM)
			}
			f := -(1.0 / Mk) * math.Log(dfTM/dfT)
			g.Set(i, k, math.Max(f, delta))
		}
	}
	return g, nil
}
