package ircore

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PFEDeltaReport is the result of the PFE delta validator (spec.md
// §4.G.8): the difference between two exposure profiles' quantile
// (potential future exposure) curves.
type PFEDeltaReport struct {
	AbsDiff    []float64 // length T
	RelDiff    []float64 // length T
	MaxAbsDiff float64
	MaxRelDiff float64
}

// pfeMaxDenominatorGuard floors the denominator used when computing a
// relative PFE difference, per spec.md §9 numerical safety table.
const pfeMaxDenominatorGuard = 1e-12

// CheckPFEDelta computes PFE_X(t) = quantile_q(X(:,t)) for both exposure
// profiles (each shape (P,T)) and reports their absolute and relative
// differences over time.
func CheckPFEDelta(a, b *mat.Dense, q float64) (PFEDeltaReport, error) {
	pa, ta := a.Dims()
	pb, tb := b.Dims()
	if ta != tb {
		return PFEDeltaReport{}, fmt.Errorf("%w: exposure profiles must share T, got %d and %d", ErrShapeMismatch, ta, tb)
	}
	T := ta

	absDiff := make([]float64, T)
	relDiff := make([]float64, T)
	colA := make([]float64, pa)
	colB := make([]float64, pb)

	var maxAbsDiff, maxRelDiff float64
	for t := 0; t < T; t++ {
		mat.Col(colA, t, a)
		mat.Col(colB, t, b)
		pfeA := quantile(q, colA)
		pfeB := quantile(q, colB)

		d := pfeB - pfeA
		absDiff[t] = d
		denom := math.Max(math.Abs(pfeA), pfeMaxDenominatorGuard)
		relDiff[t] = d / denom

		if a := math.Abs(d); a > maxAbsDiff {
			maxAbsDiff = a
		}
		if a := math.Abs(relDiff[t]); a > maxRelDiff {
			maxRelDiff = a
		}
	}

	return PFEDeltaReport{
		AbsDiff:    absDiff,
		RelDiff:    relDiff,
		MaxAbsDiff: maxAbsDiff,
		MaxRelDiff: maxRelDiff,
	}, nil
}
