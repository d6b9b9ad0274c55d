package ircore

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ProcessParameters holds the per-pillar parameters of the Ultimate Base
// Curve process. ShiftBp, Sigma and Lam must each have arity K; no
// broadcasting happens here, so a caller with a single scalar builds the
// vector with BroadcastScalar (spec.md §9 "Parameter vectors").
type ProcessParameters struct {
	// ShiftBp is the per-pillar shift s_k, in basis points.
	ShiftBp []float64
	// Sigma is the per-pillar driver volatility, in rate units.
	Sigma []float64
	// Lam is the per-pillar mean reversion, 1/year.
	Lam []float64
}

// K returns the pillar arity implied by the parameter vectors.
func (p ProcessParameters) K() int { return len(p.ShiftBp) }

func (p ProcessParameters) validate() error {
	k := len(p.ShiftBp)
	if len(p.Sigma) != k || len(p.Lam) != k {
		return fmt.Errorf("%w: ShiftBp/Sigma/Lam must share arity K, got %d/%d/%d", ErrShapeMismatch, len(p.ShiftBp), len(p.Sigma), len(p.Lam))
	}
	for _, s := range p.Sigma {
		if s < 0 {
			return fmt.Errorf("%w: sigma must be non-negative, got %v", ErrShapeMismatch, s)
		}
	}
	for _, l := range p.Lam {
		if l < 0 {
			return fmt.Errorf("%w: lambda must be non-negative, got %v", ErrShapeMismatch, l)
		}
	}
	return nil
}

// BroadcastScalar builds a length-K slice filled with v. A convenience for
// callers that only have a single scalar parameter to apply to every pillar.
func BroadcastScalar(v float64, k int) []float64 {
	out := make([]float64, k)
	for i := range out {
		out[i] = v
	}
	return out
}

// factorCorrelation adds the correlation ridge (spec.md §9) and returns the
// Cholesky factor L such that L*L^T = corr + ridge*I. Only the factor is
// retained afterwards; the raw correlation matrix is not kept by callers
// that just want to draw correlated normals (spec.md §9 "Correlation
// handling").
func factorCorrelation(corr mat.Symmetric) (*mat.Cholesky, error) {
	k := corr.SymmetricDim()
	ridged := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			v := corr.At(i, j)
			if i == j {
				v += CorrelationRidge
			}
			ridged.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(ridged); !ok {
		return nil, fmt.Errorf("%w", ErrNonSPDCorrelation)
	}
	return &chol, nil
}

// identityCorrelation returns an identity K x K correlation matrix, used
// when no correlation is supplied.
func identityCorrelation(k int) *mat.SymDense {
	data := make([]float64, k*k)
	for i := 0; i < k; i++ {
		data[i*k+i] = 1
	}
	return mat.NewSymDense(k, data)
}
