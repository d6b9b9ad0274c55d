package ircore

// Numerical safety constants from spec.md §9. These MUST be honoured for
// parity across implementations; they are silent guards that protect
// correctness of valid inputs and never mask a wrong input.
const (
	// LambdaEpsilon regularises near-zero mean reversion in the OU exact step.
	LambdaEpsilon = 1e-14
	// DFLogClamp floors a discount factor before taking a logarithm.
	DFLogClamp = 1e-300
	// CorrelationRidge is added to the diagonal of a correlation matrix
	// before Cholesky factorisation.
	CorrelationRidge = 1e-12
	// WedgeBpThreshold is the "1bp" threshold used when reporting the
	// fraction of one-step DF wedges exceeding 1bp in log-DF units.
	WedgeBpThreshold = 1e-4
)
