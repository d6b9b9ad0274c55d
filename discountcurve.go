package ircore

// DiscountCurve supplies the continuously compounded discount factor
// DF(0,t) for any t>=0. Implementations live in the curve subpackage
// (flat, piecewise-linear table, composite); the core only ever requires
// this single capability and never takes derivatives of it.
//
// DF(0,0) is expected to equal 1 and DF(0,·) is expected to be positive
// and monotonically non-increasing. These are soft expectations: the core
// does not enforce them, but a violating curve can produce a floored mean
// function (see MeanFunctionBuilder) or trip InvalidCurve where a
// logarithm of a non-positive value would otherwise occur.
type DiscountCurve interface {
	DF(t float64) (float64, error)
}
