// Package curve provides DiscountCurve implementations: a flat-rate curve,
// a piecewise log-linear table curve, and a composite curve that stacks
// log-discount contributions. Each type satisfies ircore.DiscountCurve
// structurally (DF(t float64) (float64, error)); this package does not
// import ircore to avoid a dependency cycle with its callers.
package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// FlatCurve is the simplest DiscountCurve: a single continuously
// compounded flat rate, DF(t) = exp(-Rate*t).
type FlatCurve struct {
	Rate float64
}

// DF returns exp(-Rate*t).
func (f FlatCurve) DF(t float64) (float64, error) {
	if t < 0 {
		return 0, fmt.Errorf("curve: negative time %v", t)
	}
	return math.Exp(-f.Rate * t), nil
}

// TableCurve is a discount curve sampled on a strictly increasing set of
// times, interpolated log-linearly between pillars (flat-extrapolated
// beyond the ends), following standard market convention for discount
// curve interpolation.
type TableCurve struct {
	times []float64
	dfs   []float64
	fit   interp.PiecewiseLinear
}

// NewTableCurve validates and fits a TableCurve over (times, dfs). times
// must be strictly increasing and dfs strictly positive.
func NewTableCurve(times, dfs []float64) (*TableCurve, error) {
	if len(times) < 2 || len(times) != len(dfs) {
		return nil, fmt.Errorf("curve: times and dfs must be equal length >= 2, got %d and %d", len(times), len(dfs))
	}
	lnDF := make([]float64, len(dfs))
	for i, df := range dfs {
		if df <= 0 {
			return nil, fmt.Errorf("curve: df at index %d must be positive, got %v", i, df)
		}
		if i > 0 && times[i] <= times[i-1] {
			return nil, fmt.Errorf("curve: times must be strictly increasing at index %d", i)
		}
		lnDF[i] = math.Log(df)
	}

	tc := &TableCurve{times: append([]float64(nil), times...), dfs: append([]float64(nil), dfs...)}
	if err := tc.fit.Fit(times, lnDF); err != nil {
		return nil, fmt.Errorf("curve: fit piecewise-linear log-DF: %w", err)
	}
	return tc, nil
}

// DF returns the log-linearly interpolated discount factor at t, clamped
// to flat extrapolation beyond the sampled domain.
func (tc *TableCurve) DF(t float64) (float64, error) {
	if t < 0 {
		return 0, fmt.Errorf("curve: negative time %v", t)
	}
	x := t
	if x < tc.times[0] {
		x = tc.times[0]
	}
	if last := tc.times[len(tc.times)-1]; x > last {
		x = last
	}
	return math.Exp(tc.fit.Predict(x)), nil
}

// CompositeCurve composes several discount curves by summing their
// log-discount contributions (spread-stacking): DF(t) = prod_i DF_i(t).
type CompositeCurve struct {
	Curves []interface {
		DF(t float64) (float64, error)
	}
}

// DF returns the product of every component curve's discount factor at t.
func (c CompositeCurve) DF(t float64) (float64, error) {
	lnDF := 0.0
	for _, cv := range c.Curves {
		df, err := cv.DF(t)
		if err != nil {
			return 0, err
		}
		if df <= 0 {
			return 0, fmt.Errorf("curve: component curve produced non-positive DF %v at t=%v", df, t)
		}
		lnDF += math.Log(df)
	}
	return math.Exp(lnDF), nil
}
