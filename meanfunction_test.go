package ircore

import (
	"errors"
	"math"
	"testing"
)

type flatTestCurve struct{ rate float64 }

func (f flatTestCurve) DF(t float64) (float64, error) {
	return math.Exp(-f.rate * t), nil
}

type badTestCurve struct{}

func (badTestCurve) DF(t float64) (float64, error) { return -1, nil }

// A flat discount curve's instantaneous forward is constant and equal to
// the flat rate, so the mean function should reproduce it exactly (above
// the delta floor).
func TestMeanFunctionBuilder_FlatCurve(t *testing.T) {
	grid, _ := NewTimeGrid([]float64{0, 1, 2}, 1)
	pillars, _ := NewPillarSet([]int{365, 1825}, DefaultDayCount)

	b := MeanFunctionBuilder{Grid: grid, Pillars: pillars, Curve: flatTestCurve{rate: 0.03}}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	r, c := g.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("Dims = %dx%d, want 3x2", r, c)
	}
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			if !almostEqual(g.At(i, k), 0.03, 1e-9) {
				t.Errorf("g(%d,%d) = %v, want 0.03", i, k, g.At(i, k))
			}
		}
	}
}

func TestMeanFunctionBuilder_FloorsAtDelta(t *testing.T) {
	grid, _ := NewTimeGrid([]float64{0, 1}, 1)
	pillars, _ := NewPillarSet([]int{365, 730}, DefaultDayCount)

	b := MeanFunctionBuilder{Grid: grid, Pillars: pillars, Curve: flatTestCurve{rate: -1}, Delta: 1e-3}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if !almostEqual(g.At(i, 0), 1e-3, 1e-12) {
			t.Errorf("g(%d,0) = %v, want delta floor 1e-3", i, g.At(i, 0))
		}
	}
}

func TestMeanFunctionBuilder_RejectsNonPositiveDF(t *testing.T) {
	grid, _ := NewTimeGrid([]float64{0, 1}, 1)
	pillars, _ := NewPillarSet([]int{365, 730}, DefaultDayCount)

	b := MeanFunctionBuilder{Grid: grid, Pillars: pillars, Curve: badTestCurve{}}
	_, err := b.Build()
	if !errors.Is(err, ErrInvalidCurve) {
		t.Fatalf("err = %v, want ErrInvalidCurve", err)
	}
}
