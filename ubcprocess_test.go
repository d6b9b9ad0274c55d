package ircore

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func flatMeanFunction(T, K int, val float64) *mat.Dense {
	g := mat.NewDense(T, K, nil)
	for i := 0; i < T; i++ {
		for k := 0; k < K; k++ {
			g.Set(i, k, val)
		}
	}
	return g
}

// At the very first time step (X=0 by construction), the transform collapses
// to Y(p,0,k) = g(0,k) exactly, for every path.
func TestUltimateBaseCurveProcess_FirstStepMatchesMeanExactly(t *testing.T) {
	params := ProcessParameters{ShiftBp: []float64{100}, Sigma: []float64{0.01}, Lam: []float64{0.05}}
	proc, err := NewUltimateBaseCurveProcess(params, nil)
	if err != nil {
		t.Fatalf("NewUltimateBaseCurveProcess returned error: %v", err)
	}

	grid, _ := NewTimeGrid([]float64{0, 1, 2, 5}, 2)
	g := flatMeanFunction(4, 1, 0.03)

	cube, _, err := proc.Simulate(context.Background(), grid, g, 50, 7, SimulateOptions{})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	for p := 0; p < 50; p++ {
		if !almostEqual(cube.At(p, 0, 0), 0.03, 1e-12) {
			t.Fatalf("path %d: Y(0,0) = %v, want 0.03 exactly", p, cube.At(p, 0, 0))
		}
	}
}

// Identical (seed, grid, g, params) must reproduce the same cube
// bit-for-bit, whether the paths run on one worker or are split across four.
func TestUltimateBaseCurveProcess_ReproducibleAcrossRuns(t *testing.T) {
	params := ProcessParameters{ShiftBp: []float64{50, 100}, Sigma: []float64{0.008, 0.01}, Lam: []float64{0.03, 0.05}}
	proc, _ := NewUltimateBaseCurveProcess(params, nil)

	grid, _ := NewTimeGrid([]float64{0, 0.25, 0.5, 1, 2}, 2)
	g := flatMeanFunction(5, 2, 0.02)

	cubeA, _, err := proc.Simulate(context.Background(), grid, g, 30, 99, SimulateOptions{Workers: 1})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	cubeB, _, err := proc.Simulate(context.Background(), grid, g, 30, 99, SimulateOptions{Workers: 4})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	for p := 0; p < 30; p++ {
		for i := 0; i < 5; i++ {
			for k := 0; k < 2; k++ {
				a, b := cubeA.At(p, i, k), cubeB.At(p, i, k)
				if a != b {
					t.Fatalf("worker partitioning changed path %d time %d pillar %d: %v != %v", p, i, k, a, b)
				}
			}
		}
	}
}

// spec.md §8 scenario 1 ("Flat world"): lam=0.05, sigma=0, shift=100bp,
// corr=I, g=0.02. With sigma=0 the driver never leaves zero, so every path
// and every time/pillar must reproduce the mean function exactly.
func TestUltimateBaseCurveProcess_FlatWorldZeroVolMatchesMeanEverywhere(t *testing.T) {
	params := ProcessParameters{ShiftBp: []float64{100}, Sigma: []float64{0}, Lam: []float64{0.05}}
	proc, err := NewUltimateBaseCurveProcess(params, nil)
	if err != nil {
		t.Fatalf("NewUltimateBaseCurveProcess returned error: %v", err)
	}

	grid, _ := NewTimeGrid([]float64{0, 1, 2, 5, 10}, 2)
	g := flatMeanFunction(5, 1, 0.02)

	cube, _, err := proc.Simulate(context.Background(), grid, g, 25, 13, SimulateOptions{})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	for p := 0; p < 25; p++ {
		for i := 0; i < 5; i++ {
			if !almostEqual(cube.At(p, i, 0), 0.02, 1e-12) {
				t.Fatalf("path %d time %d: Y = %v, want 0.02 exactly (sigma=0 degenerate case)", p, i, cube.At(p, i, 0))
			}
		}
	}
}

// The "Expectation law" invariant: E[Y(.,i,k)] -> g(i,k) as P grows, with
// sampling error shrinking like 1/sqrt(P).
func TestUltimateBaseCurveProcess_PathMeanConvergesToMeanFunction(t *testing.T) {
	params := ProcessParameters{ShiftBp: []float64{100}, Sigma: []float64{0.01}, Lam: []float64{0.05}}
	proc, err := NewUltimateBaseCurveProcess(params, nil)
	if err != nil {
		t.Fatalf("NewUltimateBaseCurveProcess returned error: %v", err)
	}

	grid, _ := NewTimeGrid([]float64{0, 1, 2, 5}, 2)
	const want = 0.02
	g := flatMeanFunction(4, 1, want)

	const paths = 20000
	cube, _, err := proc.Simulate(context.Background(), grid, g, paths, 4242, SimulateOptions{})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	// A generous multiple of sigma/sqrt(P) bounds the Monte Carlo error; the
	// spread of Y at t=5 with lam=0.05,sigma=0.01 is about (g+s)*sd(X) =
	// 0.03*0.0198, well under sigma itself, so this tolerance has ample
	// headroom.
	tol := 10.0 * params.Sigma[0] / math.Sqrt(float64(paths))
	for i := 0; i < 4; i++ {
		var sum float64
		for p := 0; p < paths; p++ {
			sum += cube.At(p, i, 0)
		}
		mean := sum / paths
		if math.Abs(mean-want) > tol {
			t.Fatalf("time %d: path mean = %v, want within %v of %v", i, mean, tol, want)
		}
	}
}

func TestUltimateBaseCurveProcess_RejectsShapeMismatch(t *testing.T) {
	params := ProcessParameters{ShiftBp: []float64{100}, Sigma: []float64{0.01}, Lam: []float64{0.05}}
	proc, _ := NewUltimateBaseCurveProcess(params, nil)

	grid, _ := NewTimeGrid([]float64{0, 1}, 2)
	g := flatMeanFunction(2, 2, 0.02) // wrong K

	_, _, err := proc.Simulate(context.Background(), grid, g, 10, 1, SimulateOptions{})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestUltimateBaseCurveProcess_RejectsMismatchedCorrDim(t *testing.T) {
	params := ProcessParameters{ShiftBp: []float64{100, 50}, Sigma: []float64{0.01, 0.01}, Lam: []float64{0.05, 0.05}}
	_, err := NewUltimateBaseCurveProcess(params, identityCorrelation(3))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestUltimateBaseCurveProcess_CancellationStopsEarly(t *testing.T) {
	params := ProcessParameters{ShiftBp: []float64{100}, Sigma: []float64{0.01}, Lam: []float64{0.05}}
	proc, _ := NewUltimateBaseCurveProcess(params, nil)

	times := make([]float64, 2000)
	for i := range times {
		times[i] = float64(i) * 0.01
	}
	grid, _ := NewTimeGrid(times, 2)
	g := flatMeanFunction(len(times), 1, 0.02)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := proc.Simulate(ctx, grid, g, 4, 1, SimulateOptions{Workers: 1})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}
