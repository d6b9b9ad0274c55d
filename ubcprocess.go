package ircore

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// UltimateBaseCurveProcess is the multi-pillar shifted exponential Vasicek
// process (spec.md §4.E): per-pillar correlated OU drivers transformed
// into continuously compounded zero rates that target a deterministic
// mean function g(t,k) in expectation.
type UltimateBaseCurveProcess struct {
	params ProcessParameters
	shift  []float64 // params.ShiftBp converted to rate units
	lDense []float64 // flattened lower-triangular Cholesky factor, row-major K*K
	k      int
}

// NewUltimateBaseCurveProcess validates params and factors corr (nil means
// independent pillars, i.e. an identity correlation matrix). It fails with
// NonSPDCorrelation if the Cholesky factorisation fails even after the
// ridge described in spec.md §9.
func NewUltimateBaseCurveProcess(params ProcessParameters, corr mat.Symmetric) (*UltimateBaseCurveProcess, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	k := params.K()

	if corr == nil {
		corr = identityCorrelation(k)
	} else if corr.SymmetricDim() != k {
		return nil, fmt.Errorf("%w: corr must be (%d,%d), got (%d,%d)", ErrShapeMismatch, k, k, corr.SymmetricDim(), corr.SymmetricDim())
	}

	chol, err := factorCorrelation(corr)
	if err != nil {
		return nil, err
	}

	lTri := mat.NewTriDense(k, mat.Lower, nil)
	chol.LTo(lTri)
	lDense := make([]float64, k*k)
	for i := 0; i < k; i++ {
		for j := 0; j <= i; j++ {
			lDense[i*k+j] = lTri.At(i, j)
		}
	}

	shift := make([]float64, k)
	for i, bp := range params.ShiftBp {
		shift[i] = bp * 1e-4
	}

	return &UltimateBaseCurveProcess{params: params, shift: shift, lDense: lDense, k: k}, nil
}

// SimulateOptions controls execution of UltimateBaseCurveProcess.Simulate.
type SimulateOptions struct {
	// Workers is the number of goroutines to partition paths across. Zero
	// uses runtime.GOMAXPROCS(0).
	Workers int
	// ReturnDriver requests the underlying OU driver cube X(p,i,k)
	// alongside the zero-rate cube.
	ReturnDriver bool
}

// driverVariance returns v(t,k) = sigma_k^2 * (1-exp(-2*lam_k*t)) / (2*lam_k)
// for every (i,k) on the grid, regularising lam near zero per spec.md §9.
func driverVariance(times []float64, lam, sigma []float64) *mat.Dense {
	T := len(times)
	K := len(lam)
	v := mat.NewDense(T, K, nil)
	for k := 0; k < K; k++ {
		lamSafe := lam[k]
		if math.Abs(lamSafe) < LambdaEpsilon {
			lamSafe = LambdaEpsilon
		}
		for i, t := range times {
			vv := sigma[k] * sigma[k] * (1.0 - math.Exp(-2.0*lamSafe*t)) / (2.0 * lamSafe)
			if vv < 0 {
				vv = 0
			}
			v.Set(i, k, vv)
		}
	}
	return v
}

// Simulate produces a (P,T,K) zero-rate cube (and, if requested, the
// matching OU driver cube) over grid, given the precomputed mean function
// g of shape (T,K). It fails with ShapeMismatch if g's shape disagrees
// with (grid.Len(), process K).
//
// Given identical (seed, P, grid, g, params, corr, worker partitioning),
// the output cube is bit-reproducible (spec.md §5, §8): every path draws
// from its own counter-seeded stream, independent of goroutine scheduling.
func (proc *UltimateBaseCurveProcess) Simulate(ctx context.Context, grid TimeGrid, g *mat.Dense, paths int, seed uint64, opts SimulateOptions) (*RateCube, *RateCube, error) {
	T := grid.Len()
	if T < 2 {
		return nil, nil, fmt.Errorf("%w: time grid needs at least 2 points to simulate, got %d", ErrInvalidGrid, T)
	}
	gr, gc := g.Dims()
	if gr != T || gc != proc.k {
		return nil, nil, fmt.Errorf("%w: mean function expected (%d,%d), got (%d,%d)", ErrShapeMismatch, T, proc.k, gr, gc)
	}
	if paths <= 0 {
		return nil, nil, fmt.Errorf("%w: paths must be positive, got %d", ErrShapeMismatch, paths)
	}

	times := grid.Times()
	v2 := driverVariance(times, proc.params.Lam, proc.params.Sigma)

	cube := NewRateCube(paths, T, proc.k)
	var driverCube *RateCube
	if opts.ReturnDriver {
		driverCube = NewRateCube(paths, T, proc.k)
	}

	// Precompute the per-step OU coefficients, shared read-only across
	// all path goroutines (spec.md §5 "Shared resources").
	expm := make([][]float64, T) // expm[i][k], valid for i>=1 (step i-1 -> i)
	std := make([][]float64, T)
	for i := 1; i < T; i++ {
		dt := times[i] - times[i-1]
		expm[i] = make([]float64, proc.k)
		std[i] = make([]float64, proc.k)
		for k := 0; k < proc.k; k++ {
			lamSafe := proc.params.Lam[k]
			if math.Abs(lamSafe) < LambdaEpsilon {
				lamSafe = LambdaEpsilon
			}
			expm[i][k] = math.Exp(-proc.params.Lam[k] * dt)
			variance := proc.params.Sigma[k] * proc.params.Sigma[k] * (1.0 - math.Exp(-2.0*lamSafe*dt)) / (2.0 * lamSafe)
			if variance < 0 {
				variance = 0
			}
			std[i][k] = math.Sqrt(variance)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > paths {
		workers = paths
	}

	chunk := (paths + workers - 1) / workers
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > paths {
			end = paths
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			if err := proc.simulateBlock(ctx, start, end, times, g, v2, expm, std, seed, cube, driverCube); err != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}(start, end)
	}
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, nil, err
	}

	return cube, driverCube, nil
}

func (proc *UltimateBaseCurveProcess) simulateBlock(ctx context.Context, start, end int, times []float64, g *mat.Dense, v2 *mat.Dense, expm, std [][]float64, seed uint64, cube, driverCube *RateCube) error {
	T := len(times)
	x := make([]float64, proc.k)
	z := make([]float64, proc.k)
	zc := make([]float64, proc.k)

	for p := start; p < end; p++ {
		stream := newStream(seed, p)
		for i := range x {
			x[i] = 0
		}

		// i=0: X=0, so Y(p,0,k)=g(0,k) exactly.
		for k := 0; k < proc.k; k++ {
			y0 := proc.transform(0, k, g, v2, x[k])
			cube.Set(p, 0, k, y0)
			if driverCube != nil {
				driverCube.Set(p, 0, k, x[k])
			}
		}

		for i := 1; i < T; i++ {
			if i%64 == 0 {
				select {
				case <-ctx.Done():
					return ErrCancelled
				default:
				}
			}

			for k := 0; k < proc.k; k++ {
				z[k] = stream.NormFloat64()
			}
			for k := 0; k < proc.k; k++ {
				var acc float64
				row := k * proc.k
				for j := 0; j <= k; j++ {
					acc += proc.lDense[row+j] * z[j]
				}
				zc[k] = acc
			}
			for k := 0; k < proc.k; k++ {
				x[k] = expm[i][k]*x[k] + std[i][k]*zc[k]
			}
			for k := 0; k < proc.k; k++ {
				y := proc.transform(i, k, g, v2, x[k])
				cube.Set(p, i, k, y)
				if driverCube != nil {
					driverCube.Set(p, i, k, x[k])
				}
			}
		}
	}
	return nil
}

// transform applies Y = (g+s)*exp(x-0.5*v2) - s at grid index i, pillar k.
func (proc *UltimateBaseCurveProcess) transform(i, k int, g, v2 *mat.Dense, x float64) float64 {
	gik := g.At(i, k)
	s := proc.shift[k]
	vtk := v2.At(i, k)
	return (gik+s)*math.Exp(x-0.5*vtk) - s
}
