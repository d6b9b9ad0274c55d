package ircore

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
)

// HullWhiteParams holds the two scalar parameters of the one-factor
// Hull-White benchmark: mean reversion a and short-rate volatility sigma.
type HullWhiteParams struct {
	A     float64
	Sigma float64
}

// HullWhite1FGenerator is the Hull-White one-factor benchmark generator
// (spec.md §4.F): it reconstructs zero rates at the same (TimeGrid,
// PillarSet) grid as the Ultimate Base Curve process, from an initial
// discount curve sampled on a dense auxiliary time axis.
type HullWhite1FGenerator struct {
	Params HullWhiteParams
	// DF0Times and DF0Values sample the initial discount curve DF(0,t) on
	// a 1-D interpolation table, strictly increasing in time.
	DF0Times  []float64
	DF0Values []float64
}

// Generate simulates n_paths HW1F paths over grid x pillars, returning a
// (P,T,K) zero-rate cube.
func (hw HullWhite1FGenerator) Generate(ctx context.Context, grid TimeGrid, pillars PillarSet, paths int, seed uint64, workers int) (*RateCube, error) {
	times := grid.Times()
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("%w", ErrNonIncreasingTime)
		}
	}
	if len(hw.DF0Times) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 DF(0,.) samples", ErrMissingInitialCurve)
	}

	T := grid.Len()
	K := pillars.Len()
	M := pillars.Years()

	// Step 1: required-times set U.
	shifted := make([]float64, 0, T*K)
	for _, ti := range times {
		for _, Mk := range M {
			shifted = append(shifted, ti+Mk)
		}
	}
	U := sortUniqueFloats(times, shifted)

	// Step 2: interpolate DF(0,.) linearly at U, then f0(u) via centred
	// finite differences of ln DF.
	dfU := make([]float64, len(U))
	for i, u := range U {
		v, err := interpLinearStrict(hw.DF0Times, hw.DF0Values, u)
		if err != nil {
			return nil, err
		}
		dfU[i] = v
	}
	lnDF := make([]float64, len(U))
	for i, df := range dfU {
		lnDF[i] = math.Log(math.Max(df, DFLogClamp))
	}
	negF0 := centeredDiff(U, lnDF)
	f0 := make([]float64, len(U))
	for i, v := range negF0 {
		f0[i] = -v
	}

	// Index of each grid time and pillar-shifted time within U.
	idxT := make([]int, T)
	for i, ti := range times {
		idxT[i] = binarySearchFloat(U, ti)
	}
	idxTM := make([][]int, T)
	for i, ti := range times {
		idxTM[i] = make([]int, K)
		for k, Mk := range M {
			idxTM[i][k] = binarySearchFloat(U, ti+Mk)
		}
	}

	a, sigma := hw.Params.A, hw.Params.Sigma
	phi := make([]float64, T) // valid for i>=1, step i-1->i
	std := make([]float64, T)
	for i := 1; i < T; i++ {
		dt := times[i] - times[i-1]
		if a > 1e-12 {
			phi[i] = math.Exp(-a * dt)
			variance := sigma * sigma * (1.0 - phi[i]*phi[i]) / (2.0 * a)
			std[i] = math.Sqrt(math.Max(variance, 0))
		} else {
			phi[i] = 1.0
			std[i] = sigma * math.Sqrt(dt)
		}
	}

	cube := NewRateCube(paths, T, K)

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
			if err := hw.simulateBlock(ctx, start, end, times, U, f0, idxT, idxTM, M, phi, std, seed, cube); err != nil {
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
		return nil, err
	}
	return cube, nil
}

func (hw HullWhite1FGenerator) simulateBlock(ctx context.Context, start, end int, times, U, f0 []float64, idxT []int, idxTM [][]int, M, phi, std []float64, seed uint64, cube *RateCube) error {
	T := len(times)
	K := len(M)
	x := make([]float64, T)
	xU := make([]float64, len(U))
	dfPath := make([]float64, len(U))

	for p := start; p < end; p++ {
		stream := newStream(seed, p)

		x[0] = 0
		for i := 1; i < T; i++ {
			if i%64 == 0 {
				select {
				case <-ctx.Done():
					return ErrCancelled
				default:
				}
			}
			z := stream.NormFloat64()
			x[i] = phi[i]*x[i-1] + std[i]*z
		}

		// Step 4: interpolate x from the simulation grid onto U.
		for j, u := range U {
			xU[j] = interpLinearClamp(times, x, u)
		}

		// Step 5: march the path discount factor along U.
		dfPath[0] = 1.0
		for j := 0; j < len(U)-1; j++ {
			r := xU[j] + f0[j]
			dfPath[j+1] = dfPath[j] * math.Exp(-r*(U[j+1]-U[j]))
		}

		// Step 6: read DF(t) and DF(t+M) by index, form the rate.
		for i := 0; i < T; i++ {
			dfT := math.Max(dfPath[idxT[i]], DFLogClamp)
			for k := 0; k < K; k++ {
				dfTM := math.Max(dfPath[idxTM[i][k]], DFLogClamp)
				dfRel := dfTM / dfT
				rate := -math.Log(math.Max(dfRel, DFLogClamp)) / M[k]
				cube.Set(p, i, k, rate)
			}
		}
	}
	return nil
}
