package ircore

import "math"

// CheckKinkIndex computes, for every (path,time), the maximum absolute
// discrete second difference of Y along the pillar axis (spec.md §4.G.3):
// d2(k) = Y(k+2) - 2*Y(k+1) + Y(k); kink(p,t) = max_k |d2(k)|.
//
// Returns a (P,T) matrix of kink values, suitable for quantile banding.
func CheckKinkIndex(cube *RateCube) [][]float64 {
	out := make([][]float64, cube.P)
	for p := 0; p < cube.P; p++ {
		out[p] = make([]float64, cube.T)
		for t := 0; t < cube.T; t++ {
			row := cube.PathSlice(p, t)
			var maxAbsD2 float64
			for k := 0; k+2 < len(row); k++ {
				d2 := row[k+2] - 2*row[k+1] + row[k]
				if a := math.Abs(d2); a > maxAbsD2 {
					maxAbsD2 = a
				}
			}
			out[p][t] = maxAbsD2
		}
	}
	return out
}
