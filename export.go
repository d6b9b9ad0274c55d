package ircore

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCubeCSV writes cube as a long-format CSV (path,time,pillar,rate),
// preserving the stable path-major/time/pillar row order required of any
// persisted serialisation (spec.md §6). Grounded on the teacher's
// csv.NewWriter-based CSV exporters.
func WriteCubeCSV(w io.Writer, cube *RateCube, meta CubeMeta) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"path", "time_years", "pillar_days", "rate"}); err != nil {
		return fmt.Errorf("ircore: write header: %w", err)
	}

	times := meta.Grid.Times()
	days := meta.Pillars.Days()

	record := make([]string, 4)
	for p := 0; p < cube.P; p++ {
		record[0] = strconv.Itoa(p)
		for i := 0; i < cube.T; i++ {
			record[1] = strconv.FormatFloat(times[i], 'f', -1, 64)
			for k := 0; k < cube.K; k++ {
				record[2] = strconv.Itoa(days[k])
				record[3] = strconv.FormatFloat(cube.At(p, i, k), 'f', -1, 64)
				if err := writer.Write(record); err != nil {
					return fmt.Errorf("ircore: write row: %w", err)
				}
			}
		}
	}
	return nil
}
