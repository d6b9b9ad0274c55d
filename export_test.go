package ircore

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestWriteCubeCSV(t *testing.T) {
	grid, _ := NewTimeGrid([]float64{0, 1}, 1)
	pillars, _ := NewPillarSet([]int{365, 1825}, DefaultDayCount)
	cube := NewRateCube(2, 2, 2)
	for p := 0; p < 2; p++ {
		for i := 0; i < 2; i++ {
			for k := 0; k < 2; k++ {
				cube.Set(p, i, k, 0.01*float64(p+i+k+1))
			}
		}
	}
	meta := CubeMeta{CurveID: "demo", Pillars: pillars, Grid: grid}

	var buf bytes.Buffer
	if err := WriteCubeCSV(&buf, cube, meta); err != nil {
		t.Fatalf("WriteCubeCSV returned error: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	// header + P*T*K data rows
	wantRows := 1 + 2*2*2
	if len(lines) != wantRows {
		t.Fatalf("got %d lines, want %d", len(lines), wantRows)
	}
	if !strings.HasPrefix(lines[0], "path,time_years,pillar_days,rate") {
		t.Fatalf("header = %q", lines[0])
	}
}
