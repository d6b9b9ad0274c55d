package ircore

import (
	"errors"
	"testing"
)

func TestRateCube_SetAtPathSlice(t *testing.T) {
	c := NewRateCube(2, 3, 4)
	c.Set(1, 2, 3, 0.042)
	if v := c.At(1, 2, 3); v != 0.042 {
		t.Fatalf("At(1,2,3) = %v, want 0.042", v)
	}

	row := c.PathSlice(1, 2)
	if len(row) != 4 {
		t.Fatalf("PathSlice len = %d, want 4", len(row))
	}
	if row[3] != 0.042 {
		t.Fatalf("PathSlice[3] = %v, want 0.042", row[3])
	}
}

func TestRateCube_Export_IsDefensiveCopy(t *testing.T) {
	c := NewRateCube(1, 1, 1)
	c.Set(0, 0, 0, 1.5)
	pillars, _ := NewPillarSet([]int{365}, DefaultDayCount)
	grid, _ := NewTimeGrid([]float64{0}, 1)
	meta := CubeMeta{CurveID: "x", Pillars: pillars, Grid: grid}

	_, data := c.Export(meta)
	data[0] = 99
	if c.At(0, 0, 0) != 1.5 {
		t.Fatalf("mutating Export() data leaked into cube: At(0,0,0) = %v", c.At(0, 0, 0))
	}
}

func TestCheckCubeShape(t *testing.T) {
	c := NewRateCube(5, 3, 2)
	if err := checkCubeShape(c, 3, 2, "test"); err != nil {
		t.Fatalf("checkCubeShape returned error for matching shape: %v", err)
	}
	if err := checkCubeShape(c, 3, 5, "test"); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}
