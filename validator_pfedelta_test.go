package ircore

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCheckPFEDelta_ZeroOnIdenticalProfiles(t *testing.T) {
	data := []float64{1, 2, 3, 4, 2, 3, 4, 5, 3, 4, 5, 6}
	a := mat.NewDense(3, 4, data)
	b := mat.NewDense(3, 4, append([]float64(nil), data...))

	report, err := CheckPFEDelta(a, b, 0.95)
	if err != nil {
		t.Fatalf("CheckPFEDelta returned error: %v", err)
	}
	if report.MaxAbsDiff != 0 || report.MaxRelDiff != 0 {
		t.Fatalf("MaxAbsDiff=%v MaxRelDiff=%v, want both 0", report.MaxAbsDiff, report.MaxRelDiff)
	}
}

func TestCheckPFEDelta_RejectsMismatchedT(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := mat.NewDense(2, 4, make([]float64, 8))
	_, err := CheckPFEDelta(a, b, 0.95)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}
