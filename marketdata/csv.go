// Package marketdata provides minimal CSV ingestion for the IR scenario
// core: a dense N x K historical-rate matrix for HistoricalCalibrator, and
// a (years, df) discount-curve table. Full market-data parsing (yield,
// credit, swaption-vol ingestion and wide/long reshaping) is out of scope
// for the core (spec.md §1); this package only feeds the two tabular
// shapes the core actually consumes.
package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/quantcore/irscenario/curve"
)

// LoadRateHistoryCSV reads a CSV file into an N x K matrix of historical
// pillar rates:
//   - the first row is a header naming each pillar column (not parsed as
//     data, only used to determine K and returned to the caller),
//   - every remaining row holds K numeric rate observations.
//
// Grounded directly on the teacher's CSV-to-matrix loading shape, with no
// date/time column since the core has no notion of wall-clock dates.
func LoadRateHistoryCSV(path string) (history *mat.Dense, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("marketdata: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("marketdata: read header: %w", err)
	}
	K := len(header)
	if K == 0 {
		return nil, nil, fmt.Errorf("marketdata: empty header in %s", path)
	}

	var data []float64
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("marketdata: read row %d: %w", row+2, err)
		}
		if len(record) != K {
			return nil, nil, fmt.Errorf("marketdata: row %d: expected %d columns, got %d", row+2, K, len(record))
		}
		for j, s := range record {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("marketdata: parse float at row %d col %d (%q): %w", row+2, j+1, s, err)
			}
			data = append(data, v)
		}
		row++
	}
	if row == 0 {
		return nil, nil, fmt.Errorf("marketdata: no data rows in %s", path)
	}

	return mat.NewDense(row, K, data), header, nil
}

// LoadDiscountCurveCSV reads a two-column (years,df) CSV, with a header
// row, into a *curve.TableCurve.
func LoadDiscountCurveCSV(path string) (*curve.TableCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("marketdata: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("marketdata: read header: %w", err)
	}

	var times, dfs []float64
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("marketdata: read row %d: %w", row+2, err)
		}
		if len(record) != 2 {
			return nil, fmt.Errorf("marketdata: row %d: expected 2 columns (years,df), got %d", row+2, len(record))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("marketdata: parse time at row %d: %w", row+2, err)
		}
		df, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("marketdata: parse df at row %d: %w", row+2, err)
		}
		times = append(times, t)
		dfs = append(dfs, df)
		row++
	}
	if row == 0 {
		return nil, fmt.Errorf("marketdata: no data rows in %s", path)
	}

	return curve.NewTableCurve(times, dfs)
}
