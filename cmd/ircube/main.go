// Command ircube drives the IR scenario core end to end: it builds a
// discount curve and mean function, optionally calibrates correlation and
// volatility from historical pillar rates, simulates an Ultimate Base
// Curve scenario cube, runs the monotonicity validator over it, and
// optionally exports the cube to CSV.
//
// This is an illustrative orchestrator only (spec.md §6); portfolio
// pricing, collateral and XVA aggregation are out of the core's scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/quantcore/irscenario"
	"github.com/quantcore/irscenario/curve"
	"github.com/quantcore/irscenario/marketdata"
)

func main() {
	seed := flag.Uint64("seed", 42, "base RNG seed")
	paths := flag.Int("paths", 2000, "number of simulated paths")
	steps := flag.Int("steps", 60, "number of time steps")
	horizonYears := flag.Float64("horizon", 10.0, "simulation horizon, in years")
	pillarsDays := flag.String("pillars", "90,365,730,1825,3650", "comma-separated pillar maturities, in days")
	shiftBp := flag.Float64("shift-bp", 100.0, "shift, in basis points, broadcast across pillars")
	lam := flag.Float64("lam", 0.05, "mean reversion, broadcast across pillars")
	sigma := flag.Float64("sigma", 0.01, "driver volatility, broadcast across pillars (ignored if -history is set)")
	historyPath := flag.String("history", "", "optional CSV of historical pillar rates, for calibration")
	dfCurvePath := flag.String("df-curve", "", "optional CSV of (years,df) initial discount curve; defaults to a flat 2% curve")
	out := flag.String("out", "", "optional path to write the simulated cube as CSV")
	flag.Parse()

	if err := run(*seed, *paths, *steps, *horizonYears, *pillarsDays, *shiftBp, *lam, *sigma, *historyPath, *dfCurvePath, *out); err != nil {
		log.Println("ircube:", err)
		os.Exit(1)
	}
}

func run(seed uint64, paths, steps int, horizonYears float64, pillarsDaysCSV string, shiftBp, lam, sigma float64, historyPath, dfCurvePath, outPath string) error {
	pillars, err := parsePillars(pillarsDaysCSV)
	if err != nil {
		return err
	}

	times := make([]float64, steps)
	for i := range times {
		times[i] = horizonYears * float64(i) / float64(steps-1)
	}
	grid, err := ircore.NewTimeGrid(times, 2)
	if err != nil {
		return err
	}

	var dc ircore.DiscountCurve
	if dfCurvePath != "" {
		tc, err := marketdata.LoadDiscountCurveCSV(dfCurvePath)
		if err != nil {
			return err
		}
		dc = tc
	} else {
		dc = curve.FlatCurve{Rate: 0.02}
	}

	g, err := ircore.MeanFunctionBuilder{Grid: grid, Pillars: pillars, Curve: dc}.Build()
	if err != nil {
		return err
	}

	K := pillars.Len()
	var corr mat.Symmetric
	sigmaVec := ircore.BroadcastScalar(sigma, K)
	if historyPath != "" {
		history, _, err := marketdata.LoadRateHistoryCSV(historyPath)
		if err != nil {
			return err
		}
		calib := ircore.HistoricalCalibrator{Lambda: lam, ShiftBp: shiftBp}
		c, s, err := calib.Calibrate(history)
		if err != nil {
			return err
		}
		corr = c
		sigmaVec = s
	}

	params := ircore.ProcessParameters{
		ShiftBp: ircore.BroadcastScalar(shiftBp, K),
		Sigma:   sigmaVec,
		Lam:     ircore.BroadcastScalar(lam, K),
	}

	proc, err := ircore.NewUltimateBaseCurveProcess(params, corr)
	if err != nil {
		return err
	}

	cube, _, err := proc.Simulate(context.Background(), grid, g, paths, seed, ircore.SimulateOptions{})
	if err != nil {
		return err
	}

	report := ircore.CheckMonotonicity(cube, pillars, 0)
	fmt.Printf("simulated %d paths x %d steps x %d pillars\n", cube.P, cube.T, cube.K)
	fmt.Printf("monotonicity violation rate: %.6f (max increase %.3e)\n", report.ViolationRate, report.MaxIncrease)

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("ircube: create %s: %w", outPath, err)
		}
		defer f.Close()
		meta := ircore.CubeMeta{CurveID: "ubc-demo", Pillars: pillars, Grid: grid}
		if err := ircore.WriteCubeCSV(f, cube, meta); err != nil {
			return err
		}
	}
	return nil
}

func parsePillars(csv string) (ircore.PillarSet, error) {
	parts := strings.Split(csv, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return ircore.PillarSet{}, fmt.Errorf("ircube: invalid pillar %q: %w", p, err)
		}
		days = append(days, d)
	}
	return ircore.NewPillarSet(days, ircore.DefaultDayCount)
}
