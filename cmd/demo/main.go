package main

import (
	"context"
	"flag"
	"fmt"

	"tariff-engine/internal/data"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/optimize"
	"tariff-engine/internal/strategy"
)

// Demo:
// - Generate a synthetic consumption fleet (Gamma household sizes, Dirichlet hourly shapes)
// - Price it with the flat, time-of-use, and dynamic strategies and compare fairness
// - Solve the constrained optimization for each weight preset to show the fairness/profit trade
func main() {
	households := flag.Int("households", 24, "Number of synthetic households")
	days := flag.Int("days", 2, "Number of days to generate")
	seed := flag.Uint64("seed", 42, "Random seed")
	target := flag.Float64("target", 0, "Cost recovery target in currency units (0 = default)")
	outCSV := flag.String("out", "", "Optional path to write the balanced preset's curve (CSV)")
	flag.Parse()

	ds, err := data.GenerateSynthetic(data.SyntheticSpec{
		Households: *households,
		Days:       *days,
		Seed:       *seed,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Generated %d households x %d hours (%.1f kWh total)\n\n",
		ds.Households(), ds.Hours(), ds.TotalConsumption())

	eng := engine.NewDefault()

	cmp, err := eng.CompareStrategies(context.Background(), ds, []engine.StrategyRun{
		{Type: strategy.TypeFlat, Target: *target},
		{Type: strategy.TypeTimeOfUse, Target: *target},
		{Type: strategy.TypeDynamic, Target: *target},
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-10s %12s %10s %10s %10s\n", "STRATEGY", "REVENUE", "%TARGET", "GINI", "COV")
	for _, out := range cmp.Outcomes {
		fmt.Printf("%-10s %12.2f %10.1f %10.4f %10.4f\n",
			out.Type, out.Evaluation.TotalRevenue, out.Evaluation.CostRecoveryPct,
			out.Fairness.GiniCoefficient, out.Fairness.CoefficientOfVariation)
	}
	fmt.Printf("\nFairest: %s   Most revenue: %s\n\n", cmp.BestFairness, cmp.BestRevenue)

	var balanced *optimize.Result

	fmt.Printf("%-26s %10s %12s %10s %10s %10s\n", "PRESET", "STATUS", "REVENUE", "GINI", "MINPRICE", "MAXPRICE")
	for _, p := range engine.Presets() {
		res, err := eng.RunOptimization(context.Background(), ds, optimize.Constraints{
			FairnessWeight:     p.FairnessWeight,
			ProfitWeight:       p.ProfitWeight,
			CostRecoveryTarget: *target,
		})
		if err != nil {
			panic(err)
		}
		if !res.Status.Succeeded() {
			fmt.Printf("%-26s %10s  %s\n", p.Key, res.Status, res.Diagnostic)
			continue
		}
		fmt.Printf("%-26s %10s %12.2f %10.4f %10.4f %10.4f\n",
			p.Key, res.Status, res.Evaluation.TotalRevenue,
			res.Fairness.GiniCoefficient, res.PriceMin, res.PriceMax)
		if p.Key == "balanced" {
			balanced = res
		}
	}

	if balanced != nil {
		grid := ds.TimeGrid()
		load := ds.LoadProfile()
		n := min(12, len(grid))
		fmt.Printf("\nBalanced curve (first %d hours):\n", n)
		for i := 0; i < n; i++ {
			fmt.Printf("%s  load=%8.2f kWh  price=%.4f\n",
				grid[i].Format("2006-01-02 15:04"), load[i], balanced.PriceCurve[i])
		}

		if *outCSV != "" {
			if err := data.WritePriceCurveCSV(*outCSV, grid, balanced.PriceCurve); err != nil {
				panic(err)
			}
			fmt.Printf("\nWrote CSV: %s\n", *outCSV)
		}
	}

	fmt.Printf("\nDone. %d strategies compared, %d presets solved.\n",
		len(cmp.Outcomes), len(engine.Presets()))
}
