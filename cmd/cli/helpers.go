package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"tariff-engine/internal/data"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/model"
	"tariff-engine/internal/optimize"
	"tariff-engine/internal/strategy"
)

// loadDataset reads consumption records from a .csv or .json file and
// builds the validated dataset.
func loadDataset(path string) (*model.Dataset, error) {
	var (
		recs []model.ConsumptionRecord
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		recs, err = data.ReadConsumptionCSV(path)
	case ".json":
		recs, err = data.ReadConsumptionJSON(path)
	default:
		return nil, eris.Errorf("cli: unsupported dataset extension %q (want .csv or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return model.BuildDataset(recs)
}

// parseParams decodes a --params JSON object, if given.
func parseParams(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, eris.Wrap(err, "cli: parse --params")
	}
	return params, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runSpec is one entry in a --runs YAML file.
type runSpec struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
	Target float64        `yaml:"target"`
}

// loadRunsYAML reads strategy runs from a YAML list:
//
//	- type: flat
//	  target: 120
//	- type: tou
//	  params:
//	    peak_hours: [17, 18, 19, 20]
//	    peak_multiplier: 1.8
func loadRunsYAML(path string) ([]engine.StrategyRun, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cli: read %s", path)
	}

	var specs []runSpec
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, eris.Wrapf(err, "cli: parse %s", path)
	}

	runs := make([]engine.StrategyRun, 0, len(specs))
	for _, s := range specs {
		typ, err := strategy.ParseType(s.Type)
		if err != nil {
			return nil, err
		}
		runs = append(runs, engine.StrategyRun{Type: typ, Params: s.Params, Target: s.Target})
	}
	return runs, nil
}

func strategyView(out *engine.StrategyOutcome) map[string]any {
	return map[string]any{
		"strategy":        map[string]string{"type": string(out.Type), "name": out.Name},
		"target_revenue":  out.Target,
		"runtime_seconds": out.Runtime.Seconds(),
		"price_curve":     out.PriceCurve,
		"evaluation":      out.Evaluation,
		"fairness":        out.Fairness,
		"outliers":        out.Outliers,
	}
}

func printOutcome(out *engine.StrategyOutcome) {
	fmt.Printf("%-26s %s\n", "Strategy:", out.Name)
	fmt.Printf("%-26s %.2f\n", "Target revenue:", out.Target)
	fmt.Printf("%-26s %.2f (%.1f%% of target)\n", "Total revenue:",
		out.Evaluation.TotalRevenue, out.Evaluation.CostRecoveryPct)
	fmt.Printf("%-26s %.4f\n", "Avg price per kWh:", out.Evaluation.AvgPricePerKWh)
	fmt.Printf("%-26s %.4f\n", "Gini coefficient:", out.Fairness.GiniCoefficient)
	fmt.Printf("%-26s %.4f\n", "Coefficient of variation:", out.Fairness.CoefficientOfVariation)
	fmt.Printf("%-26s %.4f / %.4f\n", "Cost per kWh (min/max):",
		out.Fairness.MinCostPerKWh, out.Fairness.MaxCostPerKWh)
}

func comparisonView(cmp *engine.Comparison) map[string]any {
	outs := make([]map[string]any, 0, len(cmp.Outcomes))
	for _, out := range cmp.Outcomes {
		outs = append(outs, strategyView(out))
	}
	return map[string]any{
		"results":       outs,
		"best_fairness": cmp.BestFairness,
		"best_revenue":  cmp.BestRevenue,
	}
}

func printComparison(cmp *engine.Comparison) {
	fmt.Printf("%-10s %12s %10s %10s %10s\n", "STRATEGY", "REVENUE", "%TARGET", "GINI", "COV")
	for _, out := range cmp.Outcomes {
		fmt.Printf("%-10s %12.2f %10.1f %10.4f %10.4f\n",
			out.Type, out.Evaluation.TotalRevenue, out.Evaluation.CostRecoveryPct,
			out.Fairness.GiniCoefficient, out.Fairness.CoefficientOfVariation)
	}
	fmt.Printf("\nFairest:      %s\nMost revenue: %s\n", cmp.BestFairness, cmp.BestRevenue)
}

func resultView(res *optimize.Result) map[string]any {
	v := map[string]any{
		"status":               res.Status,
		"fairness_weight_used": res.FairnessWeightUsed,
		"profit_weight_used":   res.ProfitWeightUsed,
		"objective_value":      res.ObjectiveValue,
		"runtime_seconds":      res.RuntimeSeconds,
	}
	if res.Diagnostic != "" {
		v["diagnostic"] = res.Diagnostic
	}
	if res.Status.Succeeded() {
		v["price_curve"] = res.PriceCurve
		v["price_stats"] = map[string]float64{
			"mean": res.MeanPrice,
			"std":  res.PriceStd,
			"min":  res.PriceMin,
			"max":  res.PriceMax,
		}
		v["revenue"] = map[string]float64{
			"total":     res.Evaluation.TotalRevenue,
			"target":    res.Evaluation.CostRecoveryTarget,
			"shortfall": res.RevenueShortfall,
			"excess":    res.RevenueExcess,
		}
		v["evaluation"] = res.Evaluation
		v["fairness"] = res.Fairness
	}
	return v
}

func printResult(res *optimize.Result) {
	fmt.Printf("%-26s %s\n", "Status:", res.Status)
	if res.Diagnostic != "" {
		fmt.Printf("%-26s %s\n", "Diagnostic:", res.Diagnostic)
	}
	fmt.Printf("%-26s fairness %.2f / profit %.2f\n", "Weights:",
		res.FairnessWeightUsed, res.ProfitWeightUsed)
	fmt.Printf("%-26s %.3fs\n", "Runtime:", res.RuntimeSeconds)
	if !res.Status.Succeeded() {
		return
	}
	fmt.Printf("%-26s %.6f\n", "Objective:", res.ObjectiveValue)
	fmt.Printf("%-26s %.2f (target %.2f)\n", "Revenue:",
		res.Evaluation.TotalRevenue, res.Evaluation.CostRecoveryTarget)
	if res.RevenueShortfall > 0 {
		fmt.Printf("%-26s %.2f\n", "Revenue shortfall:", res.RevenueShortfall)
	}
	if res.RevenueExcess > 0 {
		fmt.Printf("%-26s %.2f\n", "Revenue excess:", res.RevenueExcess)
	}
	fmt.Printf("%-26s mean %.4f  std %.4f  min %.4f  max %.4f\n", "Prices:",
		res.MeanPrice, res.PriceStd, res.PriceMin, res.PriceMax)
	fmt.Printf("%-26s gini %.4f  cov %.4f\n", "Fairness:",
		res.Fairness.GiniCoefficient, res.Fairness.CoefficientOfVariation)
}
