package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tariff-engine/internal/data"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/optimize"
)

var (
	optimizeData        string
	optimizePreset      string
	optimizeFairness    float64
	optimizeProfit      float64
	optimizeMode        string
	optimizeTarget      float64
	optimizeMinRecovery float64
	optimizeMaxRecovery float64
	optimizeMinPrice    float64
	optimizeMaxPrice    float64
	optimizeTimeout     int
	optimizeOut         string
	optimizeJSON        bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Solve for a fairness/profit optimized price curve",
	Long: `Solves a linear program over the hourly price curve, trading
fairness (low hour-to-hour deviation) against profit (revenue), subject
to the cost recovery band and the per-hour price box.

Weights come from --preset or from --fairness-weight/--profit-weight;
when neither is given the balanced preset applies. Constraint defaults
come from the solver section of config.yaml.

Examples:
  tariffctl optimize --data consumption.csv --preset maximum_fairness

  tariffctl optimize --data consumption.csv \
    --fairness-weight 0.3 --profit-weight 0.7 \
    --target 150 --min-recovery 100 --max-recovery 130 --out curve.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(optimizeData)
		if err != nil {
			return eris.Wrap(err, "optimize: load dataset")
		}

		flags := cmd.Flags()
		explicit := flags.Changed("fairness-weight") || flags.Changed("profit-weight")
		if optimizePreset != "" && explicit {
			return eris.New("optimize: give --preset or explicit weights, not both")
		}

		fw, pw := optimizeFairness, optimizeProfit
		if !explicit {
			key := optimizePreset
			if key == "" {
				key = "balanced"
			}
			p, ok := engine.PresetByKey(key)
			if !ok {
				return eris.Errorf("optimize: unknown preset %q", key)
			}
			fw, pw = p.FairnessWeight, p.ProfitWeight
		}

		modeStr := optimizeMode
		if modeStr == "" {
			modeStr = cfg.Solver.Mode
		}
		mode, err := optimize.ParseMode(modeStr)
		if err != nil {
			return err
		}

		cons := optimize.Constraints{
			FairnessWeight:     fw,
			ProfitWeight:       pw,
			Mode:               mode,
			MinCostRecoveryPct: cfg.Solver.MinCostRecoveryPct,
			MaxCostRecoveryPct: cfg.Solver.MaxCostRecoveryPct,
			CostRecoveryTarget: optimizeTarget,
			MinPrice:           cfg.Solver.MinPrice,
			MaxPrice:           cfg.Solver.MaxPrice,
			SolverTimeout:      cfg.Solver.Timeout(),
		}
		if flags.Changed("min-recovery") {
			cons.MinCostRecoveryPct = optimizeMinRecovery
		}
		if flags.Changed("max-recovery") {
			cons.MaxCostRecoveryPct = optimizeMaxRecovery
		}
		if flags.Changed("min-price") {
			cons.MinPrice = optimizeMinPrice
		}
		if flags.Changed("max-price") {
			cons.MaxPrice = optimizeMaxPrice
		}
		if flags.Changed("timeout") {
			cons.SolverTimeout = time.Duration(optimizeTimeout) * time.Second
		}

		res, err := engine.NewDefault().RunOptimization(cmd.Context(), ds, cons)
		if err != nil {
			return err
		}

		if optimizeOut != "" && res.Status.Succeeded() {
			if err := data.WritePriceCurveCSV(optimizeOut, ds.TimeGrid(), res.PriceCurve); err != nil {
				return eris.Wrap(err, "optimize: write curve")
			}
			zap.L().Info("price curve written", zap.String("path", optimizeOut))
		}

		if optimizeJSON {
			return printJSON(resultView(res))
		}
		printResult(res)
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeData, "data", "", "consumption dataset (.csv or .json)")
	optimizeCmd.Flags().StringVar(&optimizePreset, "preset", "", "weight preset key (see 'tariffctl presets')")
	optimizeCmd.Flags().Float64Var(&optimizeFairness, "fairness-weight", 0, "fairness weight in [0,1]")
	optimizeCmd.Flags().Float64Var(&optimizeProfit, "profit-weight", 0, "profit weight in [0,1]")
	optimizeCmd.Flags().StringVar(&optimizeMode, "mode", "", "pricing mode: regulated or market (default from config)")
	optimizeCmd.Flags().Float64Var(&optimizeTarget, "target", 0, "cost recovery target in currency units (0 = default rate)")
	optimizeCmd.Flags().Float64Var(&optimizeMinRecovery, "min-recovery", 0, "revenue floor as a percentage of the target")
	optimizeCmd.Flags().Float64Var(&optimizeMaxRecovery, "max-recovery", 0, "revenue ceiling as a percentage of the target")
	optimizeCmd.Flags().Float64Var(&optimizeMinPrice, "min-price", 0, "per-hour price floor, currency per kWh")
	optimizeCmd.Flags().Float64Var(&optimizeMaxPrice, "max-price", 0, "per-hour price ceiling, currency per kWh")
	optimizeCmd.Flags().IntVar(&optimizeTimeout, "timeout", 0, "solver time budget in seconds")
	optimizeCmd.Flags().StringVar(&optimizeOut, "out", "", "write the solved price curve to this CSV path")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "print the full result as JSON")
	_ = optimizeCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(optimizeCmd)
}
