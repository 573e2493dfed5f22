package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tariff-engine/internal/data"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/strategy"
)

var (
	strategyData   string
	strategyType   string
	strategyParams string
	strategyTarget float64
	strategyOut    string
	strategyJSON   bool
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Price a consumption dataset with one tariff strategy",
	Long: `Executes a single pricing strategy over a consumption dataset and
scores the resulting bills for revenue and fairness.

Examples:
  # Flat tariff that recovers 120.00 in revenue
  tariffctl strategy --data consumption.csv --type flat --target 120

  # Time-of-use with a custom peak window and multiplier
  tariffctl strategy --data consumption.csv --type tou \
    --params '{"peak_hours":[17,18,19,20],"peak_multiplier":1.8}'

  # Dynamic load-following tariff, curve written as CSV
  tariffctl strategy --data consumption.json --type dynamic --out curve.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(strategyData)
		if err != nil {
			return eris.Wrap(err, "strategy: load dataset")
		}

		params, err := parseParams(strategyParams)
		if err != nil {
			return err
		}

		typ, err := strategy.ParseType(strategyType)
		if err != nil {
			return err
		}

		out, err := engine.NewDefault().ExecuteStrategy(ds, engine.StrategyRun{
			Type:   typ,
			Params: params,
			Target: strategyTarget,
		})
		if err != nil {
			return err
		}

		if strategyOut != "" {
			if err := data.WritePriceCurveCSV(strategyOut, ds.TimeGrid(), out.PriceCurve); err != nil {
				return eris.Wrap(err, "strategy: write curve")
			}
			zap.L().Info("price curve written", zap.String("path", strategyOut))
		}

		if strategyJSON {
			return printJSON(strategyView(out))
		}
		printOutcome(out)
		return nil
	},
}

func init() {
	strategyCmd.Flags().StringVar(&strategyData, "data", "", "consumption dataset (.csv or .json)")
	strategyCmd.Flags().StringVar(&strategyType, "type", "flat", "strategy type: flat, tou, dynamic")
	strategyCmd.Flags().StringVar(&strategyParams, "params", "", `strategy parameters as a JSON object, e.g. '{"peak_multiplier":1.5}'`)
	strategyCmd.Flags().Float64Var(&strategyTarget, "target", 0, "cost recovery target in currency units (0 = default rate)")
	strategyCmd.Flags().StringVar(&strategyOut, "out", "", "write the hourly price curve to this CSV path")
	strategyCmd.Flags().BoolVar(&strategyJSON, "json", false, "print the full result as JSON")
	_ = strategyCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(strategyCmd)
}
