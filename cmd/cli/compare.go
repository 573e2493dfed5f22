package main

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"tariff-engine/internal/engine"
	"tariff-engine/internal/strategy"
)

var (
	compareData     string
	compareTypes    []string
	compareTarget   float64
	compareParams   string
	compareRunsFile string
	compareJSON     bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare several tariff strategies on one dataset",
	Long: `Runs each strategy over the same dataset and reports which one is
fairest (lowest Gini coefficient) and which one earns the most revenue.

Examples:
  tariffctl compare --data consumption.csv --types flat,tou,dynamic --target 140

  # Per-strategy parameters, keyed by strategy type
  tariffctl compare --data consumption.csv --types flat,tou \
    --params '{"tou":{"peak_multiplier":2.0}}'

  # Full control per run from a YAML file
  tariffctl compare --data consumption.csv --runs runs.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(compareData)
		if err != nil {
			return eris.Wrap(err, "compare: load dataset")
		}

		flags := cmd.Flags()
		if compareRunsFile != "" && (flags.Changed("types") || flags.Changed("params") || flags.Changed("target")) {
			return eris.New("compare: --runs replaces --types, --params, and --target")
		}

		var runs []engine.StrategyRun
		if compareRunsFile != "" {
			runs, err = loadRunsYAML(compareRunsFile)
			if err != nil {
				return err
			}
		} else {
			perType := map[string]map[string]any{}
			if compareParams != "" {
				if err := json.Unmarshal([]byte(compareParams), &perType); err != nil {
					return eris.Wrap(err, "compare: parse --params")
				}
			}

			for _, raw := range compareTypes {
				typ, err := strategy.ParseType(strings.TrimSpace(raw))
				if err != nil {
					return err
				}
				runs = append(runs, engine.StrategyRun{
					Type:   typ,
					Params: perType[string(typ)],
					Target: compareTarget,
				})
			}
		}

		cmp, err := engine.NewDefault().CompareStrategies(cmd.Context(), ds, runs)
		if err != nil {
			return err
		}

		if compareJSON {
			return printJSON(comparisonView(cmp))
		}
		printComparison(cmp)
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareData, "data", "", "consumption dataset (.csv or .json)")
	compareCmd.Flags().StringSliceVar(&compareTypes, "types", []string{"flat", "tou", "dynamic"}, "strategy types to compare")
	compareCmd.Flags().Float64Var(&compareTarget, "target", 0, "cost recovery target applied to every strategy (0 = default rate)")
	compareCmd.Flags().StringVar(&compareParams, "params", "", "per-strategy parameters as a JSON object keyed by type")
	compareCmd.Flags().StringVar(&compareRunsFile, "runs", "", "YAML file defining the runs (type, params, target per entry)")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "print the full result as JSON")
	_ = compareCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(compareCmd)
}
