package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tariff-engine/internal/engine"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in fairness/profit weight presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		presets := engine.Presets()

		if presetsJSON {
			view := make([]map[string]any, 0, len(presets))
			for _, p := range presets {
				view = append(view, map[string]any{
					"key":             p.Key,
					"name":            p.Name,
					"description":     p.Description,
					"fairness_weight": p.FairnessWeight,
					"profit_weight":   p.ProfitWeight,
				})
			}
			return printJSON(view)
		}

		for _, p := range presets {
			fmt.Printf("%-26s fairness %.2f / profit %.2f\n", p.Key, p.FairnessWeight, p.ProfitWeight)
			fmt.Printf("    %s\n", p.Description)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "print presets as JSON")
	rootCmd.AddCommand(presetsCmd)
}
