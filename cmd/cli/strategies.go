package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tariff-engine/internal/strategy"
)

var strategiesJSON bool

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the available pricing strategies and their parameters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog := strategy.Catalog()

		if strategiesJSON {
			return printJSON(catalog)
		}

		for _, info := range catalog {
			fmt.Printf("%-10s %s\n", info.Type, info.Name)
			fmt.Printf("    %s\n", info.Description)
			for _, p := range info.Parameters {
				fmt.Printf("    --params %-22s %s (default %v)\n", p.Name, p.Description, p.Default)
			}
		}
		return nil
	},
}

func init() {
	strategiesCmd.Flags().BoolVar(&strategiesJSON, "json", false, "print the catalog as JSON")
	rootCmd.AddCommand(strategiesCmd)
}
