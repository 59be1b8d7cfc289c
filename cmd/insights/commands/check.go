package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and dataset",
	Long: `Validate the analyzer configuration and load the dataset once.

Fails on structural errors: missing CSV columns, unparsable values,
or invalid threshold configuration. Data defects (missing suppliers,
missing reference prices, duplicates) are reported but do not fail
the check.

Example:
  go run ./cmd/insights check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("config: ok (engine hash %s)\n", a.engineHash[:12])

	if err := a.loadSnapshot(cmd.Context()); err != nil {
		return err
	}
	snap := a.store.Snapshot()

	fmt.Printf("dataset: ok (%d records, %d stores, %d SKUs, %d suppliers)\n",
		snap.Overview.TotalRecords,
		snap.Overview.NumStores,
		snap.Overview.NumSKUs,
		snap.Overview.NumSuppliers,
	)
	fmt.Printf("defects: %d missing supplier, %d missing RRP, %d duplicates, %d negative, %d extreme prices\n",
		snap.Issues.MissingSupplier,
		snap.Issues.MissingRRP,
		snap.Issues.Duplicates,
		snap.Issues.NegativeValues,
		snap.Issues.ExtremePrices,
	)
	for _, line := range snap.Issues.KeyIssues {
		fmt.Printf("  - %s\n", line)
	}

	return nil
}
