package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "insights",
	Short: "Retail POS analytics engine",
	Long: `Retail POS analytics engine.

Normalizes point-of-sale transaction exports and serves data quality,
promotion, and competitive price index reports over a REST API.

Usage:
  go run ./cmd/insights [command]

Examples:
  go run ./cmd/insights api
  go run ./cmd/insights report quality
  go run ./cmd/insights report promotions --supplier "BIDCO"
  go run ./cmd/insights check`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
