package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/priceindex"
	"github.com/duckretail/insights/internal/promo"
	"github.com/duckretail/insights/internal/quality"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [quality|promotions|price-index]",
	Short: "Compute a report and print it as JSON",
	Long: `Load the dataset, compute the requested report, and print it
to stdout as JSON.

Example:
  go run ./cmd/insights report quality
  go run ./cmd/insights report promotions --supplier "BIDCO"
  go run ./cmd/insights report price-index --supplier "BIDCO AFRICA LIMITED" --view detailed`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var (
	reportSupplier string
	reportView     string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportSupplier, "supplier", "", "supplier filter (promotions) or target supplier (price-index)")
	reportCmd.Flags().StringVar(&reportView, "view", "summary", "price-index view: summary or detailed")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.loadSnapshot(cmd.Context()); err != nil {
		return err
	}
	snap := a.store.Snapshot()

	var report interface{}

	switch args[0] {
	case "quality":
		analyzer := quality.New(a.engine.Quality, a.log)
		report = contracts.QualityReport{
			Overview:       snap.Overview,
			Issues:         snap.Issues,
			StoreScores:    analyzer.StoreHealth(snap.Records, snap.Flags),
			SupplierScores: analyzer.SupplierHealth(snap.Records, snap.Flags),
		}

	case "promotions":
		detector := promo.New(a.engine.Promotions, a.log)
		windows := detector.Detect(snap.Records, snap.Flags)
		report = detector.Summarize(snap.Records, snap.Flags, windows, reportSupplier)

	case "price-index":
		supplier := reportSupplier
		if supplier == "" {
			supplier = a.cfg.TargetSupplier
		}
		if supplier == "" {
			return fmt.Errorf("price-index requires --supplier or TARGET_SUPPLIER")
		}
		if reportView != "summary" && reportView != "detailed" {
			return fmt.Errorf("invalid --view %q (valid: summary, detailed)", reportView)
		}
		engine := priceindex.New(a.engine.Pricing, a.log)
		entries := engine.Compute(snap.Records, snap.Flags, supplier)
		report = engine.Report(entries, supplier, reportView == "detailed")

	default:
		return fmt.Errorf("unknown report %q (valid: quality, promotions, price-index)", args[0])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
