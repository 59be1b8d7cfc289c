package priceindex

import (
	"fmt"
	"strings"

	"github.com/duckretail/insights/internal/contracts"
)

// insights derives the strategic pricing lines attached to a report.
func insights(report contracts.PriceIndexReport) []string {
	var lines []string

	if report.OverallPositioning != "" {
		lines = append(lines, fmt.Sprintf(
			"Overall price index is %.1f (%s) relative to competitors in the same sub-department and section.",
			report.OverallIndex, strings.ToLower(report.OverallPositioning)))
	}

	if len(report.PositioningCounts) > 1 {
		most, count := "", 0
		for pos, n := range report.PositioningCounts {
			if n > count || (n == count && pos < most) {
				most, count = pos, n
			}
		}
		lines = append(lines, fmt.Sprintf(
			"Positioning varies across stores: %d entries sit in the '%s' band, suggesting inconsistent competitive positioning.",
			count, most))
	}

	var topPremium, topDiscount *contracts.CategoryIndex
	for i := range report.Categories {
		c := &report.Categories[i]
		if topPremium == nil || c.PriceIndex > topPremium.PriceIndex {
			topPremium = c
		}
		if topDiscount == nil || c.PriceIndex < topDiscount.PriceIndex {
			topDiscount = c
		}
	}

	if topPremium != nil && topPremium.PriceIndex > 100 {
		lines = append(lines, fmt.Sprintf(
			"Highest premium category: %s / %s at %.1f%% above market average.",
			topPremium.SubDepartment, topPremium.Section, topPremium.PriceIndex-100))
	}
	if topDiscount != nil && topDiscount.PriceIndex < 100 {
		lines = append(lines, fmt.Sprintf(
			"Deepest discount category: %s / %s at %.1f%% below market average.",
			topDiscount.SubDepartment, topDiscount.Section, 100-topDiscount.PriceIndex))
	}

	return lines
}
