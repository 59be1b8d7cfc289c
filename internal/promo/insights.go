package promo

import (
	"fmt"

	"github.com/duckretail/insights/internal/contracts"
)

// insights derives the commercial insight lines attached to a promo
// summary. All lines are deterministic formatting over computed KPIs.
func insights(kpis contracts.PromoKPIs, topSKUs []contracts.SKUPromoPerformance) []string {
	var lines []string

	if kpis.AvgUpliftPct > 0 {
		lines = append(lines, fmt.Sprintf(
			"Promotions drive an average %.1f%% quantity uplift at an average discount depth of %.1f%%.",
			kpis.AvgUpliftPct, kpis.AvgDiscountDepth))
	}

	if kpis.SKUsWithPromos > 0 && kpis.AvgCoveragePct < 50 {
		lines = append(lines, fmt.Sprintf(
			"Promo coverage averages %.1f%% of carrying stores; expanding execution could drive additional volume.",
			kpis.AvgCoveragePct))
	}

	if len(topSKUs) > 0 && topSKUs[0].AvgUpliftPct != nil {
		top := topSKUs[0]
		lines = append(lines, fmt.Sprintf(
			"Top performer: SKU %s delivers %.1f%% uplift with %.1f%% store coverage at %.1f%% discount.",
			top.SKUID, *top.AvgUpliftPct, top.AvgCoveragePct, top.AvgDiscountDepth))
	}

	for _, sku := range topSKUs {
		if sku.AvgUpliftPct != nil && *sku.AvgUpliftPct > 50 && sku.AvgCoveragePct < 30 {
			lines = append(lines, fmt.Sprintf(
				"Opportunity: SKU %s shows %.1f%% uplift but runs in only %.1f%% of stores.",
				sku.SKUID, *sku.AvgUpliftPct, sku.AvgCoveragePct))
			break
		}
	}

	return lines
}
