package priceindex

import (
	"sort"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/engineconfig"
	"github.com/duckretail/insights/pkg/logger"
)

// Engine computes competitive price indices for a target supplier
// against peer SKUs in the same store, sub-department and section.
type Engine struct {
	cfg    engineconfig.Pricing
	logger *logger.Logger
}

// New creates an Engine with the given positioning bands.
func New(cfg engineconfig.Pricing, log *logger.Logger) *Engine {
	return &Engine{cfg: cfg, logger: log}
}

// skuKey identifies one SKU within one store.
type skuKey struct {
	store string
	sku   string
}

// cellKey identifies a competitive cell: peer SKUs share all three.
type cellKey struct {
	store         string
	subDepartment string
	section       string
}

// skuAgg accumulates record-level unit prices per (store, sku).
type skuAgg struct {
	supplier      string
	subDepartment string
	section       string
	priceSum      float64
	priceCount    int
	quantity      int64
}

func (a *skuAgg) meanUnitPrice() float64 {
	return a.priceSum / float64(a.priceCount)
}

// Compute returns one PriceIndexEntry per (store, sku) of the target
// supplier that has at least the configured number of peers. SKUs
// with an empty peer set are excluded entirely rather than returned
// with a null index. The result is scale-invariant under uniform
// currency rescaling.
func (e *Engine) Compute(records []contracts.TransactionRecord, flags []contracts.QualityFlags, targetSupplier string) []contracts.PriceIndexEntry {
	skus := e.aggregate(records, flags)

	// Group SKU aggregates into competitive cells.
	cells := make(map[cellKey][]skuKey)
	for key, agg := range skus {
		ck := cellKey{store: key.store, subDepartment: agg.subDepartment, section: agg.section}
		cells[ck] = append(cells[ck], key)
	}

	var entries []contracts.PriceIndexEntry

	for ck, members := range cells {
		// Market average over peers: unweighted mean of the other
		// suppliers' SKU unit prices. The target's own SKUs never
		// join the denominator.
		var peerSum float64
		var peerCount int
		for _, mk := range members {
			if skus[mk].supplier != targetSupplier {
				peerSum += skus[mk].meanUnitPrice()
				peerCount++
			}
		}
		if peerCount < e.cfg.MinPeers {
			continue
		}
		marketAvg := peerSum / float64(peerCount)
		if marketAvg <= 0 {
			continue
		}

		for _, mk := range members {
			agg := skus[mk]
			if agg.supplier != targetSupplier {
				continue
			}

			unit := agg.meanUnitPrice()
			index := unit / marketAvg * 100

			entries = append(entries, contracts.PriceIndexEntry{
				StoreID:            mk.store,
				SKUID:              mk.sku,
				SubDepartment:      ck.subDepartment,
				Section:            ck.section,
				UnitPrice:          unit,
				MarketAvgUnitPrice: marketAvg,
				PeerCount:          peerCount,
				PriceIndex:         index,
				Positioning:        e.positioning(index),
				Quantity:           agg.quantity,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StoreID != entries[j].StoreID {
			return entries[i].StoreID < entries[j].StoreID
		}
		return entries[i].SKUID < entries[j].SKUID
	})

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"supplier": targetSupplier,
			"entries":  len(entries),
		}).Debug("Price index computed")
	}

	return entries
}

// aggregate builds per-(store, sku) mean unit prices from eligible
// records. Rows with non-positive quantity or negative values cannot
// price and are excluded.
func (e *Engine) aggregate(records []contracts.TransactionRecord, flags []contracts.QualityFlags) map[skuKey]*skuAgg {
	skus := make(map[skuKey]*skuAgg)

	for i := range records {
		r := &records[i]
		if flags[i].NegativeQuantityOrSales {
			continue
		}
		unit, ok := r.UnitPrice()
		if !ok {
			continue
		}

		key := skuKey{store: r.StoreID, sku: r.SKUID}
		agg, exists := skus[key]
		if !exists {
			agg = &skuAgg{
				supplier:      r.Supplier,
				subDepartment: r.SubDepartment,
				section:       r.Section,
			}
			skus[key] = agg
		}
		agg.priceSum += unit
		agg.priceCount++
		agg.quantity += r.Quantity
	}

	return skus
}

// positioning maps an index value to its band. The Near Market band
// is inclusive on both bounds.
func (e *Engine) positioning(index float64) string {
	switch {
	case index >= e.cfg.PremiumMin:
		return contracts.PositioningPremium
	case index < e.cfg.DiscountMax:
		return contracts.PositioningDiscount
	default:
		return contracts.PositioningNearMarket
	}
}

// Report assembles the full price-index view: quantity-weighted
// overall index, positioning distribution, and the category breakdown
// carrying both weighted and unweighted variants.
func (e *Engine) Report(entries []contracts.PriceIndexEntry, targetSupplier string, detailed bool) contracts.PriceIndexReport {
	report := contracts.PriceIndexReport{
		Supplier:          targetSupplier,
		PositioningCounts: make(map[string]int),
		Categories:        e.categoryBreakdown(entries),
	}

	var weightedSum, weightTotal float64
	for _, entry := range entries {
		report.PositioningCounts[entry.Positioning]++
		weightedSum += entry.PriceIndex * float64(entry.Quantity)
		weightTotal += float64(entry.Quantity)
	}

	if weightTotal > 0 {
		report.OverallIndex = weightedSum / weightTotal
		report.OverallPositioning = e.positioning(report.OverallIndex)
	}

	if detailed {
		report.Entries = entries
	}

	report.Insights = insights(report)
	return report
}

// categoryBreakdown aggregates entry indices per (sub-department,
// section). Both means are reported: the unweighted mean matches the
// observed methodology, the quantity-weighted one corrects for volume.
func (e *Engine) categoryBreakdown(entries []contracts.PriceIndexEntry) []contracts.CategoryIndex {
	type catAgg struct {
		cat         contracts.CategoryIndex
		indexSum    float64
		weightedSum float64
	}

	type catKey struct {
		subDepartment string
		section       string
	}

	cats := make(map[catKey]*catAgg)
	for _, entry := range entries {
		key := catKey{subDepartment: entry.SubDepartment, section: entry.Section}
		agg, ok := cats[key]
		if !ok {
			agg = &catAgg{cat: contracts.CategoryIndex{
				SubDepartment: entry.SubDepartment,
				Section:       entry.Section,
			}}
			cats[key] = agg
		}
		agg.cat.Entries++
		agg.cat.Quantity += entry.Quantity
		agg.indexSum += entry.PriceIndex
		agg.weightedSum += entry.PriceIndex * float64(entry.Quantity)
	}

	result := make([]contracts.CategoryIndex, 0, len(cats))
	for _, agg := range cats {
		c := agg.cat
		c.PriceIndex = agg.indexSum / float64(c.Entries)
		if c.Quantity > 0 {
			c.PriceIndexWeighted = agg.weightedSum / float64(c.Quantity)
		} else {
			c.PriceIndexWeighted = c.PriceIndex
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity > result[j].Quantity
		}
		if result[i].SubDepartment != result[j].SubDepartment {
			return result[i].SubDepartment < result[j].SubDepartment
		}
		return result[i].Section < result[j].Section
	})

	return result
}
