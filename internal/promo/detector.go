package promo

import (
	"sort"
	"strings"
	"time"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/engineconfig"
	"github.com/duckretail/insights/pkg/logger"
)

// Detector identifies promotional weeks per store and SKU and
// computes uplift, coverage, and discount-depth KPIs. Thresholds come
// from config so boundary behavior is testable.
type Detector struct {
	cfg    engineconfig.Promotions
	logger *logger.Logger
}

// New creates a Detector with the given thresholds.
func New(cfg engineconfig.Promotions, log *logger.Logger) *Detector {
	return &Detector{cfg: cfg, logger: log}
}

// weekKey groups records by store, SKU and ISO week.
type weekKey struct {
	store string
	sku   string
	year  int
	week  int
}

// skuWeekKey groups across stores for coverage computation.
type skuWeekKey struct {
	sku  string
	year int
	week int
}

// dayAgg accumulates one calendar day inside a week group.
type dayAgg struct {
	quantity int64
	sales    float64
}

// weekGroup accumulates an eligible (store, sku, week) slice of the
// dataset before classification.
type weekGroup struct {
	days     map[time.Time]*dayAgg
	rrpSum   float64
	rrpCount int
	supplier string
}

func (g *weekGroup) meanRRP() float64 {
	if g.rrpCount == 0 {
		return 0
	}
	return g.rrpSum / float64(g.rrpCount)
}

// Detect returns one PromoWindow per (store, sku, ISO week) group
// whose discount-day count meets the configured minimum. Groups below
// the threshold produce no window. Records flagged missing-RRP or
// negative, and records with non-positive quantity, are excluded up
// front.
func (d *Detector) Detect(records []contracts.TransactionRecord, flags []contracts.QualityFlags) []contracts.PromoWindow {
	groups := make(map[weekKey]*weekGroup)
	carrying := make(map[skuWeekKey]map[string]struct{})

	for i := range records {
		r := &records[i]
		if !eligible(r, flags[i]) {
			continue
		}

		year, week := r.ISOWeek()
		key := weekKey{store: r.StoreID, sku: r.SKUID, year: year, week: week}

		g, ok := groups[key]
		if !ok {
			g = &weekGroup{days: make(map[time.Time]*dayAgg)}
			groups[key] = g
		}

		day := r.DayKey()
		agg, ok := g.days[day]
		if !ok {
			agg = &dayAgg{}
			g.days[day] = agg
		}
		agg.quantity += r.Quantity
		agg.sales += r.SalesValue

		g.rrpSum += *r.ReferencePrice
		g.rrpCount++
		if g.supplier == "" {
			g.supplier = r.Supplier
		}

		sk := skuWeekKey{sku: r.SKUID, year: year, week: week}
		if carrying[sk] == nil {
			carrying[sk] = make(map[string]struct{})
		}
		carrying[sk][r.StoreID] = struct{}{}
	}

	windows := d.classify(groups)
	d.applyCoverage(windows, carrying)

	sort.Slice(windows, func(i, j int) bool {
		a, b := windows[i], windows[j]
		if a.SKUID != b.SKUID {
			return a.SKUID < b.SKUID
		}
		if a.StoreID != b.StoreID {
			return a.StoreID < b.StoreID
		}
		if a.ISOYear != b.ISOYear {
			return a.ISOYear < b.ISOYear
		}
		return a.ISOWeek < b.ISOWeek
	})

	if d.logger != nil {
		d.logger.WithFields(map[string]interface{}{
			"groups":  len(groups),
			"windows": len(windows),
		}).Debug("Promotion detection finished")
	}

	return windows
}

// eligible applies the pre-computation exclusions of the detector.
func eligible(r *contracts.TransactionRecord, f contracts.QualityFlags) bool {
	if f.MissingRRP || f.NegativeQuantityOrSales {
		return false
	}
	return r.Quantity > 0
}

// classify turns week groups into windows where the promotion
// predicate holds.
func (d *Detector) classify(groups map[weekKey]*weekGroup) []contracts.PromoWindow {
	var windows []contracts.PromoWindow

	for key, g := range groups {
		rrp := g.meanRRP()
		if rrp <= 0 {
			continue
		}

		discountCeiling := (1 - d.cfg.DiscountThreshold) * rrp

		var (
			promoDays, baseDays   int
			promoPriceSum         float64
			basePriceSum          float64
			promoQty, baseQty     int64
		)

		for _, agg := range g.days {
			unit := agg.sales / float64(agg.quantity)
			if unit <= discountCeiling {
				promoDays++
				promoPriceSum += unit
				promoQty += agg.quantity
			} else {
				baseDays++
				basePriceSum += unit
				baseQty += agg.quantity
			}
		}

		if promoDays < d.cfg.MinDiscountDays {
			continue
		}

		w := contracts.PromoWindow{
			StoreID:       key.store,
			SKUID:         key.sku,
			Supplier:      g.supplier,
			ISOYear:       key.year,
			ISOWeek:       key.week,
			PromoDays:     promoDays,
			PromoPrice:    promoPriceSum / float64(promoDays),
			PromoQuantity: promoQty,
		}

		if baseDays > 0 {
			w.BaselinePrice = basePriceSum / float64(baseDays)
		} else {
			// Heuristic fallback: with every day discounted there is
			// no observed baseline, so the RRP stands in for it.
			w.BaselinePrice = rrp
			w.BaselineIsFallback = true
		}

		// Baseline quantity is extrapolated from the non-discount
		// days' average daily quantity. A zero or unobservable
		// baseline leaves uplift undefined, never infinite.
		if baseDays > 0 && baseQty > 0 {
			baselineQty := float64(baseQty) / float64(baseDays) * float64(promoDays)
			uplift := (float64(promoQty) - baselineQty) / baselineQty * 100
			w.UpliftPct = &uplift
		}

		w.DiscountDepthPct = (rrp - w.PromoPrice) / rrp * 100

		windows = append(windows, w)
	}

	return windows
}

// applyCoverage sets coverage_pct per window: stores with a window
// for the SKU/week over stores carrying the SKU that week.
func (d *Detector) applyCoverage(windows []contracts.PromoWindow, carrying map[skuWeekKey]map[string]struct{}) {
	promoStores := make(map[skuWeekKey]int)
	for i := range windows {
		sk := skuWeekKey{sku: windows[i].SKUID, year: windows[i].ISOYear, week: windows[i].ISOWeek}
		promoStores[sk]++
	}

	for i := range windows {
		w := &windows[i]
		sk := skuWeekKey{sku: w.SKUID, year: w.ISOYear, week: w.ISOWeek}
		total := len(carrying[sk])
		if total == 0 {
			continue
		}
		w.CoveragePct = float64(promoStores[sk]) / float64(total) * 100
	}
}

// Summarize aggregates windows into the promo report. The supplier
// filter is a case-insensitive substring match applied after
// detection; detection itself always runs over the full dataset so
// coverage denominators stay correct.
func (d *Detector) Summarize(records []contracts.TransactionRecord, flags []contracts.QualityFlags, windows []contracts.PromoWindow, supplierFilter string) contracts.PromoSummary {
	summary := contracts.PromoSummary{Supplier: supplierFilter}

	analyzed := make(map[string]struct{})
	for i := range records {
		if !eligible(&records[i], flags[i]) {
			continue
		}
		if !matchSupplier(records[i].Supplier, supplierFilter) {
			continue
		}
		analyzed[records[i].SKUID] = struct{}{}
	}

	var filtered []contracts.PromoWindow
	for _, w := range windows {
		if matchSupplier(w.Supplier, supplierFilter) {
			filtered = append(filtered, w)
		}
	}

	summary.Windows = filtered
	summary.TopSKUs = d.rankSKUs(filtered)
	summary.TopStores = d.rankStores(filtered)
	summary.KPIs = buildKPIs(analyzed, filtered, summary.TopSKUs)
	summary.Insights = insights(summary.KPIs, summary.TopSKUs)
	return summary
}

func matchSupplier(supplier, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(supplier), strings.ToLower(filter))
}

// rankSKUs aggregates windows per SKU and orders by average uplift
// descending; SKUs without a defined uplift rank last.
func (d *Detector) rankSKUs(windows []contracts.PromoWindow) []contracts.SKUPromoPerformance {
	type skuAgg struct {
		perf      contracts.SKUPromoPerformance
		upliftSum float64
		upliftN   int
		covSum    float64
		depthSum  float64
	}

	bySKU := make(map[string]*skuAgg)
	for _, w := range windows {
		agg, ok := bySKU[w.SKUID]
		if !ok {
			agg = &skuAgg{perf: contracts.SKUPromoPerformance{SKUID: w.SKUID, Supplier: w.Supplier}}
			bySKU[w.SKUID] = agg
		}
		agg.perf.Windows++
		agg.covSum += w.CoveragePct
		agg.depthSum += w.DiscountDepthPct
		if w.UpliftPct != nil {
			agg.upliftSum += *w.UpliftPct
			agg.upliftN++
		}
	}

	perfs := make([]contracts.SKUPromoPerformance, 0, len(bySKU))
	for _, agg := range bySKU {
		p := agg.perf
		n := float64(p.Windows)
		p.AvgCoveragePct = agg.covSum / n
		p.AvgDiscountDepth = agg.depthSum / n
		if agg.upliftN > 0 {
			avg := agg.upliftSum / float64(agg.upliftN)
			p.AvgUpliftPct = &avg
		}
		perfs = append(perfs, p)
	}

	sort.Slice(perfs, func(i, j int) bool {
		ui, uj := perfs[i].AvgUpliftPct, perfs[j].AvgUpliftPct
		switch {
		case ui != nil && uj != nil && *ui != *uj:
			return *ui > *uj
		case ui != nil && uj == nil:
			return true
		case ui == nil && uj != nil:
			return false
		}
		return perfs[i].SKUID < perfs[j].SKUID
	})

	if len(perfs) > d.cfg.TopSKUs {
		perfs = perfs[:d.cfg.TopSKUs]
	}
	return perfs
}

// rankStores aggregates windows per store and orders by promo sales
// descending. Promo sales are estimated from the window's mean promo
// price times its quantity.
func (d *Detector) rankStores(windows []contracts.PromoWindow) []contracts.StorePromoPerformance {
	type storeAgg struct {
		perf     contracts.StorePromoPerformance
		skus     map[string]struct{}
		depthSum float64
	}

	byStore := make(map[string]*storeAgg)
	for _, w := range windows {
		agg, ok := byStore[w.StoreID]
		if !ok {
			agg = &storeAgg{
				perf: contracts.StorePromoPerformance{StoreID: w.StoreID},
				skus: make(map[string]struct{}),
			}
			byStore[w.StoreID] = agg
		}
		agg.perf.Windows++
		agg.perf.PromoQuantity += w.PromoQuantity
		agg.perf.PromoSales += w.PromoPrice * float64(w.PromoQuantity)
		agg.skus[w.SKUID] = struct{}{}
		agg.depthSum += w.DiscountDepthPct
	}

	perfs := make([]contracts.StorePromoPerformance, 0, len(byStore))
	for _, agg := range byStore {
		p := agg.perf
		p.SKUCount = len(agg.skus)
		p.AvgDiscountDepth = agg.depthSum / float64(p.Windows)
		perfs = append(perfs, p)
	}

	sort.Slice(perfs, func(i, j int) bool {
		if perfs[i].PromoSales != perfs[j].PromoSales {
			return perfs[i].PromoSales > perfs[j].PromoSales
		}
		return perfs[i].StoreID < perfs[j].StoreID
	})

	if len(perfs) > d.cfg.TopSKUs {
		perfs = perfs[:d.cfg.TopSKUs]
	}
	return perfs
}

func buildKPIs(analyzed map[string]struct{}, windows []contracts.PromoWindow, ranked []contracts.SKUPromoPerformance) contracts.PromoKPIs {
	kpis := contracts.PromoKPIs{SKUsAnalyzed: len(analyzed)}

	promoSKUs := make(map[string]struct{})
	var depthSum, covSum float64
	var upliftSum float64
	var upliftN int

	for _, w := range windows {
		promoSKUs[w.SKUID] = struct{}{}
		depthSum += w.DiscountDepthPct
		covSum += w.CoveragePct
		if w.UpliftPct != nil && *w.UpliftPct > 0 {
			upliftSum += *w.UpliftPct
			upliftN++
		}
	}

	kpis.SKUsWithPromos = len(promoSKUs)
	if n := len(windows); n > 0 {
		kpis.AvgDiscountDepth = depthSum / float64(n)
		kpis.AvgCoveragePct = covSum / float64(n)
	}
	if upliftN > 0 {
		kpis.AvgUpliftPct = upliftSum / float64(upliftN)
	}
	return kpis
}
