package contracts

// PromoWindow is one detected promotion for a (store, sku, ISO week)
// group. A window exists only when the detection predicate holds;
// groups below the discount-day threshold produce no window at all.
type PromoWindow struct {
	StoreID            string   `json:"store_id"`
	SKUID              string   `json:"sku_id"`
	Supplier           string   `json:"supplier,omitempty"`
	ISOYear            int      `json:"iso_year"`
	ISOWeek            int      `json:"iso_week"`
	PromoDays          int      `json:"promo_days"`
	BaselinePrice      float64  `json:"baseline_price"`
	BaselineIsFallback bool     `json:"baseline_is_fallback"`
	PromoPrice         float64  `json:"promo_price"`
	PromoQuantity      int64    `json:"promo_quantity"`
	UpliftPct          *float64 `json:"uplift_pct,omitempty"` // nil = undefined
	CoveragePct        float64  `json:"coverage_pct"`
	DiscountDepthPct   float64  `json:"discount_depth_pct"`
}

// PromoKPIs summarizes promotion performance across SKUs.
type PromoKPIs struct {
	SKUsAnalyzed     int     `json:"skus_analyzed"`
	SKUsWithPromos   int     `json:"skus_with_promos"`
	AvgUpliftPct     float64 `json:"avg_uplift_pct"`
	AvgCoveragePct   float64 `json:"avg_coverage_pct"`
	AvgDiscountDepth float64 `json:"avg_discount_depth_pct"`
}

// SKUPromoPerformance aggregates windows per SKU for ranking.
type SKUPromoPerformance struct {
	SKUID            string   `json:"sku_id"`
	Supplier         string   `json:"supplier,omitempty"`
	Windows          int      `json:"windows"`
	AvgUpliftPct     *float64 `json:"avg_uplift_pct,omitempty"`
	AvgCoveragePct   float64  `json:"avg_coverage_pct"`
	AvgDiscountDepth float64  `json:"avg_discount_depth_pct"`
}

// StorePromoPerformance aggregates windows per store: how much promo
// volume a store moved and across how many SKUs.
type StorePromoPerformance struct {
	StoreID          string  `json:"store_id"`
	Windows          int     `json:"windows"`
	PromoQuantity    int64   `json:"promo_quantity"`
	PromoSales       float64 `json:"promo_sales"`
	SKUCount         int     `json:"sku_count"`
	AvgDiscountDepth float64 `json:"avg_discount_depth_pct"`
}

// PromoSummary is the response of the promotions endpoint.
type PromoSummary struct {
	Supplier  string                  `json:"supplier,omitempty"`
	KPIs      PromoKPIs               `json:"kpis"`
	TopSKUs   []SKUPromoPerformance   `json:"top_skus"`
	TopStores []StorePromoPerformance `json:"top_promo_stores"`
	Windows   []PromoWindow           `json:"promo_windows"`
	Insights  []string                `json:"insights,omitempty"`
}
