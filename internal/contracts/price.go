package contracts

// Price positioning bands relative to the market average.
const (
	PositioningPremium    = "Premium"
	PositioningNearMarket = "Near Market"
	PositioningDiscount   = "Discount"
)

// PriceIndexEntry compares one of the target supplier's SKUs against
// its competitive peer set within the same store, sub-department and
// section. SKUs with an empty peer set are excluded entirely.
type PriceIndexEntry struct {
	StoreID            string  `json:"store_id"`
	SKUID              string  `json:"sku_id"`
	SubDepartment      string  `json:"sub_department"`
	Section            string  `json:"section"`
	UnitPrice          float64 `json:"unit_price"`
	MarketAvgUnitPrice float64 `json:"market_avg_unit_price"`
	PeerCount          int     `json:"peer_count"`
	PriceIndex         float64 `json:"price_index"`
	Positioning        string  `json:"positioning"`
	Quantity           int64   `json:"quantity"`
}

// CategoryIndex aggregates store-level indices per category. Both the
// unweighted mean and the quantity-weighted mean are reported so the
// consumer can choose the methodology.
type CategoryIndex struct {
	SubDepartment      string  `json:"sub_department"`
	Section            string  `json:"section"`
	Entries            int     `json:"entries"`
	PriceIndex         float64 `json:"price_index"`
	PriceIndexWeighted float64 `json:"price_index_weighted"`
	Quantity           int64   `json:"quantity"`
}

// PriceIndexReport is the response of the price-index endpoint.
type PriceIndexReport struct {
	Supplier           string            `json:"supplier"`
	OverallIndex       float64           `json:"overall_index"`
	OverallPositioning string            `json:"overall_positioning"`
	PositioningCounts  map[string]int    `json:"positioning_distribution"`
	Entries            []PriceIndexEntry `json:"index_entries,omitempty"`
	Categories         []CategoryIndex   `json:"category_breakdown"`
	Insights           []string          `json:"insights,omitempty"`
}
