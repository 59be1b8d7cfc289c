package contracts

// QualityFlags holds the per-record defect flags computed by the
// normalizer. Flags are set once and never mutated.
type QualityFlags struct {
	MissingSupplier         bool `json:"missing_supplier"`
	MissingRRP              bool `json:"missing_rrp"`
	Duplicate               bool `json:"duplicate"`
	NegativeQuantityOrSales bool `json:"negative_quantity_or_sales"`
	ExtremePrice            bool `json:"extreme_price"`
}

// Clean reports whether no defect flag is set.
func (f QualityFlags) Clean() bool {
	return !f.MissingSupplier && !f.MissingRRP && !f.Duplicate &&
		!f.NegativeQuantityOrSales && !f.ExtremePrice
}

// Health categories, thresholds inclusive on the lower bound.
const (
	CategoryExcellent = "Excellent"
	CategoryGood      = "Good"
	CategoryFair      = "Fair"
	CategoryPoor      = "Poor"
)

// HealthScore is the aggregated data-quality score for one store or
// supplier. Score is always within [0, 100].
type HealthScore struct {
	EntityID      string  `json:"entity_id"`
	Records       int     `json:"records"`
	MissingRate   float64 `json:"missing_rate"`
	OutlierRate   float64 `json:"outlier_rate"`
	DuplicateRate float64 `json:"duplicate_rate"`
	Score         float64 `json:"score"`
	Category      string  `json:"category"`
}

// IssuesSummary aggregates flag totals over the whole dataset.
type IssuesSummary struct {
	MissingSupplier int      `json:"missing_supplier"`
	MissingRRP      int      `json:"missing_rrp"`
	Duplicates      int      `json:"duplicates"`
	NegativeValues  int      `json:"negative_values"`
	ExtremePrices   int      `json:"extreme_prices"`
	KeyIssues       []string `json:"key_issues"`
}

// QualityReport is the response of the quality endpoint.
type QualityReport struct {
	Overview       DatasetOverview `json:"overview"`
	Issues         IssuesSummary   `json:"issues"`
	StoreScores    []HealthScore   `json:"store_scores"`
	SupplierScores []HealthScore   `json:"supplier_scores"`
}
