package engineconfig

// Config holds every analyzer threshold and weight. All values have
// working defaults; a YAML file overrides them wholesale.
type Config struct {
	Quality    Quality    `yaml:"quality" json:"quality"`
	Promotions Promotions `yaml:"promotions" json:"promotions"`
	Pricing    Pricing    `yaml:"pricing" json:"pricing"`
}

// Quality configures defect detection and health scoring.
type Quality struct {
	ExtremePriceHighMult float64        `yaml:"extreme_price_high_mult" json:"extreme_price_high_mult"` // unit price > mult * RRP
	ExtremePriceLowMult  float64        `yaml:"extreme_price_low_mult" json:"extreme_price_low_mult"`   // unit price < mult * RRP
	Weights              ScoreWeights   `yaml:"weights" json:"weights"`
	Categories           CategoryBounds `yaml:"categories" json:"categories"`
}

// ScoreWeights are the health score penalty weights, in points.
type ScoreWeights struct {
	Missing   float64 `yaml:"missing" json:"missing"`
	Outlier   float64 `yaml:"outlier" json:"outlier"`
	Duplicate float64 `yaml:"duplicate" json:"duplicate"`
}

// Sum returns the total penalty weight.
func (w ScoreWeights) Sum() float64 {
	return w.Missing + w.Outlier + w.Duplicate
}

// CategoryBounds are inclusive lower bounds per health category.
type CategoryBounds struct {
	Excellent float64 `yaml:"excellent" json:"excellent"`
	Good      float64 `yaml:"good" json:"good"`
	Fair      float64 `yaml:"fair" json:"fair"`
}

// Promotions configures the detection predicate.
type Promotions struct {
	// DiscountThreshold is the minimum fractional discount from RRP
	// for a day to count as a discount day (0.10 = 10%).
	DiscountThreshold float64 `yaml:"discount_threshold" json:"discount_threshold"`
	// MinDiscountDays is the minimum discount days within an ISO week
	// for the group to classify as on promotion.
	MinDiscountDays int `yaml:"min_discount_days" json:"min_discount_days"`
	// TopSKUs is the size of the top-performer list in summaries.
	TopSKUs int `yaml:"top_skus" json:"top_skus"`
}

// Pricing configures index computation and positioning bands.
type Pricing struct {
	PremiumMin  float64 `yaml:"premium_min" json:"premium_min"`   // index >= -> Premium
	DiscountMax float64 `yaml:"discount_max" json:"discount_max"` // index <  -> Discount
	MinPeers    int     `yaml:"min_peers" json:"min_peers"`
}

// Default returns the configuration used when no YAML file is given.
func Default() *Config {
	return &Config{
		Quality: Quality{
			ExtremePriceHighMult: 10.0,
			ExtremePriceLowMult:  0.01,
			Weights: ScoreWeights{
				Missing:   30,
				Outlier:   40,
				Duplicate: 30,
			},
			Categories: CategoryBounds{
				Excellent: 90,
				Good:      75,
				Fair:      60,
			},
		},
		Promotions: Promotions{
			DiscountThreshold: 0.10,
			MinDiscountDays:   2,
			TopSKUs:           10,
		},
		Pricing: Pricing{
			PremiumMin:  110,
			DiscountMax: 90,
			MinPeers:    1,
		},
	}
}
