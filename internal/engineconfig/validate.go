package engineconfig

import "fmt"

// ValidationError marks a config constraint violation. Loading an
// invalid config aborts startup.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	// === Quality ===
	q := cfg.Quality
	if q.ExtremePriceHighMult <= 1 {
		return ValidationError{"quality.extreme_price_high_mult", "must be > 1"}
	}
	if q.ExtremePriceLowMult <= 0 || q.ExtremePriceLowMult >= 1 {
		return ValidationError{"quality.extreme_price_low_mult", "must be in (0, 1)"}
	}
	if q.Weights.Missing < 0 || q.Weights.Outlier < 0 || q.Weights.Duplicate < 0 {
		return ValidationError{"quality.weights", "must be >= 0"}
	}
	if q.Weights.Sum() != 100 {
		return ValidationError{"quality.weights", fmt.Sprintf("must sum to 100, got %.2f", q.Weights.Sum())}
	}

	c := q.Categories
	if !(c.Excellent > c.Good && c.Good > c.Fair) {
		return ValidationError{"quality.categories", "must satisfy excellent > good > fair"}
	}
	if c.Excellent > 100 || c.Fair < 0 {
		return ValidationError{"quality.categories", "bounds must be within [0, 100]"}
	}

	// === Promotions ===
	p := cfg.Promotions
	if p.DiscountThreshold <= 0 || p.DiscountThreshold >= 1 {
		return ValidationError{"promotions.discount_threshold", "must be in (0, 1)"}
	}
	if p.MinDiscountDays < 1 {
		return ValidationError{"promotions.min_discount_days", "must be >= 1"}
	}
	if p.TopSKUs < 1 {
		return ValidationError{"promotions.top_skus", "must be >= 1"}
	}

	// === Pricing ===
	pr := cfg.Pricing
	if pr.DiscountMax <= 0 {
		return ValidationError{"pricing.discount_max", "must be > 0"}
	}
	if pr.PremiumMin <= pr.DiscountMax {
		return ValidationError{"pricing.premium_min", "must be > discount_max"}
	}
	if pr.MinPeers < 1 {
		return ValidationError{"pricing.min_peers", "must be >= 1"}
	}

	return nil
}
