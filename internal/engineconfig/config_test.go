package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "high mult at 1",
			mutate:  func(c *Config) { c.Quality.ExtremePriceHighMult = 1 },
			wantErr: "quality.extreme_price_high_mult",
		},
		{
			name:    "low mult at 1",
			mutate:  func(c *Config) { c.Quality.ExtremePriceLowMult = 1 },
			wantErr: "quality.extreme_price_low_mult",
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.Quality.Weights.Missing = -1 },
			wantErr: "quality.weights",
		},
		{
			name:    "weights not summing to 100",
			mutate:  func(c *Config) { c.Quality.Weights.Missing = 50 },
			wantErr: "quality.weights",
		},
		{
			name: "category bounds out of order",
			mutate: func(c *Config) {
				c.Quality.Categories.Good = 95
			},
			wantErr: "quality.categories",
		},
		{
			name:    "discount threshold at 0",
			mutate:  func(c *Config) { c.Promotions.DiscountThreshold = 0 },
			wantErr: "promotions.discount_threshold",
		},
		{
			name:    "discount threshold at 1",
			mutate:  func(c *Config) { c.Promotions.DiscountThreshold = 1 },
			wantErr: "promotions.discount_threshold",
		},
		{
			name:    "min discount days zero",
			mutate:  func(c *Config) { c.Promotions.MinDiscountDays = 0 },
			wantErr: "promotions.min_discount_days",
		},
		{
			name:    "top skus zero",
			mutate:  func(c *Config) { c.Promotions.TopSKUs = 0 },
			wantErr: "promotions.top_skus",
		},
		{
			name:    "premium below discount band",
			mutate:  func(c *Config) { c.Pricing.PremiumMin = 80 },
			wantErr: "pricing.premium_min",
		},
		{
			name:    "min peers zero",
			mutate:  func(c *Config) { c.Pricing.MinPeers = 0 },
			wantErr: "pricing.min_peers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	yaml := `
quality:
  extreme_price_high_mult: 8.0
  extreme_price_low_mult: 0.05
  weights:
    missing: 40
    outlier: 40
    duplicate: 20
  categories:
    excellent: 95
    good: 80
    fair: 65
promotions:
  discount_threshold: 0.15
  min_discount_days: 3
  top_skus: 5
pricing:
  premium_min: 115
  discount_max: 85
  min_peers: 2
`
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8.0, cfg.Quality.ExtremePriceHighMult)
	assert.Equal(t, 0.15, cfg.Promotions.DiscountThreshold)
	assert.Equal(t, 3, cfg.Promotions.MinDiscountDays)
	assert.Equal(t, 2, cfg.Pricing.MinPeers)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	yaml := `
quality:
  extreme_price_high_mult: 8.0
  typo_field: true
`
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "unknown YAML fields must be rejected")
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	yaml := `
quality:
  extreme_price_high_mult: 0.5
  extreme_price_low_mult: 0.01
  weights:
    missing: 30
    outlier: 40
    duplicate: 30
  categories:
    excellent: 90
    good: 75
    fair: 60
promotions:
  discount_threshold: 0.10
  min_discount_days: 2
  top_skus: 10
pricing:
  premium_min: 110
  discount_max: 90
  min_peers: 1
`
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extreme_price_high_mult")
}

func TestHash(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)

	h2, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "hash must be deterministic")

	changed := Default()
	changed.Promotions.DiscountThreshold = 0.2
	h3, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3, "different thresholds must hash differently")

	assert.Len(t, h1, 64)
}
