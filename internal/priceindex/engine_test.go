package priceindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/engineconfig"
)

const target = "BIDCO AFRICA LIMITED"

func rec(store, sku, supplier, subdept, section string, qty int64, sales float64) contracts.TransactionRecord {
	return contracts.TransactionRecord{
		StoreID:       store,
		SKUID:         sku,
		Supplier:      supplier,
		SubDepartment: subdept,
		Section:       section,
		Date:          time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
		Quantity:      qty,
		SalesValue:    sales,
	}
}

func cleanFlags(n int) []contracts.QualityFlags {
	return make([]contracts.QualityFlags, n)
}

func TestEngine_Compute_Basic(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	// Target at unit 120, one peer at unit 100, same cell.
	records := []contracts.TransactionRecord{
		rec("S1", "SKU1", target, "Cooking Oil", "Edible Oils", 10, 1200),
		rec("S1", "SKU2", "PEER LTD", "Cooking Oil", "Edible Oils", 10, 1000),
	}

	entries := e.Compute(records, cleanFlags(len(records)), target)
	require.Len(t, entries, 1)

	en := entries[0]
	assert.Equal(t, "SKU1", en.SKUID)
	assert.InDelta(t, 120.0, en.UnitPrice, 1e-9)
	assert.InDelta(t, 100.0, en.MarketAvgUnitPrice, 1e-9)
	assert.Equal(t, 1, en.PeerCount)
	assert.InDelta(t, 120.0, en.PriceIndex, 1e-9)
	assert.Equal(t, contracts.PositioningPremium, en.Positioning)
}

func TestEngine_Compute_NoPeersNoEntry(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	// The target's own second SKU is not a peer; with no other
	// supplier in the cell there is no market to index against.
	records := []contracts.TransactionRecord{
		rec("S1", "SKU1", target, "Cooking Oil", "Edible Oils", 10, 1200),
		rec("S1", "SKU2", target, "Cooking Oil", "Edible Oils", 10, 1000),
	}

	entries := e.Compute(records, cleanFlags(len(records)), target)
	assert.Empty(t, entries)
}

func TestEngine_Compute_PeersScopedToCell(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	// A peer in a different section must not join the denominator.
	records := []contracts.TransactionRecord{
		rec("S1", "SKU1", target, "Cooking Oil", "Edible Oils", 10, 1200),
		rec("S1", "SKU2", "PEER LTD", "Cooking Oil", "Margarine", 10, 100),
		rec("S1", "SKU3", "PEER LTD", "Cooking Oil", "Edible Oils", 10, 1000),
	}

	entries := e.Compute(records, cleanFlags(len(records)), target)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].PeerCount)
	assert.InDelta(t, 100.0, entries[0].MarketAvgUnitPrice, 1e-9)
}

func TestEngine_Compute_ScaleInvariance(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	base := []contracts.TransactionRecord{
		rec("S1", "SKU1", target, "Cooking Oil", "Edible Oils", 10, 1150),
		rec("S1", "SKU2", "PEER A", "Cooking Oil", "Edible Oils", 10, 1000),
		rec("S1", "SKU3", "PEER B", "Cooking Oil", "Edible Oils", 10, 1100),
	}

	scaled := make([]contracts.TransactionRecord, len(base))
	copy(scaled, base)
	for i := range scaled {
		scaled[i].SalesValue *= 1000 // currency rescale
	}

	baseEntries := e.Compute(base, cleanFlags(len(base)), target)
	scaledEntries := e.Compute(scaled, cleanFlags(len(scaled)), target)

	require.Len(t, baseEntries, 1)
	require.Len(t, scaledEntries, 1)
	assert.InDelta(t, baseEntries[0].PriceIndex, scaledEntries[0].PriceIndex, 1e-9)
}

func TestEngine_Positioning_Bounds(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	tests := []struct {
		index    float64
		expected string
	}{
		{110.0, contracts.PositioningPremium},
		{109.999, contracts.PositioningNearMarket},
		{100.0, contracts.PositioningNearMarket},
		{90.0, contracts.PositioningNearMarket},
		{89.999, contracts.PositioningDiscount},
		{150.0, contracts.PositioningPremium},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, e.positioning(tt.index), "index %.3f", tt.index)
	}
}

func TestEngine_Compute_ExcludesFlaggedRecords(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	records := []contracts.TransactionRecord{
		rec("S1", "SKU1", target, "Cooking Oil", "Edible Oils", 10, 1200),
		rec("S1", "SKU1", target, "Cooking Oil", "Edible Oils", -5, 300), // negative
		rec("S1", "SKU2", "PEER LTD", "Cooking Oil", "Edible Oils", 10, 1000),
	}
	flags := cleanFlags(len(records))
	flags[1].NegativeQuantityOrSales = true

	entries := e.Compute(records, flags, target)
	require.Len(t, entries, 1)
	assert.InDelta(t, 120.0, entries[0].UnitPrice, 1e-9, "flagged row must not pull the mean")
}

func TestEngine_Report(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	entries := []contracts.PriceIndexEntry{
		{SKUID: "SKU1", SubDepartment: "Cooking Oil", Section: "Edible Oils", PriceIndex: 120, Positioning: contracts.PositioningPremium, Quantity: 10},
		{SKUID: "SKU2", SubDepartment: "Cooking Oil", Section: "Edible Oils", PriceIndex: 80, Positioning: contracts.PositioningDiscount, Quantity: 30},
	}

	report := e.Report(entries, target, false)

	assert.Equal(t, target, report.Supplier)
	assert.Equal(t, 1, report.PositioningCounts[contracts.PositioningPremium])
	assert.Equal(t, 1, report.PositioningCounts[contracts.PositioningDiscount])

	// Quantity-weighted: (120*10 + 80*30) / 40 = 90.
	assert.InDelta(t, 90.0, report.OverallIndex, 1e-9)
	assert.Equal(t, contracts.PositioningNearMarket, report.OverallPositioning)

	require.Len(t, report.Categories, 1)
	cat := report.Categories[0]
	assert.Equal(t, 2, cat.Entries)
	assert.InDelta(t, 100.0, cat.PriceIndex, 1e-9, "unweighted mean of 120 and 80")
	assert.InDelta(t, 90.0, cat.PriceIndexWeighted, 1e-9)

	assert.Empty(t, report.Entries, "summary view omits entries")

	detailed := e.Report(entries, target, true)
	assert.Len(t, detailed.Entries, 2)
}

func TestEngine_Report_Empty(t *testing.T) {
	e := New(engineconfig.Default().Pricing, nil)

	report := e.Report(nil, target, true)
	assert.Zero(t, report.OverallIndex)
	assert.Empty(t, report.Categories)
	assert.Empty(t, report.Entries)
}
