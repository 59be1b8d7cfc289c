package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/dataset"
	"github.com/duckretail/insights/internal/engineconfig"
	"github.com/duckretail/insights/internal/normalize"
	"github.com/duckretail/insights/internal/priceindex"
	"github.com/duckretail/insights/internal/promo"
	"github.com/duckretail/insights/internal/quality"
	"github.com/duckretail/insights/pkg/config"
	"github.com/duckretail/insights/pkg/logger"
	"github.com/duckretail/insights/pkg/redis"
)

type fixedLoader struct {
	records []contracts.TransactionRecord
}

func (l *fixedLoader) Load(ctx context.Context) ([]contracts.TransactionRecord, error) {
	return l.records, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

// noopCache returns a cache over a disabled Redis client; every read
// is a miss and every write a no-op.
func noopCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

func testStore(t *testing.T, records []contracts.TransactionRecord) *dataset.Store {
	t.Helper()
	store := dataset.NewStore(&fixedLoader{records: records}, normalize.New(engineconfig.Default().Quality), testLogger())
	require.NoError(t, store.Refresh(context.Background()))
	return store
}

func testRecords() []contracts.TransactionRecord {
	rrp := 100.0
	day := func(d int) time.Time { return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC) }
	return []contracts.TransactionRecord{
		{StoreID: "S1", SKUID: "SKU1", Supplier: "BIDCO AFRICA LIMITED", SubDepartment: "Cooking Oil", Section: "Edible Oils", Date: day(22), Quantity: 10, SalesValue: 900, ReferencePrice: &rrp},
		{StoreID: "S1", SKUID: "SKU1", Supplier: "BIDCO AFRICA LIMITED", SubDepartment: "Cooking Oil", Section: "Edible Oils", Date: day(23), Quantity: 12, SalesValue: 1080, ReferencePrice: &rrp},
		{StoreID: "S1", SKUID: "SKU2", Supplier: "PEER LTD", SubDepartment: "Cooking Oil", Section: "Edible Oils", Date: day(22), Quantity: 10, SalesValue: 1000, ReferencePrice: &rrp},
		{StoreID: "S2", SKUID: "SKU3", Date: day(22), Quantity: 5, SalesValue: 450},
	}
}

func TestQualityHandler_GetQuality(t *testing.T) {
	cfg := engineconfig.Default()
	h := NewQualityHandler(
		testStore(t, testRecords()),
		quality.New(cfg.Quality, testLogger()),
		noopCache(t),
		time.Minute,
		"testhash",
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/quality", nil)
	rr := httptest.NewRecorder()
	h.GetQuality(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var report contracts.QualityReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 4, report.Overview.TotalRecords)
	assert.Len(t, report.StoreScores, 2)
	assert.Len(t, report.SupplierScores, 2, "missing-supplier records form no group")
}

func TestQualityHandler_GetQuality_Filters(t *testing.T) {
	cfg := engineconfig.Default()
	h := NewQualityHandler(
		testStore(t, testRecords()),
		quality.New(cfg.Quality, testLogger()),
		noopCache(t),
		time.Minute,
		"testhash",
		testLogger(),
	)

	// min_score=99 keeps only the defect-free store.
	req := httptest.NewRequest(http.MethodGet, "/api/quality?min_score=99", nil)
	rr := httptest.NewRecorder()
	h.GetQuality(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var report contracts.QualityReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Len(t, report.StoreScores, 1)
	assert.Equal(t, "S1", report.StoreScores[0].EntityID)

	// Invalid category is a client error.
	req = httptest.NewRequest(http.MethodGet, "/api/quality?category=Stellar", nil)
	rr = httptest.NewRecorder()
	h.GetQuality(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Invalid min_score is a client error.
	req = httptest.NewRequest(http.MethodGet, "/api/quality?min_score=abc", nil)
	rr = httptest.NewRecorder()
	h.GetQuality(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQualityHandler_GetQuality_NotLoaded(t *testing.T) {
	store := dataset.NewStore(&fixedLoader{}, normalize.New(engineconfig.Default().Quality), testLogger())

	h := NewQualityHandler(store, quality.New(engineconfig.Default().Quality, testLogger()), noopCache(t), time.Minute, "testhash", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/quality", nil)
	rr := httptest.NewRecorder()
	h.GetQuality(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestPromoHandler_GetPromotions(t *testing.T) {
	cfg := engineconfig.Default()
	h := NewPromoHandler(
		testStore(t, testRecords()),
		promo.New(cfg.Promotions, testLogger()),
		noopCache(t),
		time.Minute,
		"testhash",
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/promotions?supplier=bidco", nil)
	rr := httptest.NewRecorder()
	h.GetPromotions(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var summary contracts.PromoSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	require.Len(t, summary.Windows, 1, "SKU1 runs two discount days in one week")
	assert.Equal(t, "SKU1", summary.Windows[0].SKUID)
}

func TestPriceHandler_GetPriceIndex(t *testing.T) {
	cfg := engineconfig.Default()
	h := NewPriceHandler(
		testStore(t, testRecords()),
		priceindex.New(cfg.Pricing, testLogger()),
		noopCache(t),
		time.Minute,
		"testhash",
		"BIDCO AFRICA LIMITED",
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/price-index", nil)
	rr := httptest.NewRecorder()
	h.GetPriceIndex(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var report contracts.PriceIndexReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, "BIDCO AFRICA LIMITED", report.Supplier)
	assert.Empty(t, report.Entries, "summary view omits entries")

	// Detailed view includes per-SKU entries.
	req = httptest.NewRequest(http.MethodGet, "/api/price-index?view=detailed", nil)
	rr = httptest.NewRecorder()
	h.GetPriceIndex(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Entries)

	// Invalid view is a client error.
	req = httptest.NewRequest(http.MethodGet, "/api/price-index?view=everything", nil)
	rr = httptest.NewRecorder()
	h.GetPriceIndex(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDatasetHandler(t *testing.T) {
	h := NewDatasetHandler(testStore(t, testRecords()), "testhash", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dataset", nil)
	rr := httptest.NewRecorder()
	h.GetDataset(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp DatasetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Overview.TotalRecords)
	assert.NotEmpty(t, resp.Version)

	// Manual refresh produces a new version.
	time.Sleep(time.Millisecond)
	req = httptest.NewRequest(http.MethodPost, "/api/dataset/refresh", nil)
	rr = httptest.NewRecorder()
	h.Refresh(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var refreshed RefreshResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refreshed))
	assert.Equal(t, "success", refreshed.Status)
	assert.NotEqual(t, resp.Version, refreshed.Version)
}

func TestDatasetHandler_Health(t *testing.T) {
	h := NewDatasetHandler(testStore(t, testRecords()), "testhash", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, true, resp["loaded"])
	assert.Equal(t, float64(4), resp["records"])
}
