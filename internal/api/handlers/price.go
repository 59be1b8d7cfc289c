package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/dataset"
	"github.com/duckretail/insights/internal/priceindex"
	"github.com/duckretail/insights/pkg/logger"
	"github.com/duckretail/insights/pkg/redis"
)

// PriceHandler handles price index API endpoints
type PriceHandler struct {
	store           *dataset.Store
	engine          *priceindex.Engine
	cache           *redis.Cache
	cacheTTL        time.Duration
	configHash      string
	defaultSupplier string
	logger          *logger.Logger
}

// NewPriceHandler creates a new price index handler
func NewPriceHandler(
	store *dataset.Store,
	engine *priceindex.Engine,
	cache *redis.Cache,
	cacheTTL time.Duration,
	configHash string,
	defaultSupplier string,
	log *logger.Logger,
) *PriceHandler {
	return &PriceHandler{
		store:           store,
		engine:          engine,
		cache:           cache,
		cacheTTL:        cacheTTL,
		configHash:      configHash,
		defaultSupplier: defaultSupplier,
		logger:          log,
	}
}

// GetPriceIndex returns the competitive price index report
// GET /api/price-index?supplier=&view=
func (h *PriceHandler) GetPriceIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap := h.store.Snapshot()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "Dataset not loaded yet")
		return
	}

	supplier := strings.TrimSpace(r.URL.Query().Get("supplier"))
	if supplier == "" {
		supplier = h.defaultSupplier
	}
	if supplier == "" {
		respondError(w, http.StatusBadRequest, "Missing supplier (no default configured)")
		return
	}

	view := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("view")))
	if view == "" {
		view = "summary"
	}
	if view != "summary" && view != "detailed" {
		respondError(w, http.StatusBadRequest, "Invalid view (valid: summary, detailed)")
		return
	}

	cacheKey := redis.PriceIndexKey(snap.Version(), h.configHash, strings.ToLower(supplier), view)

	var report contracts.PriceIndexReport
	hit, err := h.cache.Get(ctx, cacheKey, &report)
	if err != nil {
		h.logger.WithError(err).Warn("Price index cache read failed")
	}
	if hit {
		respondJSON(w, http.StatusOK, report)
		return
	}

	entries := h.engine.Compute(snap.Records, snap.Flags, supplier)
	report = h.engine.Report(entries, supplier, view == "detailed")

	if err := h.cache.Set(ctx, cacheKey, report, h.cacheTTL); err != nil {
		h.logger.WithError(err).Warn("Price index cache write failed")
	}

	respondJSON(w, http.StatusOK, report)
}
