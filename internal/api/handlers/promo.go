package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/dataset"
	"github.com/duckretail/insights/internal/promo"
	"github.com/duckretail/insights/pkg/logger"
	"github.com/duckretail/insights/pkg/redis"
)

// PromoHandler handles promotion API endpoints
type PromoHandler struct {
	store      *dataset.Store
	detector   *promo.Detector
	cache      *redis.Cache
	cacheTTL   time.Duration
	configHash string
	logger     *logger.Logger
}

// NewPromoHandler creates a new promotion handler
func NewPromoHandler(
	store *dataset.Store,
	detector *promo.Detector,
	cache *redis.Cache,
	cacheTTL time.Duration,
	configHash string,
	log *logger.Logger,
) *PromoHandler {
	return &PromoHandler{
		store:      store,
		detector:   detector,
		cache:      cache,
		cacheTTL:   cacheTTL,
		configHash: configHash,
		logger:     log,
	}
}

// GetPromotions returns the promotion summary, optionally filtered by supplier
// GET /api/promotions?supplier=
func (h *PromoHandler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap := h.store.Snapshot()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "Dataset not loaded yet")
		return
	}

	supplier := strings.TrimSpace(r.URL.Query().Get("supplier"))

	cacheKey := redis.PromoSummaryKey(snap.Version(), h.configHash, strings.ToLower(supplier))

	var summary contracts.PromoSummary
	hit, err := h.cache.Get(ctx, cacheKey, &summary)
	if err != nil {
		h.logger.WithError(err).Warn("Promotion summary cache read failed")
	}
	if hit {
		respondJSON(w, http.StatusOK, summary)
		return
	}

	windows := h.detector.Detect(snap.Records, snap.Flags)
	summary = h.detector.Summarize(snap.Records, snap.Flags, windows, supplier)

	if err := h.cache.Set(ctx, cacheKey, summary, h.cacheTTL); err != nil {
		h.logger.WithError(err).Warn("Promotion summary cache write failed")
	}

	respondJSON(w, http.StatusOK, summary)
}
