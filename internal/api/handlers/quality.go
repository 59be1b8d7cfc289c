package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/dataset"
	"github.com/duckretail/insights/internal/quality"
	"github.com/duckretail/insights/pkg/logger"
	"github.com/duckretail/insights/pkg/redis"
)

// QualityHandler handles data quality API endpoints
type QualityHandler struct {
	store      *dataset.Store
	analyzer   *quality.Analyzer
	cache      *redis.Cache
	cacheTTL   time.Duration
	configHash string
	logger     *logger.Logger
}

// NewQualityHandler creates a new quality handler
func NewQualityHandler(
	store *dataset.Store,
	analyzer *quality.Analyzer,
	cache *redis.Cache,
	cacheTTL time.Duration,
	configHash string,
	log *logger.Logger,
) *QualityHandler {
	return &QualityHandler{
		store:      store,
		analyzer:   analyzer,
		cache:      cache,
		cacheTTL:   cacheTTL,
		configHash: configHash,
		logger:     log,
	}
}

// GetQuality returns the data quality report
// GET /api/quality?category=&min_score=
func (h *QualityHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap := h.store.Snapshot()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "Dataset not loaded yet")
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category != "" && !validCategory(category) {
		respondError(w, http.StatusBadRequest, "Invalid category (valid: Excellent, Good, Fair, Poor)")
		return
	}

	minScoreRaw := strings.TrimSpace(r.URL.Query().Get("min_score"))
	minScore := 0.0
	if minScoreRaw != "" {
		var err error
		minScore, err = strconv.ParseFloat(minScoreRaw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid min_score (expected a number)")
			return
		}
	}

	cacheKey := redis.QualityReportKey(snap.Version(), h.configHash, category, minScoreRaw)

	var report contracts.QualityReport
	hit, err := h.cache.Get(ctx, cacheKey, &report)
	if err != nil {
		h.logger.WithError(err).Warn("Quality report cache read failed")
	}
	if hit {
		respondJSON(w, http.StatusOK, report)
		return
	}

	report = contracts.QualityReport{
		Overview:       snap.Overview,
		Issues:         snap.Issues,
		StoreScores:    filterScores(h.analyzer.StoreHealth(snap.Records, snap.Flags), category, minScoreRaw, minScore),
		SupplierScores: filterScores(h.analyzer.SupplierHealth(snap.Records, snap.Flags), category, minScoreRaw, minScore),
	}

	if err := h.cache.Set(ctx, cacheKey, report, h.cacheTTL); err != nil {
		h.logger.WithError(err).Warn("Quality report cache write failed")
	}

	respondJSON(w, http.StatusOK, report)
}

func validCategory(category string) bool {
	switch category {
	case contracts.CategoryExcellent, contracts.CategoryGood, contracts.CategoryFair, contracts.CategoryPoor:
		return true
	}
	return false
}

func filterScores(scores []contracts.HealthScore, category, minScoreRaw string, minScore float64) []contracts.HealthScore {
	if category == "" && minScoreRaw == "" {
		return scores
	}

	filtered := make([]contracts.HealthScore, 0, len(scores))
	for _, score := range scores {
		if category != "" && score.Category != category {
			continue
		}
		if minScoreRaw != "" && score.Score < minScore {
			continue
		}
		filtered = append(filtered, score)
	}
	return filtered
}
