package handlers

import (
	"net/http"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/dataset"
	"github.com/duckretail/insights/pkg/logger"
)

// DatasetHandler handles dataset-level API endpoints
type DatasetHandler struct {
	store      *dataset.Store
	configHash string
	logger     *logger.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(store *dataset.Store, configHash string, log *logger.Logger) *DatasetHandler {
	return &DatasetHandler{
		store:      store,
		configHash: configHash,
		logger:     log,
	}
}

// DatasetResponse describes the loaded dataset without exposing rows.
type DatasetResponse struct {
	Version    string                    `json:"version"`
	LoadedAt   string                    `json:"loaded_at"`
	ConfigHash string                    `json:"config_hash"`
	Overview   contracts.DatasetOverview `json:"overview"`
	Issues     contracts.IssuesSummary   `json:"issues"`
}

// GetDataset returns the current snapshot's overview and issue summary
// GET /api/dataset
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "Dataset not loaded yet")
		return
	}

	respondJSON(w, http.StatusOK, DatasetResponse{
		Version:    snap.Version(),
		LoadedAt:   snap.LoadedAt.Format("2006-01-02T15:04:05Z07:00"),
		ConfigHash: h.configHash,
		Overview:   snap.Overview,
		Issues:     snap.Issues,
	})
}

// Health returns server health and dataset status
// GET /health
func (h *DatasetHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "ok",
		"service": "insights-api",
		"loaded":  h.store.Loaded(),
	}
	if snap := h.store.Snapshot(); snap != nil {
		resp["records"] = len(snap.Records)
	}
	respondJSON(w, http.StatusOK, resp)
}

// RefreshResponse reports the outcome of a manual refresh.
type RefreshResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Records int    `json:"records"`
}

// Refresh reloads the dataset from the configured source
// POST /api/dataset/refresh
func (h *DatasetHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Refresh(ctx); err != nil {
		h.logger.WithError(err).Error("Failed to refresh dataset")
		respondError(w, http.StatusInternalServerError, "Failed to refresh dataset")
		return
	}

	snap := h.store.Snapshot()
	respondJSON(w, http.StatusOK, RefreshResponse{
		Status:  "success",
		Version: snap.Version(),
		Records: len(snap.Records),
	})
}
