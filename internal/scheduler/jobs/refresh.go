package jobs

import (
	"context"
	"fmt"

	"github.com/duckretail/insights/internal/dataset"
	"github.com/duckretail/insights/pkg/logger"
)

// DatasetRefresh reloads the dataset snapshot on a schedule. Reports
// computed after the swap see the new snapshot; cached reports for the
// old one age out by key version.
type DatasetRefresh struct {
	store    *dataset.Store
	schedule string
	logger   *logger.Logger
}

// NewDatasetRefresh creates the refresh job.
func NewDatasetRefresh(store *dataset.Store, schedule string, log *logger.Logger) *DatasetRefresh {
	return &DatasetRefresh{
		store:    store,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *DatasetRefresh) Name() string {
	return "dataset_refresh"
}

// Schedule returns the cron schedule expression
func (j *DatasetRefresh) Schedule() string {
	return j.schedule
}

// Run reloads the dataset from the configured source.
func (j *DatasetRefresh) Run(ctx context.Context) error {
	if err := j.store.Refresh(ctx); err != nil {
		return fmt.Errorf("dataset refresh: %w", err)
	}
	return nil
}
