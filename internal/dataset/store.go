package dataset

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/normalize"
	"github.com/duckretail/insights/pkg/logger"
)

// Loader produces the raw record slice from the configured source.
// Structural errors (missing columns, unparsable values) are fatal
// and must surface before any analysis runs.
type Loader interface {
	Load(ctx context.Context) ([]contracts.TransactionRecord, error)
}

// Snapshot is one immutable, fully normalized view of the dataset.
// Records and flags are never mutated after construction; concurrent
// readers need no locking.
type Snapshot struct {
	Records  []contracts.TransactionRecord
	Flags    []contracts.QualityFlags
	Overview contracts.DatasetOverview
	Issues   contracts.IssuesSummary
	LoadedAt time.Time
}

// Version identifies the snapshot for cache keying.
func (s *Snapshot) Version() string {
	return strconv.FormatInt(s.LoadedAt.UnixNano(), 10)
}

// Store holds the current snapshot behind an atomic pointer. Refresh
// builds a complete new snapshot and swaps it in; in-flight requests
// keep reading the one they started with.
type Store struct {
	loader     Loader
	normalizer *normalize.Normalizer
	logger     *logger.Logger
	current    atomic.Pointer[Snapshot]
}

// NewStore creates a Store. Call Refresh once before serving.
func NewStore(loader Loader, normalizer *normalize.Normalizer, log *logger.Logger) *Store {
	return &Store{
		loader:     loader,
		normalizer: normalizer,
		logger:     log,
	}
}

// Refresh loads the source, normalizes it, and swaps the snapshot.
func (s *Store) Refresh(ctx context.Context) error {
	start := time.Now()

	records, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	flags := s.normalizer.Flags(records)

	snap := &Snapshot{
		Records:  records,
		Flags:    flags,
		Overview: contracts.NewDatasetOverview(records),
		Issues:   normalize.Summarize(records, flags),
		LoadedAt: time.Now(),
	}
	s.current.Store(snap)

	s.logger.WithFields(map[string]interface{}{
		"records":  len(records),
		"duration": time.Since(start),
	}).Info("Dataset snapshot refreshed")

	return nil
}

// Snapshot returns the current view, or nil before the first Refresh.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Loaded reports whether a snapshot is available.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}
