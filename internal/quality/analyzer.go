package quality

import (
	"sort"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/engineconfig"
	"github.com/duckretail/insights/pkg/logger"
)

// Analyzer computes store and supplier health scores from the
// normalized record set. Pure over its inputs; no side effects.
type Analyzer struct {
	cfg    engineconfig.Quality
	logger *logger.Logger
}

// New creates an Analyzer with the given scoring config.
func New(cfg engineconfig.Quality, log *logger.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, logger: log}
}

// groupStats accumulates flag counts per grouping entity.
type groupStats struct {
	records    int
	missing    int // missing supplier + missing RRP, counted per field
	outliers   int // negative quantity/sales + extreme price
	duplicates int
}

// StoreHealth returns one HealthScore per store, ordered by score
// descending (entity id breaks ties).
func (a *Analyzer) StoreHealth(records []contracts.TransactionRecord, flags []contracts.QualityFlags) []contracts.HealthScore {
	groups := make(map[string]*groupStats)

	for i := range records {
		a.accumulate(groups, records[i].StoreID, flags[i])
	}

	return a.score(groups)
}

// SupplierHealth returns one HealthScore per supplier. Records with a
// missing supplier cannot be attributed to any group and are left
// out; they still count against store health.
func (a *Analyzer) SupplierHealth(records []contracts.TransactionRecord, flags []contracts.QualityFlags) []contracts.HealthScore {
	groups := make(map[string]*groupStats)

	for i := range records {
		if !records[i].HasSupplier() {
			continue
		}
		a.accumulate(groups, records[i].Supplier, flags[i])
	}

	return a.score(groups)
}

func (a *Analyzer) accumulate(groups map[string]*groupStats, key string, f contracts.QualityFlags) {
	g, ok := groups[key]
	if !ok {
		g = &groupStats{}
		groups[key] = g
	}

	g.records++
	if f.MissingSupplier {
		g.missing++
	}
	if f.MissingRRP {
		g.missing++
	}
	if f.NegativeQuantityOrSales {
		g.outliers++
	}
	if f.ExtremePrice {
		g.outliers++
	}
	if f.Duplicate {
		g.duplicates++
	}
}

// score converts accumulated stats into HealthScores. Empty groups
// cannot occur (a group exists only once a record lands in it), so no
// divide-by-zero recovery is needed beyond the guard.
func (a *Analyzer) score(groups map[string]*groupStats) []contracts.HealthScore {
	scores := make([]contracts.HealthScore, 0, len(groups))

	for id, g := range groups {
		if g.records == 0 {
			continue
		}

		n := float64(g.records)
		hs := contracts.HealthScore{
			EntityID:      id,
			Records:       g.records,
			MissingRate:   float64(g.missing) / n,
			OutlierRate:   float64(g.outliers) / n,
			DuplicateRate: float64(g.duplicates) / n,
		}

		hs.Score = a.weightedScore(hs.MissingRate, hs.OutlierRate, hs.DuplicateRate)
		hs.Category = a.categorize(hs.Score)
		scores = append(scores, hs)
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].EntityID < scores[j].EntityID
	})

	if a.logger != nil {
		a.logger.WithField("groups", len(scores)).Debug("Computed health scores")
	}

	return scores
}

// weightedScore applies the penalty weights and clamps to [0, 100].
func (a *Analyzer) weightedScore(missingRate, outlierRate, duplicateRate float64) float64 {
	w := a.cfg.Weights
	score := 100 - (missingRate*w.Missing + outlierRate*w.Outlier + duplicateRate*w.Duplicate)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// categorize maps a score to its band, lower bounds inclusive.
func (a *Analyzer) categorize(score float64) string {
	c := a.cfg.Categories
	switch {
	case score >= c.Excellent:
		return contracts.CategoryExcellent
	case score >= c.Good:
		return contracts.CategoryGood
	case score >= c.Fair:
		return contracts.CategoryFair
	default:
		return contracts.CategoryPoor
	}
}
