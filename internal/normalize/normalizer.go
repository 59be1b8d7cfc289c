package normalize

import (
	"time"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/internal/engineconfig"
)

// Normalizer computes per-record quality flags. It is the shared
// precondition for all analyzers: records are flagged, never removed,
// and each analyzer decides which flags exclude a record.
type Normalizer struct {
	cfg engineconfig.Quality
}

// New creates a Normalizer with the given quality thresholds.
func New(cfg engineconfig.Quality) *Normalizer {
	return &Normalizer{cfg: cfg}
}

type dupKey struct {
	store string
	sku   string
	date  time.Time
}

// Flags returns a flag slice parallel to records. Rules run in fixed
// order per record: missing supplier, missing RRP, duplicate,
// negative quantity/sales, extreme price.
//
// Duplicate detection keeps the first occurrence of each
// (store, sku, date) key in input order and flags every later one.
// Reordering the input changes which copy is "first"; ingestion order
// is the documented tie-break. Running Flags over the same slice
// again yields identical output.
func (n *Normalizer) Flags(records []contracts.TransactionRecord) []contracts.QualityFlags {
	flags := make([]contracts.QualityFlags, len(records))
	seen := make(map[dupKey]struct{}, len(records))

	for i := range records {
		r := &records[i]
		f := &flags[i]

		f.MissingSupplier = !r.HasSupplier()
		f.MissingRRP = !r.HasRRP()

		key := dupKey{store: r.StoreID, sku: r.SKUID, date: r.DayKey()}
		if _, ok := seen[key]; ok {
			f.Duplicate = true
		} else {
			seen[key] = struct{}{}
		}

		f.NegativeQuantityOrSales = r.Quantity < 0 || r.SalesValue < 0

		// Extreme price requires a present RRP and a defined unit
		// price. Records without RRP are excluded here, not
		// double-counted as extreme.
		if !f.MissingRRP {
			if unit, ok := r.UnitPrice(); ok {
				rrp := *r.ReferencePrice
				if rrp > 0 && (unit > n.cfg.ExtremePriceHighMult*rrp || unit < n.cfg.ExtremePriceLowMult*rrp) {
					f.ExtremePrice = true
				}
			}
		}
	}

	return flags
}

// Summarize aggregates flag totals across the dataset and derives the
// key-issue lines reported by the quality endpoint.
func Summarize(records []contracts.TransactionRecord, flags []contracts.QualityFlags) contracts.IssuesSummary {
	var s contracts.IssuesSummary

	for i := range flags {
		f := flags[i]
		if f.MissingSupplier {
			s.MissingSupplier++
		}
		if f.MissingRRP {
			s.MissingRRP++
		}
		if f.Duplicate {
			s.Duplicates++
		}
		if f.NegativeQuantityOrSales {
			s.NegativeValues++
		}
		if f.ExtremePrice {
			s.ExtremePrices++
		}
	}

	total := len(records)
	if total == 0 {
		return s
	}

	s.KeyIssues = keyIssues(s, total)
	return s
}

func keyIssues(s contracts.IssuesSummary, total int) []string {
	var issues []string

	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }

	if s.MissingSupplier > 0 {
		issues = append(issues, issueLine("supplier", s.MissingSupplier, pct(s.MissingSupplier)))
	}
	if s.MissingRRP > 0 {
		issues = append(issues, issueLine("reference_price", s.MissingRRP, pct(s.MissingRRP)))
	}
	if s.Duplicates > 0 {
		issues = append(issues, countLine("duplicate records", s.Duplicates))
	}
	if s.NegativeValues > 0 {
		issues = append(issues, countLine("records with negative quantity or sales", s.NegativeValues))
	}
	if s.ExtremePrices > 0 {
		issues = append(issues, countLine("records with extreme unit prices", s.ExtremePrices))
	}

	return issues
}
