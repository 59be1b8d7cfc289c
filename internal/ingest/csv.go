package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/pkg/logger"
)

// Required CSV columns. A header missing any of them is a structural
// error surfaced before the engine runs.
var requiredColumns = []string{
	"store_id",
	"sku_id",
	"supplier",
	"department",
	"sub_department",
	"section",
	"date",
	"quantity",
	"sales_value",
	"reference_price",
}

const dateLayout = "2006-01-02"

// CSVLoader reads transaction records from a CSV file. Empty supplier
// and reference_price cells are data-quality defects handled by the
// normalizer, not ingestion errors.
type CSVLoader struct {
	path   string
	logger *logger.Logger
}

// NewCSVLoader creates a CSVLoader for the given file path.
func NewCSVLoader(path string, log *logger.Logger) *CSVLoader {
	return &CSVLoader{path: path, logger: log}
}

// Load reads and parses the whole file.
func (l *CSVLoader) Load(ctx context.Context) ([]contracts.TransactionRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	records, err := l.parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}

	l.logger.WithFields(map[string]interface{}{
		"path":    l.path,
		"records": len(records),
	}).Info("Loaded transactions from CSV")

	return records, nil
}

func (l *CSVLoader) parse(ctx context.Context, r io.Reader) ([]contracts.TransactionRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []contracts.TransactionRecord
	line := 1

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// mapColumns resolves header names to indices, case-insensitively.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRow(row []string, cols map[string]int) (contracts.TransactionRecord, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rec := contracts.TransactionRecord{
		StoreID:       field("store_id"),
		SKUID:         field("sku_id"),
		Supplier:      field("supplier"),
		Department:    field("department"),
		SubDepartment: field("sub_department"),
		Section:       field("section"),
	}

	if rec.StoreID == "" {
		return rec, fmt.Errorf("store_id is empty")
	}
	if rec.SKUID == "" {
		return rec, fmt.Errorf("sku_id is empty")
	}

	date, err := time.Parse(dateLayout, field("date"))
	if err != nil {
		return rec, fmt.Errorf("invalid date %q: %w", field("date"), err)
	}
	rec.Date = date

	qty, err := strconv.ParseInt(field("quantity"), 10, 64)
	if err != nil {
		return rec, fmt.Errorf("invalid quantity %q: %w", field("quantity"), err)
	}
	rec.Quantity = qty

	sales, err := strconv.ParseFloat(field("sales_value"), 64)
	if err != nil {
		return rec, fmt.Errorf("invalid sales_value %q: %w", field("sales_value"), err)
	}
	rec.SalesValue = sales

	if raw := field("reference_price"); raw != "" {
		rrp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, fmt.Errorf("invalid reference_price %q: %w", raw, err)
		}
		if rrp < 0 {
			return rec, fmt.Errorf("reference_price must be >= 0, got %v", rrp)
		}
		rec.ReferencePrice = &rrp
	}

	return rec, nil
}
