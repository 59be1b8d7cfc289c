package ingest

import (
	"context"
	"fmt"

	"github.com/duckretail/insights/internal/contracts"
	"github.com/duckretail/insights/pkg/database"
	"github.com/duckretail/insights/pkg/logger"
)

// PostgresLoader reads transaction records from a Postgres table with
// the same column set as the CSV source.
type PostgresLoader struct {
	db     *database.DB
	table  string
	logger *logger.Logger
}

// NewPostgresLoader creates a PostgresLoader reading from the given table.
func NewPostgresLoader(db *database.DB, table string, log *logger.Logger) *PostgresLoader {
	return &PostgresLoader{db: db, table: table, logger: log}
}

// Load reads the whole table.
func (l *PostgresLoader) Load(ctx context.Context) ([]contracts.TransactionRecord, error) {
	query := fmt.Sprintf(`
		SELECT store_id, sku_id, COALESCE(supplier, ''),
		       COALESCE(department, ''), COALESCE(sub_department, ''), COALESCE(section, ''),
		       date, quantity, sales_value, reference_price
		FROM %s
		ORDER BY date, store_id, sku_id`, l.table)

	rows, err := l.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var records []contracts.TransactionRecord
	for rows.Next() {
		var rec contracts.TransactionRecord
		if err := rows.Scan(
			&rec.StoreID,
			&rec.SKUID,
			&rec.Supplier,
			&rec.Department,
			&rec.SubDepartment,
			&rec.Section,
			&rec.Date,
			&rec.Quantity,
			&rec.SalesValue,
			&rec.ReferencePrice,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	l.logger.WithFields(map[string]interface{}{
		"table":   l.table,
		"records": len(records),
	}).Info("Loaded transactions from Postgres")

	return records, nil
}
