package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckretail/insights/pkg/config"
	"github.com/duckretail/insights/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const header = "store_id,sku_id,supplier,department,sub_department,section,date,quantity,sales_value,reference_price\n"

func TestCSVLoader_Load(t *testing.T) {
	csv := header +
		"S1,SKU1,BIDCO AFRICA LIMITED,Grocery,Cooking Oil,Edible Oils,2025-09-22,10,900.50,100\n" +
		"S2,SKU2,,Grocery,Cooking Oil,Edible Oils,2025-09-23,5,450,\n"

	loader := NewCSVLoader(writeCSV(t, csv), testLogger())
	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "S1", r.StoreID)
	assert.Equal(t, "SKU1", r.SKUID)
	assert.Equal(t, "BIDCO AFRICA LIMITED", r.Supplier)
	assert.Equal(t, time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, int64(10), r.Quantity)
	assert.Equal(t, 900.50, r.SalesValue)
	require.NotNil(t, r.ReferencePrice)
	assert.Equal(t, 100.0, *r.ReferencePrice)

	// Empty supplier and RRP load as missing values, not errors.
	assert.False(t, records[1].HasSupplier())
	assert.Nil(t, records[1].ReferencePrice)
}

func TestCSVLoader_Load_MissingColumn(t *testing.T) {
	csv := "store_id,sku_id,supplier,department,sub_department,section,date,quantity,sales_value\n" +
		"S1,SKU1,ACME,Grocery,Cooking Oil,Edible Oils,2025-09-22,10,900\n"

	loader := NewCSVLoader(writeCSV(t, csv), testLogger())
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference_price")
}

func TestCSVLoader_Load_HeaderCaseInsensitive(t *testing.T) {
	csv := "Store_ID,SKU_ID,Supplier,Department,Sub_Department,Section,Date,Quantity,Sales_Value,Reference_Price\n" +
		"S1,SKU1,ACME,Grocery,Cooking Oil,Edible Oils,2025-09-22,10,900,100\n"

	loader := NewCSVLoader(writeCSV(t, csv), testLogger())
	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCSVLoader_Load_BadValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad date", "S1,SKU1,ACME,G,CO,EO,22-09-2025,10,900,100"},
		{"bad quantity", "S1,SKU1,ACME,G,CO,EO,2025-09-22,ten,900,100"},
		{"bad sales", "S1,SKU1,ACME,G,CO,EO,2025-09-22,10,abc,100"},
		{"bad rrp", "S1,SKU1,ACME,G,CO,EO,2025-09-22,10,900,abc"},
		{"negative rrp", "S1,SKU1,ACME,G,CO,EO,2025-09-22,10,900,-5"},
		{"empty store", ",SKU1,ACME,G,CO,EO,2025-09-22,10,900,100"},
		{"empty sku", "S1,,ACME,G,CO,EO,2025-09-22,10,900,100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewCSVLoader(writeCSV(t, header+tt.row+"\n"), testLogger())
			_, err := loader.Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestCSVLoader_Load_FileNotFound(t *testing.T) {
	loader := NewCSVLoader(filepath.Join(t.TempDir(), "missing.csv"), testLogger())
	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestCSVLoader_Load_NegativeQuantityAccepted(t *testing.T) {
	// Negative quantities (returns) are data defects for the analyzer,
	// not ingestion failures.
	csv := header + "S1,SKU1,ACME,G,CO,EO,2025-09-22,-3,-270,100\n"

	loader := NewCSVLoader(writeCSV(t, csv), testLogger())
	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(-3), records[0].Quantity)
}
