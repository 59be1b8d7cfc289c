package contracts

import "time"

// TransactionRecord is one point-of-sale line item.
// Records are read once at ingestion and immutable afterwards.
type TransactionRecord struct {
	StoreID        string     `json:"store_id"`
	SKUID          string     `json:"sku_id"`
	Supplier       string     `json:"supplier"` // empty = missing
	Department     string     `json:"department"`
	SubDepartment  string     `json:"sub_department"`
	Section        string     `json:"section"`
	Date           time.Time  `json:"date"` // day precision
	Quantity       int64      `json:"quantity"`
	SalesValue     float64    `json:"sales_value"`
	ReferencePrice *float64   `json:"reference_price,omitempty"` // RRP, nil = missing
}

// HasSupplier reports whether the supplier field is populated.
func (r *TransactionRecord) HasSupplier() bool {
	return r.Supplier != ""
}

// HasRRP reports whether a reference price is present.
func (r *TransactionRecord) HasRRP() bool {
	return r.ReferencePrice != nil
}

// UnitPrice returns the realized unit price (sales value / quantity).
// Defined only for positive quantities; ok is false otherwise.
func (r *TransactionRecord) UnitPrice() (float64, bool) {
	if r.Quantity <= 0 {
		return 0, false
	}
	return r.SalesValue / float64(r.Quantity), true
}

// DayKey returns the record date truncated to its calendar day,
// used for per-day aggregation.
func (r *TransactionRecord) DayKey() time.Time {
	y, m, d := r.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ISOWeek returns the ISO-8601 year and week of the record date.
func (r *TransactionRecord) ISOWeek() (year, week int) {
	return r.Date.ISOWeek()
}

// DatasetOverview summarizes a loaded transaction set.
type DatasetOverview struct {
	TotalRecords int       `json:"total_records"`
	DateFrom     time.Time `json:"date_from"`
	DateTo       time.Time `json:"date_to"`
	NumStores    int       `json:"num_stores"`
	NumSuppliers int       `json:"num_suppliers"`
	NumSKUs      int       `json:"num_skus"`
}

// NewDatasetOverview computes the overview for a record slice.
func NewDatasetOverview(records []TransactionRecord) DatasetOverview {
	ov := DatasetOverview{TotalRecords: len(records)}
	if len(records) == 0 {
		return ov
	}

	stores := make(map[string]struct{})
	suppliers := make(map[string]struct{})
	skus := make(map[string]struct{})

	ov.DateFrom = records[0].Date
	ov.DateTo = records[0].Date

	for i := range records {
		r := &records[i]
		stores[r.StoreID] = struct{}{}
		skus[r.SKUID] = struct{}{}
		if r.HasSupplier() {
			suppliers[r.Supplier] = struct{}{}
		}
		if r.Date.Before(ov.DateFrom) {
			ov.DateFrom = r.Date
		}
		if r.Date.After(ov.DateTo) {
			ov.DateTo = r.Date
		}
	}

	ov.NumStores = len(stores)
	ov.NumSuppliers = len(suppliers)
	ov.NumSKUs = len(skus)
	return ov
}
