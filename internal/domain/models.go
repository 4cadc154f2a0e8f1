package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by ledgers, filters and API payloads.
const DateLayout = "2006-01-02"

// SalesRecord is one (date, store, product) observation of the sales ledger.
type SalesRecord struct {
	Date      time.Time `json:"date" db:"sale_date"`
	Store     string    `json:"store" db:"store"`
	Product   string    `json:"product" db:"product"`
	Category  string    `json:"category" db:"category"`
	UnitsSold int       `json:"units_sold" db:"units_sold"`
	Price     float64   `json:"price" db:"price"`
	Cost      float64   `json:"cost" db:"cost"`
	Revenue   float64   `json:"revenue" db:"revenue"`
}

// NewSalesRecord builds a record and derives its revenue.
// Every ingestion path goes through here so Revenue never disagrees with UnitsSold*Price.
func NewSalesRecord(date time.Time, store, product, category string, unitsSold int, price, cost float64) SalesRecord {
	return SalesRecord{
		Date:      TruncateDay(date),
		Store:     store,
		Product:   product,
		Category:  category,
		UnitsSold: unitsSold,
		Price:     price,
		Cost:      cost,
		Revenue:   float64(unitsSold) * price,
	}
}

// Validate reports schema violations for a record.
func (r SalesRecord) Validate() error {
	var errs []error
	if r.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if r.Store == "" {
		errs = append(errs, errors.New("store is required"))
	}
	if r.Product == "" {
		errs = append(errs, errors.New("product is required"))
	}
	if r.UnitsSold < 0 {
		errs = append(errs, fmt.Errorf("units_sold must be >= 0, got %d", r.UnitsSold))
	}
	if r.Price <= 0 {
		errs = append(errs, fmt.Errorf("price must be > 0, got %v", r.Price))
	}
	if r.Cost <= 0 {
		errs = append(errs, fmt.Errorf("cost must be > 0, got %v", r.Cost))
	}
	return errors.Join(errs...)
}

// TruncateDay drops the clock part of t and pins it to UTC.
func TruncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DemandPoint is one point of the date-indexed demand series.
type DemandPoint struct {
	Date  time.Time `json:"date"`
	Units float64   `json:"units"`
}

// LedgerFilter restricts the ledger by store, category, product and date range.
// Empty slices match everything; zero dates leave that side of the range open.
type LedgerFilter struct {
	Stores     []string  `json:"stores,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Products   []string  `json:"products,omitempty"`
	From       time.Time `json:"from,omitempty"`
	To         time.Time `json:"to,omitempty"`
}

// Match reports whether r passes the filter.
func (f LedgerFilter) Match(r SalesRecord) bool {
	if !containsOrEmpty(f.Stores, r.Store) ||
		!containsOrEmpty(f.Categories, r.Category) ||
		!containsOrEmpty(f.Products, r.Product) {
		return false
	}
	day := TruncateDay(r.Date)
	if !f.From.IsZero() && day.Before(TruncateDay(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(TruncateDay(f.To)) {
		return false
	}
	return true
}

func containsOrEmpty(values []string, v string) bool {
	if len(values) == 0 {
		return true
	}
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// LedgerDimensions lists the distinct values a ledger can be filtered on.
type LedgerDimensions struct {
	Stores     []string  `json:"stores"`
	Categories []string  `json:"categories"`
	Products   []string  `json:"products"`
	MinDate    time.Time `json:"min_date"`
	MaxDate    time.Time `json:"max_date"`
}
