package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents a single product sale record.
type Transaction struct {
	ID          uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	DateOfSale  time.Time
	Sold        bool
}

// Statistics holds the sales totals for a period.
type Statistics struct {
	TotalSaleAmount   decimal.Decimal
	TotalSoldItems    int64
	TotalNotSoldItems int64
}

// PriceRange is a histogram bucket covering [Min, Max). A nil Max is unbounded.
type PriceRange struct {
	Label string
	Min   decimal.Decimal
	Max   *decimal.Decimal
}

// Contains reports whether price falls inside the range.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}

	return r.Max == nil || price.LessThan(*r.Max)
}

// PriceRanges returns the fixed histogram buckets.
// Bucket bounds are not contiguous: a price of 100.50 falls in no bucket.
func PriceRanges() []PriceRange {
	bounded := func(label string, lo, hi int64) PriceRange {
		return PriceRange{Label: label, Min: decimal.NewFromInt(lo), Max: new(decimal.NewFromInt(hi))}
	}

	return []PriceRange{
		bounded("0-100", 0, 100),
		bounded("101-200", 101, 200),
		bounded("201-300", 201, 300),
		bounded("301-400", 301, 400),
		bounded("401-500", 401, 500),
		bounded("501-600", 501, 600),
		bounded("601-700", 601, 700),
		bounded("701-800", 701, 800),
		bounded("801-900", 801, 900),
		{Label: "901-above", Min: decimal.NewFromInt(901)},
	}
}

// RangeCount is the number of transactions in one price bucket.
type RangeCount struct {
	Range string
	Count int64
}

// CategoryCount is the number of transactions in one category.
type CategoryCount struct {
	Category string
	Count    int64
}

// Page is one slice of a filtered result set along with the unpaginated total.
type Page struct {
	Items []*Transaction
	Total int64
}

// Combined merges the raw records of a calendar window with all of its aggregates.
type Combined struct {
	Transactions []*Transaction
	Statistics   Statistics
	BarChart     []RangeCount
	PieChart     []CategoryCount
}
