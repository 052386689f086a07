package store

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/salesboard/salesboard/internal/transaction"
)

func TestQuery_Where(t *testing.T) {
	price := decimal.NewFromInt(150)

	tests := []struct {
		name     string
		filter   transaction.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "MonthOnly",
			filter:   transaction.Filter{Period: transaction.MonthOfYear(3)},
			wantSQL:  " WHERE EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $1",
			wantArgs: []any{3},
		},
		{
			name: "TextSearch",
			filter: transaction.Filter{
				Period: transaction.MonthOfYear(3),
				Search: &transaction.Search{Text: "shirt"},
			},
			wantSQL: " WHERE EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $1" +
				" AND (strpos(lower(title), lower($2)) > 0 OR strpos(lower(description), lower($2)) > 0)",
			wantArgs: []any{3, "shirt"},
		},
		{
			name: "NumericSearch",
			filter: transaction.Filter{
				Period: transaction.MonthOfYear(1),
				Search: &transaction.Search{Text: "150", Price: &price},
			},
			wantSQL: " WHERE EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $1" +
				" AND (strpos(lower(title), lower($2)) > 0 OR strpos(lower(description), lower($2)) > 0 OR price = $3)",
			wantArgs: []any{1, "150", price},
		},
		{
			name:     "NoPeriod",
			filter:   transaction.Filter{},
			wantSQL:  " WHERE TRUE",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q query

			assert.Equal(t, tt.wantSQL, q.where(tt.filter))
			assert.Equal(t, tt.wantArgs, q.args)
		})
	}
}

func TestQuery_PeriodWindow(t *testing.T) {
	var q query

	w := transaction.CalendarWindow(2022, 2)

	assert.Equal(t, "date_of_sale >= $1 AND date_of_sale < $2", q.period(w))
	assert.Equal(t, []any{
		time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}, q.args)
}

// argStrings renders bound arguments so decimals compare by value.
func argStrings(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if d, ok := a.(decimal.Decimal); ok {
			out[i] = d.String()
			continue
		}

		out[i] = fmt.Sprint(a)
	}

	return out
}

func TestQuery_PriceRanges(t *testing.T) {
	tests := []struct {
		name        string
		period      transaction.Period
		wantPeriod  string
		wantTrailer []string
	}{
		{
			name:        "Window",
			period:      transaction.CalendarWindow(2022, 3),
			wantPeriod:  "date_of_sale >= $20 AND date_of_sale < $21",
			wantTrailer: []string{"2022-03-01 00:00:00 +0000 UTC", "2022-04-01 00:00:00 +0000 UTC"},
		},
		{
			name:        "MonthOfYear",
			period:      transaction.MonthOfYear(3),
			wantPeriod:  "EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $20",
			wantTrailer: []string{"3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q query

			stmt := q.priceRanges(tt.period, transaction.PriceRanges())

			columns := []string{
				"COUNT(*) FILTER (WHERE price >= $1 AND price < $2)",
				"COUNT(*) FILTER (WHERE price >= $3 AND price < $4)",
				"COUNT(*) FILTER (WHERE price >= $5 AND price < $6)",
				"COUNT(*) FILTER (WHERE price >= $7 AND price < $8)",
				"COUNT(*) FILTER (WHERE price >= $9 AND price < $10)",
				"COUNT(*) FILTER (WHERE price >= $11 AND price < $12)",
				"COUNT(*) FILTER (WHERE price >= $13 AND price < $14)",
				"COUNT(*) FILTER (WHERE price >= $15 AND price < $16)",
				"COUNT(*) FILTER (WHERE price >= $17 AND price < $18)",
				"COUNT(*) FILTER (WHERE price >= $19)",
			}

			assert.Equal(t, "SELECT "+strings.Join(columns, ", ")+" FROM transactions WHERE "+tt.wantPeriod, stmt)

			wantArgs := append([]string{
				"0", "100", "101", "200", "201", "300", "301", "400", "401", "500",
				"501", "600", "601", "700", "701", "800", "801", "900", "901",
			}, tt.wantTrailer...)
			assert.Equal(t, wantArgs, argStrings(q.args))
		})
	}
}

func TestQuery_Summary(t *testing.T) {
	var q query

	assert.Equal(t,
		"SELECT COUNT(*), COALESCE(SUM(price), 0), COUNT(*) FILTER (WHERE sold), COUNT(*) FILTER (WHERE NOT sold)"+
			" FROM transactions WHERE EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $1",
		q.summary(transaction.MonthOfYear(7)))
	assert.Equal(t, []any{7}, q.args)
}

func TestQuery_Categories(t *testing.T) {
	var q query

	assert.Equal(t,
		"SELECT category, COUNT(*) FROM transactions WHERE date_of_sale >= $1 AND date_of_sale < $2"+
			" GROUP BY category ORDER BY category ASC",
		q.categories(transaction.CalendarWindow(2022, 12)))
	assert.Len(t, q.args, 2)
}

func TestQuery_List(t *testing.T) {
	const columns = "SELECT id, title, description, price, category, date_of_sale, sold FROM transactions"

	tests := []struct {
		name     string
		page     *transaction.Pagination
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Unpaged",
			wantSQL:  columns + " WHERE EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $1 ORDER BY seq ASC",
			wantArgs: []any{3},
		},
		{
			name:     "Paged",
			page:     &transaction.Pagination{Offset: 20, Limit: 10},
			wantSQL:  columns + " WHERE EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $1 ORDER BY seq ASC LIMIT $2 OFFSET $3",
			wantArgs: []any{3, 10, 20},
		},
		{
			name:     "SaturatedOffset",
			page:     &transaction.Pagination{Offset: math.MaxInt, Limit: math.MaxInt},
			wantSQL:  columns + " WHERE EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = $1 ORDER BY seq ASC LIMIT $2 OFFSET $3",
			wantArgs: []any{3, math.MaxInt, math.MaxInt},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q query

			assert.Equal(t, tt.wantSQL, q.list(transaction.Filter{Period: transaction.MonthOfYear(3)}, tt.page))
			assert.Equal(t, tt.wantArgs, q.args)
		})
	}
}
