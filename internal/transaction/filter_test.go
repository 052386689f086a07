package transaction_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/salesboard/internal/transaction"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name       string
		month      string
		search     string
		wantPeriod transaction.Period
		wantSearch bool
		wantPrice  string
	}{
		{name: "MonthOnly", month: "3", wantPeriod: transaction.MonthOfYear(3)},
		{name: "TextSearch", month: "11", search: "shirt", wantPeriod: transaction.MonthOfYear(11), wantSearch: true},
		{name: "NumericSearch", month: "1", search: "150", wantPeriod: transaction.MonthOfYear(1), wantSearch: true, wantPrice: "150"},
		{name: "DecimalSearch", month: "1", search: "329.85", wantPeriod: transaction.MonthOfYear(1), wantSearch: true, wantPrice: "329.85"},
		{name: "NonNumericMonth", month: "march", wantPeriod: transaction.MonthOfYear(0)},
		{name: "OutOfRangeMonth", month: "13", wantPeriod: transaction.MonthOfYear(13)},
		{name: "FractionalMonth", month: "3.5", wantPeriod: transaction.MonthOfYear(3)},
		{name: "TrailingGarbageMonth", month: "3abc", wantPeriod: transaction.MonthOfYear(3)},
		{name: "PaddedMonth", month: " 04 ", wantPeriod: transaction.MonthOfYear(4)},
		{name: "SignOnlyMonth", month: "-", wantPeriod: transaction.MonthOfYear(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transaction.BuildFilter(tt.month, tt.search)
			assert.Equal(t, tt.wantPeriod, got.Period)

			if !tt.wantSearch {
				assert.Nil(t, got.Search)
				return
			}

			require.NotNil(t, got.Search)
			assert.Equal(t, tt.search, got.Search.Text)

			if tt.wantPrice == "" {
				assert.Nil(t, got.Search.Price)
				return
			}

			require.NotNil(t, got.Search.Price)
			assert.True(t, decimal.RequireFromString(tt.wantPrice).Equal(*got.Search.Price))
		})
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "Plain", input: "6", want: 6},
		{name: "Padded", input: " 7 ", want: 7},
		{name: "LeadingZero", input: "012", want: 12},
		{name: "PlusSign", input: "+1", want: 1},
		{name: "Fraction", input: "3.5", want: 3},
		{name: "TrailingLetters", input: "3abc", want: 3},
		{name: "TrailingFractionPastRange", input: "12.9", want: 12},
		{name: "Zero", input: "0", wantErr: true},
		{name: "PastDecember", input: "13", wantErr: true},
		{name: "PastDecemberWithSuffix", input: "13abc", wantErr: true},
		{name: "Negative", input: "-1", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Word", input: "june", wantErr: true},
		{name: "LeadingDot", input: ".5", wantErr: true},
		{name: "Overflow", input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transaction.ParseMonth(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, transaction.ErrInvalidMonth)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthOfYear_Contains(t *testing.T) {
	march := transaction.MonthOfYear(3)

	assert.True(t, march.Contains(time.Date(2021, 3, 15, 10, 0, 0, 0, time.UTC)))
	assert.True(t, march.Contains(time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, march.Contains(time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, transaction.MonthOfYear(0).Contains(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCalendarWindow(t *testing.T) {
	w := transaction.CalendarWindow(2022, 12)

	assert.Equal(t, time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End))
	assert.False(t, w.Contains(time.Date(2021, 12, 10, 0, 0, 0, 0, time.UTC)))
}

func TestPriceRanges(t *testing.T) {
	ranges := transaction.PriceRanges()
	require.Len(t, ranges, 10)

	assert.True(t, ranges[0].Contains(decimal.NewFromInt(0)))
	assert.False(t, ranges[0].Contains(decimal.NewFromInt(100)))
	assert.False(t, ranges[1].Contains(decimal.RequireFromString("100.5")))
	assert.True(t, ranges[1].Contains(decimal.NewFromInt(150)))
	assert.True(t, ranges[9].Contains(decimal.NewFromInt(100000)))
	assert.Nil(t, ranges[9].Max)
}
