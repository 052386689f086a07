package transaction

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var ErrInvalidMonth = errors.New("invalid month parameter")

// Period selects transactions by their date of sale.
// It is implemented by MonthOfYear and Window only.
type Period interface {
	Contains(t time.Time) bool
	isPeriod()
}

// MonthOfYear matches the calendar month of the sale date (in UTC) regardless of year.
type MonthOfYear int

func (m MonthOfYear) Contains(t time.Time) bool {
	return int(t.UTC().Month()) == int(m)
}

func (MonthOfYear) isPeriod() {}

// Window matches sale dates in the half-open range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (Window) isPeriod() {}

// CalendarWindow returns the window spanning the given month of year, in UTC.
func CalendarWindow(year, month int) Window {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Search matches title or description by case-insensitive substring, or price by
// exact equality. Price is nil when the term is not numeric, in which case the
// price clause matches nothing.
type Search struct {
	Text  string
	Price *decimal.Decimal
}

// Filter is the full predicate: every clause present must hold.
type Filter struct {
	Period Period
	Search *Search
}

// BuildFilter turns raw month and search parameters into a Filter.
// The month is read as its leading integer and is not range checked: anything
// outside 1-12, or without leading digits, yields a filter that matches no records.
func BuildFilter(month, search string) Filter {
	m, ok := leadingInt(month)
	if !ok {
		m = 0
	}

	filter := Filter{Period: MonthOfYear(m)}

	if search == "" {
		return filter
	}

	filter.Search = &Search{Text: search}
	if price, err := decimal.NewFromString(strings.TrimSpace(search)); err == nil {
		filter.Search.Price = &price
	}

	return filter
}

// ParseMonth reads the leading integer of a month parameter ("3", "3.5" and "03x"
// all give 3) and rejects anything outside 1-12.
func ParseMonth(s string) (int, error) {
	m, ok := leadingInt(s)
	if !ok {
		return 0, ErrInvalidMonth
	}

	if err := validateMonth(m); err != nil {
		return 0, err
	}

	return m, nil
}

func validateMonth(m int) error {
	if m < 1 || m > 12 {
		return ErrInvalidMonth
	}

	return nil
}

// leadingInt parses the optionally signed run of digits at the start of s,
// after leading whitespace, and ignores whatever follows.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}
