// Package memory provides an in-process transaction store. It keeps records in
// insertion order and evaluates filters the same way the PostgreSQL store does.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/salesboard/salesboard/internal/transaction"
)

type Store struct {
	mu  sync.RWMutex
	txs []*transaction.Transaction
}

func New() *Store {
	return &Store{}
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.Filter, page *transaction.Pagination) ([]*transaction.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := s.match(filter)

	if page != nil {
		start := min(page.Offset, len(matched))
		end := start + min(page.Limit, len(matched)-start)
		matched = matched[start:end]
	}

	return matched, nil
}

func (s *Store) CountTransactions(ctx context.Context, filter transaction.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return int64(len(s.match(filter))), nil
}

func (s *Store) SummarizeSales(ctx context.Context, period transaction.Period) (*transaction.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := s.match(transaction.Filter{Period: period})
	if len(matched) == 0 {
		return nil, nil
	}

	stats := transaction.Statistics{TotalSaleAmount: decimal.Zero}

	for _, tx := range matched {
		stats.TotalSaleAmount = stats.TotalSaleAmount.Add(tx.Price)

		if tx.Sold {
			stats.TotalSoldItems++
		} else {
			stats.TotalNotSoldItems++
		}
	}

	return &stats, nil
}

func (s *Store) CountByPriceRange(ctx context.Context, period transaction.Period, ranges []transaction.PriceRange) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make([]int64, len(ranges))

	for _, tx := range s.match(transaction.Filter{Period: period}) {
		for i, r := range ranges {
			if r.Contains(tx.Price) {
				counts[i]++
			}
		}
	}

	return counts, nil
}

func (s *Store) CountByCategory(ctx context.Context, period transaction.Period) ([]transaction.CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byCategory := make(map[string]int64)
	for _, tx := range s.match(transaction.Filter{Period: period}) {
		byCategory[tx.Category]++
	}

	counts := make([]transaction.CategoryCount, 0, len(byCategory))
	for category, n := range byCategory {
		counts = append(counts, transaction.CategoryCount{Category: category, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool { return counts[i].Category < counts[j].Category })

	return counts, nil
}

func (s *Store) ReplaceAll(ctx context.Context, txs []*transaction.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	loaded := make([]*transaction.Transaction, len(txs))
	for i, tx := range txs {
		tx.ID = uuid.New()
		stored := *tx
		loaded[i] = &stored
	}

	s.mu.Lock()
	s.txs = loaded
	s.mu.Unlock()

	return nil
}

// match returns copies of the matching records so callers cannot mutate the store.
func (s *Store) match(filter transaction.Filter) []*transaction.Transaction {
	fold := cases.Fold()

	var needle string
	if filter.Search != nil {
		needle = fold.String(filter.Search.Text)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*transaction.Transaction{}

	for _, tx := range s.txs {
		if filter.Period != nil && !filter.Period.Contains(tx.DateOfSale) {
			continue
		}

		if filter.Search != nil && !matchesSearch(fold, needle, filter.Search.Price, tx) {
			continue
		}

		cp := *tx
		matched = append(matched, &cp)
	}

	return matched
}

func matchesSearch(fold cases.Caser, needle string, price *decimal.Decimal, tx *transaction.Transaction) bool {
	if strings.Contains(fold.String(tx.Title), needle) || strings.Contains(fold.String(tx.Description), needle) {
		return true
	}

	return price != nil && price.Equal(tx.Price)
}
