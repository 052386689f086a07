package transaction

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// ListTransactions returns matching records in insertion order. A nil page returns all of them.
	ListTransactions(ctx context.Context, filter Filter, page *Pagination) ([]*Transaction, error)
	CountTransactions(ctx context.Context, filter Filter) (int64, error)

	// SummarizeSales returns nil when no record falls in the period.
	SummarizeSales(ctx context.Context, period Period) (*Statistics, error)
	// CountByPriceRange returns one count per range, in the order given.
	CountByPriceRange(ctx context.Context, period Period, ranges []PriceRange) ([]int64, error)
	CountByCategory(ctx context.Context, period Period) ([]CategoryCount, error)

	// ReplaceAll deletes every record and inserts txs in a single unit of work.
	ReplaceAll(ctx context.Context, txs []*Transaction) error
}

type Pagination struct {
	Offset int
	Limit  int
}

type Service struct {
	repo          Repository
	referenceYear int
}

// NewService creates a Service. referenceYear anchors the calendar window used by
// the histogram and combined views.
func NewService(repo Repository, referenceYear int) *Service {
	return &Service{repo: repo, referenceYear: referenceYear}
}

type ListParams struct {
	Filter  Filter
	Page    int
	PerPage int
}

// List returns one page of matching transactions along with the total match count.
// Page and PerPage below 1 fall back to the defaults.
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	page, perPage := params.Page, params.PerPage
	if page < 1 {
		page = DefaultPage
	}

	if perPage < 1 {
		perPage = DefaultPerPage
	}

	var (
		items []*Transaction
		total int64
	)

	pagination := &Pagination{Offset: pageOffset(page, perPage), Limit: perPage}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		items, err = s.repo.ListTransactions(gctx, params.Filter, pagination)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		total, err = s.repo.CountTransactions(gctx, params.Filter)
		if err != nil {
			return fmt.Errorf("counting transactions: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*Transaction{}
	}

	return &Page{Items: items, Total: total}, nil
}

// pageOffset returns (page-1)*perPage, saturating at math.MaxInt so that a
// page far past the end yields an empty page rather than a negative offset.
func pageOffset(page, perPage int) int {
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}

	return (page - 1) * perPage
}

// Statistics sums sales for every transaction sold in the given month of any year.
func (s *Service) Statistics(ctx context.Context, month int) (*Statistics, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	return s.statistics(ctx, MonthOfYear(month))
}

// PriceHistogram counts transactions per price bucket within the calendar window
// of the month in the reference year.
func (s *Service) PriceHistogram(ctx context.Context, month int) ([]RangeCount, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	return s.histogram(ctx, CalendarWindow(s.referenceYear, month))
}

// CategoryDistribution counts transactions per category for the given month of any year.
func (s *Service) CategoryDistribution(ctx context.Context, month int) ([]CategoryCount, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	return s.distribution(ctx, MonthOfYear(month))
}

// Combined loads the raw transactions, statistics, histogram and category distribution
// of the month's calendar window concurrently. Any failure fails the whole view.
func (s *Service) Combined(ctx context.Context, month int) (*Combined, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	window := CalendarWindow(s.referenceYear, month)

	var (
		txs   []*Transaction
		stats *Statistics
		bar   []RangeCount
		pie   []CategoryCount
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		txs, err = s.repo.ListTransactions(gctx, Filter{Period: window}, nil)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		stats, err = s.statistics(gctx, window)

		return err
	})

	g.Go(func() error {
		var err error
		bar, err = s.histogram(gctx, window)

		return err
	})

	g.Go(func() error {
		var err error
		pie, err = s.distribution(gctx, window)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []*Transaction{}
	}

	return &Combined{
		Transactions: txs,
		Statistics:   *stats,
		BarChart:     bar,
		PieChart:     pie,
	}, nil
}

// ReplaceAll swaps the whole dataset for txs.
func (s *Service) ReplaceAll(ctx context.Context, txs []*Transaction) error {
	if err := s.repo.ReplaceAll(ctx, txs); err != nil {
		return fmt.Errorf("replacing transactions: %w", err)
	}

	return nil
}

func (s *Service) statistics(ctx context.Context, period Period) (*Statistics, error) {
	stats, err := s.repo.SummarizeSales(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("summarizing sales: %w", err)
	}

	if stats == nil {
		return &Statistics{}, nil
	}

	return stats, nil
}

func (s *Service) histogram(ctx context.Context, period Period) ([]RangeCount, error) {
	ranges := PriceRanges()

	counts, err := s.repo.CountByPriceRange(ctx, period, ranges)
	if err != nil {
		return nil, fmt.Errorf("counting price ranges: %w", err)
	}

	if len(counts) != len(ranges) {
		return nil, fmt.Errorf("counting price ranges: got %d counts for %d ranges", len(counts), len(ranges))
	}

	result := make([]RangeCount, len(ranges))
	for i, r := range ranges {
		result[i] = RangeCount{Range: r.Label, Count: counts[i]}
	}

	return result, nil
}

func (s *Service) distribution(ctx context.Context, period Period) ([]CategoryCount, error) {
	counts, err := s.repo.CountByCategory(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}

	if counts == nil {
		counts = []CategoryCount{}
	}

	return counts, nil
}
