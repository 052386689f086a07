package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/salesboard/salesboard/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, title, description, price, category, date_of_sale, sold
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	if err := s.Scan(
		&tx.ID, &tx.Title, &tx.Description, &tx.Price, &tx.Category, &tx.DateOfSale, &tx.Sold,
	); err != nil {
		return nil, err
	}

	tx.DateOfSale = tx.DateOfSale.UTC()

	return &tx, nil
}

const selectTransactionColumns = `id, title, description, price, category, date_of_sale, sold`

// query accumulates positional arguments while a statement is being assembled.
type query struct {
	args []any
}

func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *query) period(p transaction.Period) string {
	switch p := p.(type) {
	case transaction.MonthOfYear:
		return fmt.Sprintf("EXTRACT(MONTH FROM date_of_sale AT TIME ZONE 'UTC') = %s", q.arg(int(p)))
	case transaction.Window:
		return fmt.Sprintf("date_of_sale >= %s AND date_of_sale < %s", q.arg(p.Start), q.arg(p.End))
	default:
		return "TRUE"
	}
}

func (q *query) where(filter transaction.Filter) string {
	clauses := []string{q.period(filter.Period)}

	if filter.Search != nil {
		text := q.arg(filter.Search.Text)
		search := fmt.Sprintf("strpos(lower(title), lower(%s)) > 0 OR strpos(lower(description), lower(%s)) > 0", text, text)

		if filter.Search.Price != nil {
			search += " OR price = " + q.arg(*filter.Search.Price)
		}

		clauses = append(clauses, "("+search+")")
	}

	return " WHERE " + strings.Join(clauses, " AND ")
}

func (q *query) list(filter transaction.Filter, page *transaction.Pagination) string {
	stmt := `SELECT ` + selectTransactionColumns + ` FROM transactions` + q.where(filter) + ` ORDER BY seq ASC`

	if page != nil {
		stmt += fmt.Sprintf(" LIMIT %s OFFSET %s", q.arg(page.Limit), q.arg(page.Offset))
	}

	return stmt
}

// summary selects the match count first so an empty period can be told apart
// from one whose prices sum to zero.
func (q *query) summary(period transaction.Period) string {
	return `SELECT COUNT(*), COALESCE(SUM(price), 0), COUNT(*) FILTER (WHERE sold), COUNT(*) FILTER (WHERE NOT sold)` +
		` FROM transactions WHERE ` + q.period(period)
}

// priceRanges selects one filtered count per range, in range order. Bucket
// bounds are bound before the period.
func (q *query) priceRanges(period transaction.Period, ranges []transaction.PriceRange) string {
	columns := make([]string, len(ranges))
	for i, r := range ranges {
		cond := "price >= " + q.arg(r.Min)
		if r.Max != nil {
			cond += " AND price < " + q.arg(*r.Max)
		}

		columns[i] = fmt.Sprintf("COUNT(*) FILTER (WHERE %s)", cond)
	}

	return `SELECT ` + strings.Join(columns, ", ") + ` FROM transactions WHERE ` + q.period(period)
}

func (q *query) categories(period transaction.Period) string {
	return `SELECT category, COUNT(*) FROM transactions WHERE ` + q.period(period) +
		` GROUP BY category ORDER BY category ASC`
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.Filter, page *transaction.Pagination) ([]*transaction.Transaction, error) {
	var q query

	rows, err := s.db.QueryContext(ctx, q.list(filter, page), q.args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	txs := []*transaction.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) CountTransactions(ctx context.Context, filter transaction.Filter) (int64, error) {
	var q query

	stmt := `SELECT COUNT(*) FROM transactions` + q.where(filter)

	var total int64
	if err := s.db.QueryRowContext(ctx, stmt, q.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return total, nil
}

func (s *Store) SummarizeSales(ctx context.Context, period transaction.Period) (*transaction.Statistics, error) {
	var q query

	var (
		matched int64
		stats   transaction.Statistics
	)

	err := s.db.QueryRowContext(ctx, q.summary(period), q.args...).Scan(
		&matched, &stats.TotalSaleAmount, &stats.TotalSoldItems, &stats.TotalNotSoldItems,
	)
	if err != nil {
		return nil, fmt.Errorf("summarizing sales: %w", err)
	}

	if matched == 0 {
		return nil, nil
	}

	return &stats, nil
}

// CountByPriceRange counts every range in one pass using filtered aggregates.
func (s *Store) CountByPriceRange(ctx context.Context, period transaction.Period, ranges []transaction.PriceRange) ([]int64, error) {
	if len(ranges) == 0 {
		return []int64{}, nil
	}

	var q query

	stmt := q.priceRanges(period, ranges)

	counts := make([]int64, len(ranges))

	dest := make([]any, len(ranges))
	for i := range counts {
		dest[i] = &counts[i]
	}

	if err := s.db.QueryRowContext(ctx, stmt, q.args...).Scan(dest...); err != nil {
		return nil, fmt.Errorf("counting price ranges: %w", err)
	}

	return counts, nil
}

func (s *Store) CountByCategory(ctx context.Context, period transaction.Period) ([]transaction.CategoryCount, error) {
	var q query

	rows, err := s.db.QueryContext(ctx, q.categories(period), q.args...)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	counts := []transaction.CategoryCount{}

	for rows.Next() {
		var c transaction.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}

		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return counts, nil
}

// ReplaceAll deletes every transaction and inserts txs inside one database transaction,
// so readers never observe a partially loaded dataset.
func (s *Store) ReplaceAll(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("deleting transactions: %w", err)
	}

	insert, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (title, description, price, category, date_of_sale, sold)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for _, tx := range txs {
		err := insert.QueryRowContext(ctx,
			tx.Title,
			tx.Description,
			tx.Price,
			tx.Category,
			tx.DateOfSale,
			tx.Sold,
		).Scan(&tx.ID)
		if err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
