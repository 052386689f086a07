package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesboard/salesboard/internal/transaction"
)

// record is one entry of the product transaction feed.
type record struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	DateOfSale  time.Time       `json:"dateOfSale"`
	Sold        *bool           `json:"sold"`
}

// Parse decodes a JSON array of feed records into transactions.
// A missing sold flag is read as not sold.
func Parse(r io.Reader) ([]*transaction.Transaction, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	txs := make([]*transaction.Transaction, 0, len(records))

	for i, rec := range records {
		if rec.DateOfSale.IsZero() {
			return nil, fmt.Errorf("record %d: missing dateOfSale", i)
		}

		if rec.Price.IsNegative() {
			return nil, fmt.Errorf("record %d: negative price %s", i, rec.Price)
		}

		txs = append(txs, &transaction.Transaction{
			Title:       strings.TrimSpace(rec.Title),
			Description: rec.Description,
			Price:       rec.Price,
			Category:    rec.Category,
			DateOfSale:  rec.DateOfSale.UTC(),
			Sold:        rec.Sold != nil && *rec.Sold,
		})
	}

	return txs, nil
}
