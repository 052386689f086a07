package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/salesboard/salesboard/internal/encoding"
	"github.com/salesboard/salesboard/internal/transaction"
)

// Service reloads the transaction dataset from a remote JSON feed.
type Service struct {
	transactions *transaction.Service
	client       *http.Client
	feedURL      string
}

func NewService(txService *transaction.Service, feedURL string, timeout time.Duration) *Service {
	return &Service{
		transactions: txService,
		client:       &http.Client{Timeout: timeout},
		feedURL:      feedURL,
	}
}

// Initialize fetches the feed and replaces every stored transaction with its contents.
// It returns the number of transactions loaded.
func (s *Service) Initialize(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, s.feedURL)
	}

	body, err := encoding.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return 0, fmt.Errorf("reading feed: %w", err)
	}

	txs, err := Parse(body)
	if err != nil {
		return 0, err
	}

	if err := s.transactions.ReplaceAll(ctx, txs); err != nil {
		return 0, err
	}

	slog.Info("dataset initialized", "transactions", len(txs), "source", s.feedURL)

	return len(txs), nil
}
