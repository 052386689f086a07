package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/salesboard/salesboard/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Sold        bool      `json:"sold"`
}

type listResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Count        int64                 `json:"count"`
}

type statisticsResponse struct {
	TotalSaleAmount   float64 `json:"totalSaleAmount"`
	TotalSoldItems    int64   `json:"totalSoldItems"`
	TotalNotSoldItems int64   `json:"totalNotSoldItems"`
}

type rangeCountResponse struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type categoryCountResponse struct {
	Category string `json:"_id"`
	Count    int64  `json:"count"`
}

type combinedResponse struct {
	Transactions []transactionResponse   `json:"transactions"`
	Statistics   statisticsResponse      `json:"statistics"`
	BarChart     []rangeCountResponse    `json:"barChart"`
	PieChart     []categoryCountResponse `json:"pieChart"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Title:       tx.Title,
		Description: tx.Description,
		Price:       tx.Price.InexactFloat64(),
		Category:    tx.Category,
		DateOfSale:  tx.DateOfSale,
		Sold:        tx.Sold,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toStatisticsResponse(s transaction.Statistics) statisticsResponse {
	return statisticsResponse{
		TotalSaleAmount:   s.TotalSaleAmount.InexactFloat64(),
		TotalSoldItems:    s.TotalSoldItems,
		TotalNotSoldItems: s.TotalNotSoldItems,
	}
}

func toBarChartResponse(counts []transaction.RangeCount) []rangeCountResponse {
	resp := make([]rangeCountResponse, len(counts))
	for i, c := range counts {
		resp[i] = rangeCountResponse{Range: c.Range, Count: c.Count}
	}

	return resp
}

func toPieChartResponse(counts []transaction.CategoryCount) []categoryCountResponse {
	resp := make([]categoryCountResponse, len(counts))
	for i, c := range counts {
		resp[i] = categoryCountResponse{Category: c.Category, Count: c.Count}
	}

	return resp
}
