package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/salesboard/salesboard/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.list)
	r.Get("/statistics", h.statistics)
	r.Get("/bar-chart", h.barChart)
	r.Get("/pie-chart", h.pieChart)
	r.Get("/combined", h.combined)
}

// list does not range check the month: an out-of-range month yields an empty page.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := transaction.ListParams{
		Filter:  transaction.BuildFilter(q.Get("month"), q.Get("search")),
		Page:    intParam(q.Get("page"), transaction.DefaultPage),
		PerPage: intParam(q.Get("perPage"), transaction.DefaultPerPage),
	}

	page, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Transactions: toResponseList(page.Items),
		Count:        page.Total,
	})
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	month, err := transaction.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.svc.Statistics(r.Context(), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatisticsResponse(*stats))
}

func (h *Handler) barChart(w http.ResponseWriter, r *http.Request) {
	month, err := transaction.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	counts, err := h.svc.PriceHistogram(r.Context(), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBarChartResponse(counts))
}

func (h *Handler) pieChart(w http.ResponseWriter, r *http.Request) {
	month, err := transaction.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	counts, err := h.svc.CategoryDistribution(r.Context(), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPieChartResponse(counts))
}

func (h *Handler) combined(w http.ResponseWriter, r *http.Request) {
	month, err := transaction.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.svc.Combined(r.Context(), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, combinedResponse{
		Transactions: toResponseList(view.Transactions),
		Statistics:   toStatisticsResponse(view.Statistics),
		BarChart:     toBarChartResponse(view.BarChart),
		PieChart:     toPieChartResponse(view.PieChart),
	})
}

// intParam parses a positive integer query value, falling back to def.
func intParam(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}

	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, transaction.ErrInvalidMonth) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid month parameter"})
		return
	}

	slog.Error("request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
