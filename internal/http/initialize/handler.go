package initialize

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salesboard/salesboard/internal/importer"
)

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/initialize", h.initialize)
}

func (h *Handler) initialize(w http.ResponseWriter, r *http.Request) {
	if _, err := h.importSvc.Initialize(r.Context()); err != nil {
		slog.Error("failed to initialize dataset", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("Database initialized successfully!")); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
