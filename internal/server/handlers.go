package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rickgao/options-data/internal/model"
)

// QuoteReader serves persisted quotes to API consumers.
type QuoteReader interface {
	LatestQuotes(ctx context.Context) ([]model.QuoteRow, error)
	QuoteHistory(ctx context.Context, instrument string) ([]model.QuoteRow, error)
}

// Pinger reports backing store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler implements the read endpoints.
type Handler struct {
	quotes QuoteReader
	pinger Pinger
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(quotes QuoteReader, pinger Pinger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{quotes: quotes, pinger: pinger, logger: logger}
}

// LatestQuotes serves the newest row per instrument.
func (h *Handler) LatestQuotes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.quotes.LatestQuotes(r.Context())
	if err != nil {
		h.logger.Error("latest quotes query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rows == nil {
		rows = []model.QuoteRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// QuoteHistory serves all rows for one instrument in chronological order.
func (h *Handler) QuoteHistory(w http.ResponseWriter, r *http.Request) {
	instrument := r.URL.Query().Get("instrument")
	if instrument == "" {
		writeError(w, http.StatusBadRequest, "Missing instrument parameter")
		return
	}

	rows, err := h.quotes.QuoteHistory(r.Context(), instrument)
	if err != nil {
		h.logger.Error("quote history query failed", "instrument", instrument, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "No data found for instrument")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Health reports process and database liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "up"}
	code := http.StatusOK

	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
