package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/services/advisor"
	"github.com/ternarybob/realticker/internal/stocks"
)

// StockHandler serves the stock query and analysis endpoints.
type StockHandler struct {
	stocks  *stocks.Service
	advisor *advisor.Service
	logger  arbor.ILogger
}

// NewStockHandler creates a handler over the stock and advisor services.
func NewStockHandler(stockService *stocks.Service, advisorService *advisor.Service, logger arbor.ILogger) *StockHandler {
	return &StockHandler{
		stocks:  stockService,
		advisor: advisorService,
		logger:  logger,
	}
}

// Top10Handler handles GET /api/stocks/top10?by={volume|growth|market_cap}.
// An unrecognized metric falls back to volume.
func (h *StockHandler) Top10Handler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	by := strings.ToLower(r.URL.Query().Get("by"))
	if by == "" {
		by = stocks.MetricVolume
	}

	WriteJSON(w, http.StatusOK, h.stocks.TopN(by, stocks.DefaultTopN))
}

// HistoryHandler handles GET /api/stocks/{ticker}/history.
func (h *StockHandler) HistoryHandler(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rec, err := h.stocks.Get(ticker)
	if err != nil {
		if errors.Is(err, stocks.ErrStockNotFound) {
			WriteError(w, http.StatusNotFound, "Stock not found")
			return
		}
		h.logger.Error().Str("ticker", ticker).Err(err).Msg("History lookup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  rec.Ticker,
		"history": rec.History,
	})
}

// AnalyzeHandler handles POST /api/stocks/{ticker}/analyze. External
// failures never surface here; the advisor substitutes the heuristic.
func (h *StockHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.advisor.Analyze(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, stocks.ErrStockNotFound) {
			WriteError(w, http.StatusNotFound, "Stock not found")
			return
		}
		h.logger.Error().Str("ticker", ticker).Err(err).Msg("Analysis failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
