package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Stocks
	mux.HandleFunc("/api/stocks/top10", s.app.StockHandler.Top10Handler)
	mux.HandleFunc("/api/stocks/", s.handleStockRoutes) // GET /{ticker}/history, POST /{ticker}/analyze

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleStockRoutes routes /api/stocks/{ticker}/... requests to the
// appropriate handler.
func (s *Server) handleStockRoutes(w http.ResponseWriter, r *http.Request) {
	suffix := strings.TrimPrefix(r.URL.Path, "/api/stocks/")

	// GET /api/stocks/{ticker}/history
	if ticker, ok := strings.CutSuffix(suffix, "/history"); ok && ticker != "" {
		s.app.StockHandler.HistoryHandler(w, r, ticker)
		return
	}

	// POST /api/stocks/{ticker}/analyze
	if ticker, ok := strings.CutSuffix(suffix, "/analyze"); ok && ticker != "" {
		s.app.StockHandler.AnalyzeHandler(w, r, ticker)
		return
	}

	s.app.APIHandler.NotFoundHandler(w, r)
}
