package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ternarybob/realticker/internal/common"
	"github.com/ternarybob/realticker/internal/models"
	"github.com/ternarybob/realticker/internal/services/advisor"
	"github.com/ternarybob/realticker/internal/stocks"
)

func newTestHandler(t *testing.T) *StockHandler {
	t.Helper()

	end, err := time.Parse(models.DateFormat, "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}

	records := make([]*models.StockRecord, 0, 12)
	tickers := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "JPM", "V", "KO", "DIS", "XOM"}
	for i, ticker := range tickers {
		history := make([]models.HistoryPoint, 3)
		for j := range history {
			date := end.AddDate(0, 0, -(len(history) - 1 - j))
			history[j] = models.HistoryPoint{Date: date.Format(models.DateFormat), Price: 100 + float64(j)}
		}
		records = append(records, &models.StockRecord{
			Ticker:    ticker,
			Company:   ticker + " Inc.",
			Price:     102,
			Volume:    int64(1_000_000 * (i + 1)),
			MarketCap: int64(1_000_000_000 * (len(tickers) - i)),
			History:   history,
		})
	}

	store := stocks.NewStore(filepath.Join(t.TempDir(), "stocks.json"), common.GetLogger())
	if err := store.Save(records); err != nil {
		t.Fatal(err)
	}
	stockService := stocks.NewService(store, stocks.NewNormalizer(3, end, nil, common.GetLogger()), common.GetLogger())
	if err := stockService.Load(); err != nil {
		t.Fatal(err)
	}

	advisorService := advisor.NewService(stockService, nil, common.GetLogger())
	return NewStockHandler(stockService, advisorService, common.GetLogger())
}

func TestTop10Handler(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/stocks/top10", nil)
	w := httptest.NewRecorder()
	h.Top10Handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got []models.StockSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Fatalf("returned %d entries, want 10", len(got))
	}
	// Default metric is volume, descending.
	if got[0].Ticker != "XOM" {
		t.Errorf("top entry = %s, want XOM (highest volume)", got[0].Ticker)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Volume > got[i-1].Volume {
			t.Fatalf("entries not descending by volume at %d: %v > %v", i, got[i].Volume, got[i-1].Volume)
		}
	}
}

func TestTop10Handler_ByMarketCap(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/stocks/top10?by=MARKET_CAP", nil)
	w := httptest.NewRecorder()
	h.Top10Handler(w, req)

	var got []models.StockSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got[0].Ticker != "AAPL" {
		t.Errorf("top entry = %s, want AAPL (highest market cap)", got[0].Ticker)
	}
}

func TestTop10Handler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/stocks/top10", nil)
	w := httptest.NewRecorder()
	h.Top10Handler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHistoryHandler(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/stocks/aapl/history", nil)
	w := httptest.NewRecorder()
	h.HistoryHandler(w, req, "aapl")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got struct {
		Ticker  string                `json:"ticker"`
		History []models.HistoryPoint `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Ticker != "AAPL" {
		t.Errorf("ticker = %q, want canonical AAPL", got.Ticker)
	}
	if len(got.History) != 3 {
		t.Errorf("history length = %d, want 3", len(got.History))
	}
}

func TestHistoryHandler_NotFound(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/stocks/NOPE/history", nil)
	w := httptest.NewRecorder()
	h.HistoryHandler(w, req, "NOPE")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["error"] != "Stock not found" || got["status"] != "error" {
		t.Errorf("error body = %v", got)
	}
}

func TestAnalyzeHandler(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/stocks/MSFT/analyze", nil)
	w := httptest.NewRecorder()
	h.AnalyzeHandler(w, req, "MSFT")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got models.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Ticker != "MSFT" {
		t.Errorf("ticker = %q", got.Ticker)
	}
	if got.Trend == "" || got.RiskLevel == "" || got.SuggestedAction == "" {
		t.Errorf("incomplete classification: %+v", got)
	}
	if got.Disclaimer != advisor.Disclaimer {
		t.Errorf("disclaimer = %q", got.Disclaimer)
	}
}

func TestAnalyzeHandler_NotFound(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/stocks/NOPE/analyze", nil)
	w := httptest.NewRecorder()
	h.AnalyzeHandler(w, req, "NOPE")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/stocks/MSFT/analyze", nil)
	w := httptest.NewRecorder()
	h.AnalyzeHandler(w, req, "MSFT")

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
