package models

import "time"

// DateFormat is the calendar-date layout used for history points.
const DateFormat = "2006-01-02"

// HistoryPoint is a single day in a stock's price history.
type HistoryPoint struct {
	Date  string  `json:"date"`  // ISO calendar date (2006-01-02)
	Price float64 `json:"price"` // positive, 2 decimal places
}

// ParseDate parses the point's date. Returns an error when the stored
// string is not a valid calendar date.
func (p HistoryPoint) ParseDate() (time.Time, error) {
	return time.Parse(DateFormat, p.Date)
}

// StockRecord is a mock stock with its full synthetic price history.
// History is chronological with exactly one entry per calendar day.
type StockRecord struct {
	Ticker    string         `json:"ticker"`  // unique uppercase symbol
	Company   string         `json:"company"` // display name
	Price     float64        `json:"price"`   // equals last history point
	Change    float64        `json:"change"`  // percent vs prior point, 2dp
	Volume    int64          `json:"volume"`
	MarketCap int64          `json:"market_cap"`
	History   []HistoryPoint `json:"history"`
}

// LastPrice returns the price of the most recent history point, or 0 when
// the stock has no history.
func (s *StockRecord) LastPrice() float64 {
	if len(s.History) == 0 {
		return 0
	}
	return s.History[len(s.History)-1].Price
}

// Prices returns the raw price series in chronological order.
func (s *StockRecord) Prices() []float64 {
	prices := make([]float64, len(s.History))
	for i, p := range s.History {
		prices[i] = p.Price
	}
	return prices
}

// Clone returns a deep copy of the record. Used when a refresh pass needs
// to mutate records without touching the snapshot handlers are reading.
func (s *StockRecord) Clone() *StockRecord {
	clone := *s
	clone.History = make([]HistoryPoint, len(s.History))
	copy(clone.History, s.History)
	return &clone
}

// StockSummary is the projection returned by the top-N query.
type StockSummary struct {
	Ticker    string  `json:"ticker"`
	Company   string  `json:"company"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	Volume    int64   `json:"volume"`
	MarketCap int64   `json:"market_cap"`
}

// Summary projects the record to its top-N response shape.
func (s *StockRecord) Summary() StockSummary {
	return StockSummary{
		Ticker:    s.Ticker,
		Company:   s.Company,
		Price:     s.Price,
		Change:    s.Change,
		Volume:    s.Volume,
		MarketCap: s.MarketCap,
	}
}

// StockFile is the persisted flat-file document holding the full stock set.
type StockFile struct {
	Stocks []*StockRecord `json:"stocks"`
}

// Analysis is the trend/risk classification returned by the analyze endpoint.
type Analysis struct {
	Ticker          string `json:"ticker"`
	Trend           string `json:"trend"`            // Upward, Downward, Sideways
	RiskLevel       string `json:"risk_level"`       // Low, Medium, High
	SuggestedAction string `json:"suggested_action"` // Long-term investment, Short-term watch, Avoid
	Explanation     string `json:"explanation"`
	Disclaimer      string `json:"disclaimer"`
}
