package analysis

import (
	"strconv"
	"testing"

	"github.com/ternarybob/realticker/internal/models"
)

func historyFromPrices(prices []float64) []models.HistoryPoint {
	points := make([]models.HistoryPoint, len(prices))
	for i, p := range prices {
		points[i] = models.HistoryPoint{
			Date:  "2026-01-" + strconv.Itoa(i+1),
			Price: p,
		}
	}
	return points
}

func TestAnalyze_Trend(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   string
	}{
		{"clear upward", []float64{100, 102, 104, 108}, TrendUpward},
		{"clear downward", []float64{100, 101, 103, 95, 90}, TrendDownward},
		{"flat", []float64{100, 100, 100}, TrendSideways},
		{"just under upward threshold", []float64{100, 105}, TrendSideways},
		{"just over upward threshold", []float64{100, 105.1}, TrendUpward},
		{"just under downward threshold", []float64{100, 95}, TrendSideways},
		{"just over downward threshold", []float64{100, 94.9}, TrendDownward},
		{"zero first price", []float64{0, 50}, TrendSideways},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(historyFromPrices(tt.prices))
			if got.Trend != tt.want {
				t.Errorf("Analyze(%v).Trend = %s, want %s", tt.prices, got.Trend, tt.want)
			}
		})
	}
}

func TestAnalyze_Risk(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   string
	}{
		// pstdev/mean below 0.02
		{"low volatility", []float64{100, 100.5, 100, 100.5}, RiskLow},
		// between 0.02 and 0.06
		{"medium volatility", []float64{100, 104, 96, 104}, RiskMedium},
		// above 0.06
		{"high volatility", []float64{100, 130, 70, 130}, RiskHigh},
		{"single point has zero deviation", []float64{100}, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(historyFromPrices(tt.prices))
			if got.RiskLevel != tt.want {
				t.Errorf("Analyze(%v).RiskLevel = %s, want %s", tt.prices, got.RiskLevel, tt.want)
			}
		})
	}
}

func TestAnalyze_SuggestedAction(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   string
	}{
		{"upward low risk favors long term", []float64{100, 101, 103, 106}, ActionLongTerm},
		{"downward high risk is avoided", []float64{130, 100, 160, 70}, ActionAvoid},
		{"sideways defaults to watch", []float64{100, 100, 100}, ActionShortTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(historyFromPrices(tt.prices))
			if got.SuggestedAction != tt.want {
				t.Errorf("Analyze(%v).SuggestedAction = %s, want %s", tt.prices, got.SuggestedAction, tt.want)
			}
		})
	}
}

func TestAnalyze_KnownExample(t *testing.T) {
	// First 100, last 90: a -10% move is a downward trend.
	got := Analyze(historyFromPrices([]float64{100, 101, 103, 95, 90}))

	if got.Trend != TrendDownward {
		t.Errorf("Trend = %s, want %s", got.Trend, TrendDownward)
	}
	if got.Explanation == "" {
		t.Error("Explanation is empty")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	prices := []float64{100, 101, 103, 95, 90}
	a := Analyze(historyFromPrices(prices))
	b := Analyze(historyFromPrices(prices))

	if a != b {
		t.Errorf("same history produced different results: %+v vs %+v", a, b)
	}
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	got := Analyze(nil)

	if got.Trend != TrendSideways {
		t.Errorf("Trend = %s, want %s", got.Trend, TrendSideways)
	}
	if got.RiskLevel != RiskLow {
		t.Errorf("RiskLevel = %s, want %s", got.RiskLevel, RiskLow)
	}
}
