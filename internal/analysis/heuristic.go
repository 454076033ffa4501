// Package analysis derives trend and risk classifications from a price series.
package analysis

import (
	"fmt"

	"github.com/ternarybob/realticker/internal/models"
)

// Trend labels.
const (
	TrendUpward   = "Upward"
	TrendDownward = "Downward"
	TrendSideways = "Sideways"
)

// Risk labels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Suggested actions.
const (
	ActionLongTerm  = "Long-term investment"
	ActionShortTerm = "Short-term watch"
	ActionAvoid     = "Avoid"
)

// Trend requires more than a 5% move from first to last point.
const trendThresholdPct = 5.0

// Relative volatility (population stddev / mean) risk bands.
const (
	lowRiskRelVol    = 0.02
	mediumRiskRelVol = 0.06
)

// Result is a deterministic classification of a price series.
type Result struct {
	Trend           string
	RiskLevel       string
	SuggestedAction string
	Explanation     string
}

// Analyze classifies a price history by overall percent move and relative
// volatility. The same history always yields the same result; the
// explanation embeds the rounded metrics it was derived from.
func Analyze(history []models.HistoryPoint) Result {
	prices := make([]float64, len(history))
	for i, p := range history {
		prices[i] = p.Price
	}

	var pct float64
	if len(prices) > 0 {
		pct = pctChange(prices[0], prices[len(prices)-1])
	}

	trend := TrendSideways
	switch {
	case pct > trendThresholdPct:
		trend = TrendUpward
	case pct < -trendThresholdPct:
		trend = TrendDownward
	}

	mean := avg(prices)
	if mean == 0 {
		mean = 1
	}
	relVol := pstdev(prices) / mean

	risk := RiskHigh
	switch {
	case relVol < lowRiskRelVol:
		risk = RiskLow
	case relVol < mediumRiskRelVol:
		risk = RiskMedium
	}

	action := ActionShortTerm
	if trend == TrendUpward && risk != RiskHigh {
		action = ActionLongTerm
	} else if risk == RiskHigh && trend == TrendDownward {
		action = ActionAvoid
	}

	return Result{
		Trend:           trend,
		RiskLevel:       risk,
		SuggestedAction: action,
		Explanation: fmt.Sprintf("Price changed %v%% over 6 months. Volatility metric %v.",
			round(pct, 2), round(relVol, 4)),
	}
}
