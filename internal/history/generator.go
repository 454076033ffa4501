// Package history generates synthetic random-walk price series for mock stocks.
package history

import (
	"math"
	"math/rand"
	"time"

	"github.com/ternarybob/realticker/internal/models"
)

const (
	// baseline is the starting value of the raw walk before scaling.
	baseline = 100.0

	// minWalkValue floors the walk so a run of down days cannot drive the
	// series to zero and break the final scaling step.
	minWalkValue = 1.0

	// Daily multiplicative change is drawn uniformly from [minDailyChange, maxDailyChange].
	minDailyChange = -0.015
	maxDailyChange = 0.02
)

// Generate produces a price history of exactly days points ending at endDate.
// The raw walk is scaled so the final point equals endPrice while the
// relative shape of the walk is preserved. Dates count back one calendar day
// per point, so the first point falls days-1 days before endDate.
//
// The result is a pure function of the inputs and the supplied rand source.
// A nil rnd falls back to the shared global source.
func Generate(rnd *rand.Rand, days int, endPrice float64, endDate time.Time) []models.HistoryPoint {
	if days <= 0 {
		return nil
	}

	uniform := rand.Float64
	if rnd != nil {
		uniform = rnd.Float64
	}

	vals := make([]float64, days)
	value := baseline
	for i := range vals {
		changePct := minDailyChange + uniform()*(maxDailyChange-minDailyChange)
		value = math.Max(minWalkValue, value*(1+changePct))
		vals[i] = value
	}

	scale := 1.0
	if last := vals[days-1]; last != 0 {
		scale = endPrice / last
	}

	points := make([]models.HistoryPoint, days)
	for i, v := range vals {
		d := endDate.AddDate(0, 0, -(days - 1 - i))
		points[i] = models.HistoryPoint{
			Date:  d.Format(models.DateFormat),
			Price: round2(v * scale),
		}
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
