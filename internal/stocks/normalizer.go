package stocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/history"
	"github.com/ternarybob/realticker/internal/models"
)

// Fallback ranges for records missing market fields.
const (
	minFallbackPrice = 10.0
	maxFallbackPrice = 500.0

	minVolume = 5_000_000
	maxVolume = 200_000_000

	minMarketCap = 10_000_000_000
	maxMarketCap = 2_000_000_000_000
)

// Normalizer guarantees every stock record carries a complete,
// date-continuous history of the configured window ending at the target
// end date, with price, change, volume and market cap derived from it.
type Normalizer struct {
	days    int
	endDate time.Time
	rnd     *rand.Rand
	logger  arbor.ILogger
}

// NewNormalizer creates a normalizer targeting the given window and end
// date. A nil rnd falls back to the shared global source; tests pass a
// seeded one.
func NewNormalizer(days int, endDate time.Time, rnd *rand.Rand, logger arbor.ILogger) *Normalizer {
	return &Normalizer{
		days:    days,
		endDate: endDate,
		rnd:     rnd,
		logger:  logger,
	}
}

// Normalize regenerates stale or incomplete histories in place and
// recomputes the derived fields of each regenerated record. Returns true
// when any record changed, in which case the caller should persist the
// collection. Running it again on the result is a no-op.
func (n *Normalizer) Normalize(records []*models.StockRecord) bool {
	updated := false
	for _, s := range records {
		if !n.needsRegeneration(s) {
			continue
		}

		endPrice := s.Price
		if endPrice == 0 {
			endPrice = s.LastPrice()
		}
		if endPrice == 0 {
			endPrice = round2(minFallbackPrice + n.float64()*(maxFallbackPrice-minFallbackPrice))
		}

		s.History = history.Generate(n.rnd, n.days, endPrice, n.endDate)
		s.Price = s.LastPrice()
		s.Change = changeFromHistory(s.History)

		// Backfill only when absent so hand-curated values survive.
		if s.Volume == 0 {
			s.Volume = n.int64InRange(minVolume, maxVolume)
		}
		if s.MarketCap == 0 {
			s.MarketCap = n.int64InRange(minMarketCap, maxMarketCap)
		}

		n.logger.Debug().
			Str("ticker", s.Ticker).
			Int("days", n.days).
			Float64("end_price", endPrice).
			Msg("Regenerated stock history")

		updated = true
	}
	return updated
}

// needsRegeneration reports whether the record's history is missing, too
// short, stale, or carries an unparsable last date.
func (n *Normalizer) needsRegeneration(s *models.StockRecord) bool {
	if len(s.History) < n.days {
		return true
	}

	lastDate, err := s.History[len(s.History)-1].ParseDate()
	if err != nil {
		// Unparsable dates are treated as stale rather than fatal.
		n.logger.Warn().
			Str("ticker", s.Ticker).
			Str("date", s.History[len(s.History)-1].Date).
			Msg("Unparsable history date, regenerating")
		return true
	}

	return lastDate.Before(n.endDate)
}

// changeFromHistory computes the day-over-day percent change from the last
// two points, rounded to 2 decimals. Under 2 points, or a zero prior
// price, yields 0.
func changeFromHistory(points []models.HistoryPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	last := points[len(points)-1].Price
	prev := points[len(points)-2].Price
	if prev == 0 {
		return 0
	}
	return round2((last - prev) / prev * 100)
}

func (n *Normalizer) float64() float64 {
	if n.rnd != nil {
		return n.rnd.Float64()
	}
	return rand.Float64()
}

func (n *Normalizer) int64InRange(min, max int64) int64 {
	if n.rnd != nil {
		return min + n.rnd.Int63n(max-min+1)
	}
	return min + rand.Int63n(max-min+1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
