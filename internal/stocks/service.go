package stocks

import (
	"errors"
	"sort"
	"sync/atomic"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/common"
	"github.com/ternarybob/realticker/internal/models"
)

// ErrStockNotFound signals an unknown ticker. Handlers map it to 404.
var ErrStockNotFound = errors.New("stock not found")

// Supported top-N metrics. Anything else falls back to volume.
const (
	MetricVolume    = "volume"
	MetricGrowth    = "growth"
	MetricMarketCap = "market_cap"
)

// DefaultTopN is the entry cap for the top-N query.
const DefaultTopN = 10

// snapshot is an immutable view of the stock set. Handlers read whichever
// snapshot is current; a refresh swaps in a replacement wholesale.
type snapshot struct {
	ordered  []*models.StockRecord
	byTicker map[string]*models.StockRecord
}

func newSnapshot(records []*models.StockRecord) *snapshot {
	byTicker := make(map[string]*models.StockRecord, len(records))
	for _, s := range records {
		byTicker[common.NormalizeTicker(s.Ticker)] = s
	}
	return &snapshot{
		ordered:  records,
		byTicker: byTicker,
	}
}

// Service answers top-N and history lookups over the normalized in-memory
// stock set.
type Service struct {
	store      *Store
	normalizer *Normalizer
	logger     arbor.ILogger
	current    atomic.Pointer[snapshot]
}

// NewService wires the store and normalizer together. Call Load before
// serving requests.
func NewService(store *Store, normalizer *Normalizer, logger arbor.ILogger) *Service {
	svc := &Service{
		store:      store,
		normalizer: normalizer,
		logger:     logger,
	}
	svc.current.Store(newSnapshot(nil))
	return svc
}

// Load reads the persisted stock set, normalizes every record, and
// persists the collection when anything was regenerated. Persistence
// failure is logged but does not prevent startup; the in-memory set stays
// authoritative for the process lifetime.
func (s *Service) Load() error {
	records := s.store.Load()

	if s.normalizer.Normalize(records) {
		if err := s.store.Save(records); err != nil {
			s.logger.Error().
				Err(err).
				Str("path", s.store.Path()).
				Msg("Failed to persist normalized stock set, continuing with in-memory state")
		}
	}

	s.current.Store(newSnapshot(records))

	s.logger.Info().
		Int("stocks", len(records)).
		Msg("Stock set ready")

	return nil
}

// Refresh re-runs normalization against a deep copy of the current
// snapshot and atomically swaps it in when anything regenerated. In-flight
// requests keep reading the snapshot they started with.
func (s *Service) Refresh() {
	snap := s.current.Load()
	records := make([]*models.StockRecord, len(snap.ordered))
	for i, rec := range snap.ordered {
		records[i] = rec.Clone()
	}

	if !s.normalizer.Normalize(records) {
		s.logger.Debug().Msg("Refresh found no stale histories")
		return
	}

	if err := s.store.Save(records); err != nil {
		s.logger.Error().
			Err(err).
			Msg("Failed to persist refreshed stock set, continuing with in-memory state")
	}

	s.current.Store(newSnapshot(records))
	s.logger.Info().Int("stocks", len(records)).Msg("Stock set refreshed")
}

// Count returns the number of stocks in the current snapshot.
func (s *Service) Count() int {
	return len(s.current.Load().ordered)
}

// TopN returns up to n stocks sorted descending by the requested metric.
// The sort is stable, so ties keep their stored order. An unrecognized
// metric silently falls back to volume.
func (s *Service) TopN(metric string, n int) []models.StockSummary {
	snap := s.current.Load()

	var value func(*models.StockRecord) float64
	switch metric {
	case MetricGrowth:
		value = growth
	case MetricMarketCap:
		value = func(rec *models.StockRecord) float64 { return float64(rec.MarketCap) }
	default:
		value = func(rec *models.StockRecord) float64 { return float64(rec.Volume) }
	}

	ordered := make([]*models.StockRecord, len(snap.ordered))
	copy(ordered, snap.ordered)
	sort.SliceStable(ordered, func(i, j int) bool {
		return value(ordered[i]) > value(ordered[j])
	})

	if n > len(ordered) {
		n = len(ordered)
	}
	summaries := make([]models.StockSummary, 0, n)
	for _, rec := range ordered[:n] {
		summaries = append(summaries, rec.Summary())
	}
	return summaries
}

// HistoryByTicker returns the full price history for a ticker. Lookup is
// case-insensitive.
func (s *Service) HistoryByTicker(ticker string) ([]models.HistoryPoint, error) {
	rec, err := s.get(ticker)
	if err != nil {
		return nil, err
	}
	return rec.History, nil
}

// Get returns the full record for a ticker. Lookup is case-insensitive.
func (s *Service) Get(ticker string) (*models.StockRecord, error) {
	return s.get(ticker)
}

func (s *Service) get(ticker string) (*models.StockRecord, error) {
	snap := s.current.Load()
	rec, ok := snap.byTicker[common.NormalizeTicker(ticker)]
	if !ok {
		return nil, ErrStockNotFound
	}
	return rec, nil
}

// growth is percent-free relative change from first to last history point.
// Empty history or a zero first price ranks as 0.
func growth(rec *models.StockRecord) float64 {
	if len(rec.History) == 0 {
		return 0
	}
	first := rec.History[0].Price
	if first == 0 {
		return 0
	}
	last := rec.History[len(rec.History)-1].Price
	return (last - first) / first
}
