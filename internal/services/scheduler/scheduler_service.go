// Package scheduler runs the optional cron-driven staleness refresh.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/stocks"
)

// Service re-runs stock normalization on a cron schedule. It is only
// started when refresh is enabled in config; the default deployment
// normalizes once at startup and never mutates the set again.
type Service struct {
	stocks  *stocks.Service
	cron    *cron.Cron
	logger  arbor.ILogger
	mu      sync.Mutex
	running bool
}

// NewService creates a refresh scheduler over the stock service.
func NewService(stockService *stocks.Service, logger arbor.ILogger) *Service {
	return &Service{
		stocks: stockService,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the refresh job and begins the cron loop.
func (s *Service) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("refresh scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = "0 6 * * *"
	}

	if _, err := s.cron.AddFunc(cronExpr, s.runRefresh); err != nil {
		return fmt.Errorf("failed to add refresh cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Stock refresh scheduler started")

	return nil
}

// Stop halts the cron loop, waiting for a running refresh to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Stock refresh scheduler stopped")
}

func (s *Service) runRefresh() {
	s.logger.Debug().Msg("Running scheduled stock refresh")
	s.stocks.Refresh()
}
