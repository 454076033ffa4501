// Package app wires the application's services and handlers together.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/common"
	"github.com/ternarybob/realticker/internal/handlers"
	"github.com/ternarybob/realticker/internal/services/advisor"
	"github.com/ternarybob/realticker/internal/services/llm"
	"github.com/ternarybob/realticker/internal/services/scheduler"
	"github.com/ternarybob/realticker/internal/stocks"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Stock set (store + normalizer + query service)
	StockStore   *stocks.Store
	StockService *stocks.Service

	// Analysis
	Generator      llm.Generator // nil when no credential is configured
	AdvisorService *advisor.Service

	// Optional scheduled refresh
	RefreshScheduler *scheduler.Service

	// HTTP handlers
	APIHandler   *handlers.APIHandler
	StockHandler *handlers.StockHandler
}

// New initializes the application. Startup order is fixed: load the stock
// set, normalize it (persisting when stale histories were regenerated),
// then construct the services and handlers that read it.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	endDate, err := config.Stocks.EndDateTime()
	if err != nil {
		return nil, fmt.Errorf("invalid stocks.end_date: %w", err)
	}

	store := stocks.NewStore(config.Stocks.DataFile, logger)
	normalizer := stocks.NewNormalizer(config.Stocks.HistoryDays, endDate, nil, logger)
	stockService := stocks.NewService(store, normalizer, logger)

	if err := stockService.Load(); err != nil {
		return nil, fmt.Errorf("failed to load stock set: %w", err)
	}

	generator, err := llm.NewFromConfig(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text-generation provider: %w", err)
	}
	if generator == nil {
		logger.Info().Msg("No text-generation credential configured, analyze endpoint uses heuristic only")
	} else {
		logger.Info().Str("provider", generator.Name()).Msg("Text-generation provider configured")
	}

	advisorService := advisor.NewService(stockService, generator, logger)

	application := &App{
		Config:         config,
		Logger:         logger,
		StockStore:     store,
		StockService:   stockService,
		Generator:      generator,
		AdvisorService: advisorService,
		APIHandler:     handlers.NewAPIHandler(),
		StockHandler:   handlers.NewStockHandler(stockService, advisorService, logger),
	}

	if config.Refresh.Enabled {
		application.RefreshScheduler = scheduler.NewService(stockService, logger)
		if err := application.RefreshScheduler.Start(config.Refresh.Schedule); err != nil {
			return nil, fmt.Errorf("failed to start refresh scheduler: %w", err)
		}
	}

	return application, nil
}

// Close stops background work. Safe to call on a partially built app.
func (a *App) Close() {
	if a.RefreshScheduler != nil {
		a.RefreshScheduler.Stop()
	}
}
