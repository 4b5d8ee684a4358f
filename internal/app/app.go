// Package app wires configuration, storage, clients and services together.
package app

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/clients/finnhub"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/marketcal"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/services/pricing"
	"github.com/bobmcallan/folio/internal/session"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// App holds all initialized components.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	Sessions interfaces.SessionManager
	Calendar *marketcal.Calendar

	Users      interfaces.UserService
	Portfolios interfaces.PortfolioService
	Metrics    interfaces.MetricsService
	Resolver   interfaces.PriceResolver
	Quotes     interfaces.QuoteService
	History    interfaces.HistoryService
	News       interfaces.NewsService

	scheduler *Scheduler
}

// New creates a fully wired application.
func New(config *common.Config, logger *common.Logger) (*App, error) {
	storage, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	finnhubConfig := config.Clients.Finnhub
	client := finnhub.NewClient(finnhubConfig.APIKey,
		finnhub.WithBaseURL(finnhubConfig.BaseURL),
		finnhub.WithRateLimit(finnhubConfig.RateLimit),
		finnhub.WithTimeout(finnhubConfig.GetTimeout()),
		finnhub.WithLogger(logger),
	)
	if finnhubConfig.APIKey == "" {
		logger.Warn().Msg("Finnhub API key not configured, live market data disabled")
	}

	calendar := marketcal.New()
	sessions := session.NewManager(session.NewMemoryStore(), config.Auth.GetSessionLifetime(), logger)

	resolver := pricing.NewResolver(client, storage.PriceStore(), calendar, logger, &config.Pricing)
	quotes := pricing.NewQuoteService(client, storage.PriceStore(), logger)
	history := pricing.NewHistoryService(client, storage.PriceStore(), logger)
	news := pricing.NewNewsService(client, logger)

	users := portfolio.NewUserService(storage.UserStore(), storage.PortfolioStore(), logger)
	portfolios := portfolio.NewService(storage.PortfolioStore(), storage.MetricsStore(), logger)
	metrics := portfolio.NewMetricsService(storage.PortfolioStore(), storage.MetricsStore(), resolver, logger)

	a := &App{
		Config:     config,
		Logger:     logger,
		Storage:    storage,
		Sessions:   sessions,
		Calendar:   calendar,
		Users:      users,
		Portfolios: portfolios,
		Metrics:    metrics,
		Resolver:   resolver,
		Quotes:     quotes,
		History:    history,
		News:       news,
	}

	a.scheduler = NewScheduler(a)

	return a, nil
}

// StartScheduler starts the background jobs.
func (a *App) StartScheduler() error {
	return a.scheduler.Start()
}

// Close shuts down background jobs and storage.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}

// MarketDataConfigured reports whether the live data provider has credentials.
func (a *App) MarketDataConfigured() bool {
	return a.Config.Clients.Finnhub.APIKey != ""
}
