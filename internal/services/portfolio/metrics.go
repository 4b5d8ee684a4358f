package portfolio

import (
	"context"
	"errors"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/valuation"
)

// MetricsService maintains the materialized metrics row per portfolio.
// Reads return the cached row with its timestamp; recomputation happens on
// the refresh schedule or on demand, never implicitly mixed into reads.
type MetricsService struct {
	portfolios interfaces.PortfolioStore
	store      interfaces.MetricsStore
	resolver   interfaces.PriceResolver
	logger     *common.Logger
}

func NewMetricsService(portfolios interfaces.PortfolioStore, store interfaces.MetricsStore, resolver interfaces.PriceResolver, logger *common.Logger) *MetricsService {
	return &MetricsService{
		portfolios: portfolios,
		store:      store,
		resolver:   resolver,
		logger:     logger,
	}
}

// RefreshAll recomputes metrics for every portfolio in the system. Prices
// are resolved once across all portfolios, so a ticker held by fifty users
// still costs one lookup. Per-portfolio failures are logged and skipped.
func (s *MetricsService) RefreshAll(ctx context.Context) error {
	portfolios, err := s.portfolios.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(portfolios) == 0 {
		return nil
	}

	var tickers []string
	for _, p := range portfolios {
		tickers = append(tickers, p.Tickers()...)
	}
	prices := s.resolver.Resolve(ctx, tickers)

	refreshed := 0
	for _, p := range portfolios {
		row := s.build(p, prices, "scheduler")
		if err := s.store.Save(ctx, row); err != nil {
			s.logger.Warn().Err(err).Str("portfolio", p.ID).Msg("Failed to save refreshed metrics")
			continue
		}
		refreshed++
	}

	s.logger.Info().
		Int("portfolios", len(portfolios)).
		Int("refreshed", refreshed).
		Msg("Portfolio metrics refreshed")
	return nil
}

// RefreshPortfolio recomputes metrics for one owned portfolio.
func (s *MetricsService) RefreshPortfolio(ctx context.Context, userID, portfolioID string) (*models.PortfolioMetrics, error) {
	portfolio, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.UserID != userID {
		return nil, models.ErrNotFound
	}

	prices := s.resolver.Resolve(ctx, portfolio.Tickers())
	row := s.build(portfolio, prices, "user")
	if err := s.store.Save(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Get reads the cached row, computing it on first access. LastUpdated tells
// the caller how stale the numbers are.
func (s *MetricsService) Get(ctx context.Context, userID, portfolioID string) (*models.PortfolioMetrics, error) {
	portfolio, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.UserID != userID {
		return nil, models.ErrNotFound
	}

	row, err := s.store.Get(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return s.RefreshPortfolio(ctx, userID, portfolioID)
		}
		return nil, err
	}
	return row, nil
}

func (s *MetricsService) build(portfolio *models.Portfolio, prices map[string]*float64, updatedBy string) *models.PortfolioMetrics {
	m := valuation.Compute(portfolio.Positions, prices)
	return &models.PortfolioMetrics{
		PortfolioID:      portfolio.ID,
		TotalValue:       valuation.Round2(m.TotalValue),
		TotalInvested:    valuation.Round2(m.TotalInvested),
		GainLoss:         valuation.Round2(m.GainLoss),
		ReturnPercentage: valuation.Round2(m.ReturnPercentage),
		LastUpdated:      time.Now().UTC(),
		UpdatedBy:        updatedBy,
	}
}

var _ interfaces.MetricsService = (*MetricsService)(nil)
