package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// HistoryService serves daily close history. The cache is authoritative for
// whatever it holds; gaps past the last synced day are filled from the
// provider and written back, so each day is fetched from the provider at
// most once.
type HistoryService struct {
	provider interfaces.HistoryClient
	cache    interfaces.PriceStore
	logger   *common.Logger
}

func NewHistoryService(provider interfaces.HistoryClient, cache interfaces.PriceStore, logger *common.Logger) *HistoryService {
	return &HistoryService{
		provider: provider,
		cache:    cache,
		logger:   logger,
	}
}

func (s *HistoryService) GetHistory(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error) {
	normalized := models.NormalizeTicker(ticker)
	if normalized == "" {
		return nil, models.NewValidationError("ticker", "must not be empty")
	}
	if from.After(to) {
		return nil, models.NewValidationError("range", "from must not be after to")
	}

	if err := s.sync(ctx, normalized, from, to); err != nil {
		// A provider outage still serves whatever the cache holds.
		s.logger.Warn().Err(err).Str("ticker", normalized).Msg("History sync failed, serving cache only")
	}

	return s.cache.GetRange(ctx, normalized, from, to)
}

// sync tops the cache up through `to`. Only the span past the last synced
// day is requested from the provider.
func (s *HistoryService) sync(ctx context.Context, ticker string, from, to time.Time) error {
	fetchFrom := from

	lastSynced, err := s.cache.GetLatestSyncDate(ctx, ticker)
	if err != nil {
		return err
	}
	if lastSynced != nil {
		if !lastSynced.Before(to.Truncate(24 * time.Hour)) {
			return nil // cache already covers the range
		}
		next := lastSynced.AddDate(0, 0, 1)
		if next.After(fetchFrom) {
			fetchFrom = next
		}
	}

	points, err := s.provider.GetHistory(ctx, ticker, fetchFrom, to)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			return nil // nothing traded in the span, not a failure
		}
		return err
	}

	if err := s.cache.Upsert(ctx, ticker, points); err != nil {
		return err
	}

	s.logger.Debug().
		Str("ticker", ticker).
		Int("points", len(points)).
		Msg("Price history synced")
	return nil
}

var _ interfaces.HistoryService = (*HistoryService)(nil)
