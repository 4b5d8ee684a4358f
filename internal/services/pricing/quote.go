package pricing

import (
	"context"
	"errors"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// QuoteService serves single-ticker quotes. The live provider is tried first;
// a provider failure falls back to the most recent cached close so a stale
// price beats no price.
type QuoteService struct {
	quotes interfaces.QuoteClient
	cache  interfaces.PriceStore
	logger *common.Logger
}

func NewQuoteService(quotes interfaces.QuoteClient, cache interfaces.PriceStore, logger *common.Logger) *QuoteService {
	return &QuoteService{
		quotes: quotes,
		cache:  cache,
		logger: logger,
	}
}

func (s *QuoteService) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	normalized := models.NormalizeTicker(ticker)
	if normalized == "" {
		return nil, models.NewValidationError("ticker", "must not be empty")
	}

	quote, err := s.quotes.GetQuote(ctx, normalized)
	if err == nil {
		return quote, nil
	}

	// Missing credentials are a configuration state, not a transient outage.
	// Surface them so the handler can say "feature unavailable".
	if errors.Is(err, models.ErrNotConfigured) {
		return nil, err
	}

	latest, cacheErr := s.cache.GetLatest(ctx, normalized)
	if cacheErr != nil || latest == nil {
		return nil, err
	}

	s.logger.Debug().Str("ticker", normalized).Msg("Serving cached close as quote")
	fallback := models.NormalizeQuote(models.Quote{
		Ticker:    normalized,
		Current:   latest.Close,
		Timestamp: latest.Date,
	})
	return &fallback, nil
}

var _ interfaces.QuoteService = (*QuoteService)(nil)
