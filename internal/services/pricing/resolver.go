// Package pricing resolves current and historical prices, consulting the
// durable price cache before any external provider.
package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/marketcal"
)

// Resolver fetches current prices for many tickers at once. Each distinct
// ticker is fetched exactly once per call regardless of how many positions
// reference it.
type Resolver struct {
	quotes      interfaces.QuoteClient
	cache       interfaces.PriceStore
	calendar    *marketcal.Calendar
	logger      *common.Logger
	batchSize   int
	concurrency int
	timeout     time.Duration
}

func NewResolver(quotes interfaces.QuoteClient, cache interfaces.PriceStore, calendar *marketcal.Calendar, logger *common.Logger, config *common.PricingConfig) *Resolver {
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 20
	}

	return &Resolver{
		quotes:      quotes,
		cache:       cache,
		calendar:    calendar,
		logger:      logger,
		batchSize:   batchSize,
		concurrency: concurrency,
		timeout:     config.GetFetchTimeout(),
	}
}

// Resolve returns one entry per requested ticker. A ticker whose live and
// cached lookups both fail maps to nil, never to a missing key, so callers
// can range over their positions without existence checks.
func (r *Resolver) Resolve(ctx context.Context, tickers []string) map[string]*float64 {
	results := make(map[string]*float64, len(tickers))

	// Dedupe while preserving first-seen order.
	var distinct []string
	for _, ticker := range tickers {
		normalized := models.NormalizeTicker(ticker)
		if normalized == "" {
			continue
		}
		if _, seen := results[normalized]; !seen {
			results[normalized] = nil
			distinct = append(distinct, normalized)
		}
	}

	marketOpen := r.calendar.IsOpenNow()

	var mu sync.Mutex
	for start := 0; start < len(distinct); start += r.batchSize {
		end := start + r.batchSize
		if end > len(distinct) {
			end = len(distinct)
		}
		batch := distinct[start:end]

		var wg sync.WaitGroup
		semaphore := make(chan struct{}, r.concurrency)

		for _, ticker := range batch {
			wg.Add(1)
			go func(ticker string) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				price := r.resolveOne(ctx, ticker, marketOpen)

				mu.Lock()
				results[ticker] = price
				mu.Unlock()
			}(ticker)
		}

		wg.Wait()
	}

	return results
}

// resolveOne tries live and cached lookups in calendar order: live first
// while the market is open, cache first while it is closed. Both failing
// yields nil.
func (r *Resolver) resolveOne(ctx context.Context, ticker string, marketOpen bool) *float64 {
	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if marketOpen {
		if price := r.live(fetchCtx, ticker); price != nil {
			return price
		}
		return r.cached(fetchCtx, ticker)
	}

	if price := r.cached(fetchCtx, ticker); price != nil {
		return price
	}
	return r.live(fetchCtx, ticker)
}

func (r *Resolver) live(ctx context.Context, ticker string) *float64 {
	quote, err := r.quotes.GetQuote(ctx, ticker)
	if err != nil {
		r.logger.Debug().Err(err).Str("ticker", ticker).Msg("Live quote unavailable")
		return nil
	}
	price := quote.Current
	return &price
}

func (r *Resolver) cached(ctx context.Context, ticker string) *float64 {
	latest, err := r.cache.GetLatest(ctx, ticker)
	if err != nil || latest == nil {
		return nil
	}
	price := latest.Close
	return &price
}

var _ interfaces.PriceResolver = (*Resolver)(nil)
