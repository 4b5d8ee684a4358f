// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// Each provider capability is independently optional: a missing credential or
// an unavailable provider is a valid, non-fatal runtime state surfaced as
// models.ErrNotConfigured.

// QuoteClient provides live quotes.
type QuoteClient interface {
	// GetQuote retrieves a live quote. A zero or absent current price is
	// reported as models.ErrNoData, never as a valid quote.
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

// HistoryClient provides historical daily close bars. The first-load and
// incremental-sync providers may differ, so callers hold separate references
// even when one concrete client serves both.
type HistoryClient interface {
	// GetHistory retrieves daily closes in [from, to], ascending by date.
	GetHistory(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error)
}

// NewsClient provides company news.
type NewsClient interface {
	// GetNews retrieves news items published in [from, to].
	GetNews(ctx context.Context, ticker string, from, to time.Time) ([]*models.NewsItem, error)
}
