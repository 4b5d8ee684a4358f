package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	UserStore() UserStore
	PortfolioStore() PortfolioStore
	PriceStore() PriceStore
	MetricsStore() MetricsStore

	// Lifecycle
	Close() error
}

// UserStore manages credential identities.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

// PortfolioStore persists portfolio records. Ownership checks live in the
// portfolio service, not here; the store only provides user-scoped reads.
type PortfolioStore interface {
	Get(ctx context.Context, portfolioID string) (*models.Portfolio, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Portfolio, error)
	ListAll(ctx context.Context) ([]*models.Portfolio, error)
	Save(ctx context.Context, portfolio *models.Portfolio) error
	Delete(ctx context.Context, portfolioID string) error
}

// PriceStore is the durable (ticker, date) → close cache consulted before any
// external provider. Reads degrade to "no cached data" on failure; Upsert is
// idempotent: re-inserting an existing (ticker, date) succeeds silently.
type PriceStore interface {
	// GetRange returns cached closes in [from, to] ascending by date.
	// An empty slice is a normal result, not an error.
	GetRange(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error)

	// GetLatest returns the most recent cached close, or nil when nothing
	// is cached for the ticker.
	GetLatest(ctx context.Context, ticker string) (*models.PricePoint, error)

	// GetLatestSyncDate returns the date of the most recent cached close,
	// or nil when the ticker has never been synced.
	GetLatestSyncDate(ctx context.Context, ticker string) (*time.Time, error)

	// Upsert stores the points, silently skipping duplicates.
	Upsert(ctx context.Context, ticker string, points []models.PricePoint) error

	// PurgeTicker removes all cached points for a ticker, returning the count.
	PurgeTicker(ctx context.Context, ticker string) (int, error)
}

// MetricsStore persists materialized portfolio metrics.
type MetricsStore interface {
	Get(ctx context.Context, portfolioID string) (*models.PortfolioMetrics, error)
	Save(ctx context.Context, metrics *models.PortfolioMetrics) error
	Delete(ctx context.Context, portfolioID string) error
}
