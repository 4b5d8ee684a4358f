package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// UserService manages registration and credential checks.
type UserService interface {
	// Register creates a user and their first (default) portfolio.
	Register(ctx context.Context, username, password string) (*models.User, error)

	// Authenticate verifies credentials, returning models.ErrInvalidCredentials
	// on any mismatch without distinguishing unknown user from bad password.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// GetUser looks up a user by ID, returning models.ErrNotFound when absent.
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// PortfolioService is ownership-scoped CRUD over portfolios and positions.
// Every operation filters by the caller's user ID; a portfolio that exists
// but is not owned is indistinguishable from one that does not exist.
type PortfolioService interface {
	Create(ctx context.Context, userID, name string) (*models.Portfolio, error)
	Get(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error)
	List(ctx context.Context, userID string) ([]*models.Portfolio, error)
	Rename(ctx context.Context, userID, portfolioID, name string) (*models.Portfolio, error)
	Delete(ctx context.Context, userID, portfolioID string) error
	SetDefault(ctx context.Context, userID, portfolioID string) error
	ReplacePositions(ctx context.Context, userID, portfolioID string, positions []models.Position) (*models.Portfolio, error)
	ListAll(ctx context.Context) ([]*models.Portfolio, error)
}

// PriceResolver resolves current prices for many tickers with bounded
// concurrency, fetching each distinct ticker exactly once.
type PriceResolver interface {
	// Resolve returns one entry per requested ticker. A ticker whose live
	// and cached lookups both fail resolves to nil (unpriced), never to a
	// missing key.
	Resolve(ctx context.Context, tickers []string) map[string]*float64
}

// QuoteService serves single-ticker live quotes with cache fallback.
type QuoteService interface {
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

// HistoryService serves daily close history, reading the price cache first
// and self-healing it from the provider on misses.
type HistoryService interface {
	GetHistory(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error)
}

// NewsService serves normalized company news.
type NewsService interface {
	GetNews(ctx context.Context, ticker string, days int) ([]*models.NewsItem, error)
}

// MetricsService maintains the materialized PortfolioMetrics view.
type MetricsService interface {
	// RefreshAll recomputes metrics for every known portfolio. One user's
	// failure is logged and skipped, never aborting the sweep.
	RefreshAll(ctx context.Context) error

	// RefreshPortfolio recomputes metrics for a single owned portfolio.
	RefreshPortfolio(ctx context.Context, userID, portfolioID string) (*models.PortfolioMetrics, error)

	// Get reads the cached metrics row; LastUpdated reports staleness.
	Get(ctx context.Context, userID, portfolioID string) (*models.PortfolioMetrics, error)
}

// SessionStore is the injected map-like session backend. Implementations must
// be safe for concurrent use; Get returns a private copy so callers can mutate
// it and Set it back without racing other holders of the same token.
type SessionStore interface {
	Get(token string) (*models.Session, bool)
	Set(session *models.Session)
	Delete(token string)
	// Sweep removes sessions expired at the given instant, returning the count.
	Sweep(now time.Time) int
}

// SessionManager maps opaque tokens to authenticated identity and the
// currently selected portfolio.
type SessionManager interface {
	Create(userID, activePortfolioID string) *models.Session
	// Validate returns models.ErrSessionExpired for unknown or expired
	// tokens; expired entries are removed on access.
	Validate(token string) (*models.Session, error)
	SetActivePortfolio(token, portfolioID string) error
	Revoke(token string)
	Sweep() int
}
