package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// MetricsStore persists the materialized portfolio metrics view, keyed by
// portfolio ID.
type MetricsStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewMetricsStore(db *surrealdb.DB, logger *common.Logger) *MetricsStore {
	return &MetricsStore{
		db:     db,
		logger: logger,
	}
}

func (s *MetricsStore) Get(ctx context.Context, portfolioID string) (*models.PortfolioMetrics, error) {
	metrics, err := surrealdb.Select[models.PortfolioMetrics](ctx, s.db, surrealmodels.NewRecordID("portfolio_metrics", portfolioID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select portfolio metrics: %w", err)
	}
	if metrics == nil || metrics.PortfolioID == "" {
		return nil, models.ErrNotFound
	}
	return metrics, nil
}

func (s *MetricsStore) Save(ctx context.Context, metrics *models.PortfolioMetrics) error {
	sql := "UPSERT $rid CONTENT $metrics"
	vars := map[string]any{
		"rid":     surrealmodels.NewRecordID("portfolio_metrics", metrics.PortfolioID),
		"metrics": metrics,
	}

	err := common.Retry(ctx, 2, 100*time.Millisecond, common.IsTransient, func() error {
		_, qerr := surrealdb.Query[[]models.PortfolioMetrics](ctx, s.db, sql, vars)
		return qerr
	})
	if err != nil {
		return fmt.Errorf("failed to save portfolio metrics: %w", err)
	}
	return nil
}

func (s *MetricsStore) Delete(ctx context.Context, portfolioID string) error {
	_, err := surrealdb.Delete[models.PortfolioMetrics](ctx, s.db, surrealmodels.NewRecordID("portfolio_metrics", portfolioID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete portfolio metrics: %w", err)
	}
	return nil
}

var _ interfaces.MetricsStore = (*MetricsStore)(nil)
