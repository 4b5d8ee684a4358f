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

type PortfolioStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPortfolioStore(db *surrealdb.DB, logger *common.Logger) *PortfolioStore {
	return &PortfolioStore{
		db:     db,
		logger: logger,
	}
}

func (s *PortfolioStore) Get(ctx context.Context, portfolioID string) (*models.Portfolio, error) {
	portfolio, err := surrealdb.Select[models.Portfolio](ctx, s.db, surrealmodels.NewRecordID("portfolio", portfolioID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select portfolio: %w", err)
	}
	if portfolio == nil || portfolio.ID == "" {
		return nil, models.ErrNotFound
	}
	return portfolio, nil
}

func (s *PortfolioStore) ListByUser(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	sql := "SELECT * FROM portfolio WHERE user_id = $user_id ORDER BY created_at ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Portfolio](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	var mapped []*models.Portfolio
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func (s *PortfolioStore) ListAll(ctx context.Context) ([]*models.Portfolio, error) {
	sql := "SELECT * FROM portfolio ORDER BY user_id, created_at ASC"

	results, err := surrealdb.Query[[]models.Portfolio](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list all portfolios: %w", err)
	}

	var mapped []*models.Portfolio
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func (s *PortfolioStore) Save(ctx context.Context, portfolio *models.Portfolio) error {
	sql := "UPSERT $rid CONTENT $portfolio"
	vars := map[string]any{
		"rid":       surrealmodels.NewRecordID("portfolio", portfolio.ID),
		"portfolio": portfolio,
	}

	err := common.Retry(ctx, 2, 100*time.Millisecond, common.IsTransient, func() error {
		_, qerr := surrealdb.Query[[]models.Portfolio](ctx, s.db, sql, vars)
		return qerr
	})
	if err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	return nil
}

func (s *PortfolioStore) Delete(ctx context.Context, portfolioID string) error {
	_, err := surrealdb.Delete[models.Portfolio](ctx, s.db, surrealmodels.NewRecordID("portfolio", portfolioID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return nil
}

var _ interfaces.PortfolioStore = (*PortfolioStore)(nil)
