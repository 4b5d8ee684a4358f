package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service is ownership-scoped portfolio CRUD. A portfolio owned by someone
// else looks exactly like a portfolio that does not exist.
type Service struct {
	portfolios interfaces.PortfolioStore
	metrics    interfaces.MetricsStore
	logger     *common.Logger
}

func NewService(portfolios interfaces.PortfolioStore, metrics interfaces.MetricsStore, logger *common.Logger) *Service {
	return &Service{
		portfolios: portfolios,
		metrics:    metrics,
		logger:     logger,
	}
}

// getOwned loads a portfolio and enforces ownership.
func (s *Service) getOwned(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	portfolio, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.UserID != userID {
		return nil, models.ErrNotFound
	}

	// Records written by older builds may lack created_at; repair on read so
	// list ordering stays stable.
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = time.Now().UTC()
		if err := s.portfolios.Save(ctx, portfolio); err != nil {
			s.logger.Warn().Err(err).Str("portfolio", portfolioID).Msg("Failed to backfill created_at")
		}
	}
	return portfolio, nil
}

func (s *Service) Create(ctx context.Context, userID, name string) (*models.Portfolio, error) {
	if err := models.ValidatePortfolioName(name); err != nil {
		return nil, err
	}

	existing, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= models.MaxPortfoliosPerUser {
		return nil, models.ErrPortfolioLimit
	}

	now := time.Now().UTC()
	portfolio := &models.Portfolio{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Positions: []models.Position{},
		IsDefault: len(existing) == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.portfolios.Save(ctx, portfolio); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("portfolio", portfolio.ID).Msg("Portfolio created")
	return portfolio, nil
}

func (s *Service) Get(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	return s.getOwned(ctx, userID, portfolioID)
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	return s.portfolios.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]*models.Portfolio, error) {
	return s.portfolios.ListAll(ctx)
}

func (s *Service) Rename(ctx context.Context, userID, portfolioID, name string) (*models.Portfolio, error) {
	if err := models.ValidatePortfolioName(name); err != nil {
		return nil, err
	}

	portfolio, err := s.getOwned(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	portfolio.Name = name
	portfolio.UpdatedAt = time.Now().UTC()
	if err := s.portfolios.Save(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// Delete removes a portfolio. The last remaining portfolio cannot be
// deleted, and deleting the default promotes the oldest survivor so exactly
// one default always exists.
func (s *Service) Delete(ctx context.Context, userID, portfolioID string) error {
	portfolio, err := s.getOwned(ctx, userID, portfolioID)
	if err != nil {
		return err
	}

	owned, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(owned) <= 1 {
		return models.ErrLastPortfolio
	}

	if err := s.portfolios.Delete(ctx, portfolioID); err != nil {
		return err
	}
	if err := s.metrics.Delete(ctx, portfolioID); err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Warn().Err(err).Str("portfolio", portfolioID).Msg("Failed to delete metrics row")
	}

	if portfolio.IsDefault {
		for _, survivor := range owned {
			if survivor.ID == portfolioID {
				continue
			}
			survivor.IsDefault = true
			survivor.UpdatedAt = time.Now().UTC()
			if err := s.portfolios.Save(ctx, survivor); err != nil {
				return fmt.Errorf("failed to promote new default: %w", err)
			}
			break
		}
	}

	s.logger.Info().Str("user", userID).Str("portfolio", portfolioID).Msg("Portfolio deleted")
	return nil
}

// SetDefault marks one portfolio as the default and clears the flag on every
// other portfolio the user owns.
func (s *Service) SetDefault(ctx context.Context, userID, portfolioID string) error {
	if _, err := s.getOwned(ctx, userID, portfolioID); err != nil {
		return err
	}

	owned, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, p := range owned {
		want := p.ID == portfolioID
		if p.IsDefault == want {
			continue
		}
		p.IsDefault = want
		p.UpdatedAt = now
		if err := s.portfolios.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// ReplacePositions swaps the full position list. There is no per-position
// patching; clients send the complete desired state.
func (s *Service) ReplacePositions(ctx context.Context, userID, portfolioID string, positions []models.Position) (*models.Portfolio, error) {
	portfolio, err := s.getOwned(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	validated := make([]models.Position, 0, len(positions))
	for i := range positions {
		pos := positions[i]
		pos.Ticker = models.NormalizeTicker(pos.Ticker)
		if err := pos.Validate(); err != nil {
			return nil, err
		}
		validated = append(validated, pos)
	}

	portfolio.Positions = validated
	portfolio.UpdatedAt = time.Now().UTC()
	if err := s.portfolios.Save(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

var _ interfaces.PortfolioService = (*Service)(nil)
