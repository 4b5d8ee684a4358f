// Package portfolio implements user accounts, portfolio CRUD and the
// materialized metrics view.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const defaultPortfolioName = "My Portfolio"

// UserService handles registration and credential checks.
type UserService struct {
	users      interfaces.UserStore
	portfolios interfaces.PortfolioStore
	logger     *common.Logger
}

func NewUserService(users interfaces.UserStore, portfolios interfaces.PortfolioStore, logger *common.Logger) *UserService {
	return &UserService{
		users:      users,
		portfolios: portfolios,
		logger:     logger,
	}
}

// Register creates a user and their first portfolio, which starts as the
// default so every account always has an active portfolio to land on.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := models.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, models.ErrUsernameTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	first := &models.Portfolio{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      defaultPortfolioName,
		Positions: []models.Position{},
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.portfolios.Save(ctx, first); err != nil {
		return nil, fmt.Errorf("failed to create initial portfolio: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("User registered")
	return user, nil
}

// Authenticate verifies credentials. Unknown usernames and wrong passwords
// both come back as ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser looks up a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

var _ interfaces.UserService = (*UserService)(nil)
