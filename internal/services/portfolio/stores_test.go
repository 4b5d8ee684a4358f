package portfolio

import (
	"context"
	"sort"
	"sync"

	"github.com/bobmcallan/folio/internal/models"
)

// In-memory store fakes shared by the tests in this package.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (s *memUserStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (s *memUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memUserStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

type memPortfolioStore struct {
	mu         sync.Mutex
	portfolios map[string]*models.Portfolio
}

func newMemPortfolioStore() *memPortfolioStore {
	return &memPortfolioStore{portfolios: make(map[string]*models.Portfolio)}
}

func (s *memPortfolioStore) Get(_ context.Context, portfolioID string) (*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.portfolios[portfolioID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (s *memPortfolioStore) ListByUser(_ context.Context, userID string) ([]*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Portfolio
	for _, p := range s.portfolios {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memPortfolioStore) ListAll(_ context.Context) ([]*models.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Portfolio
	for _, p := range s.portfolios {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memPortfolioStore) Save(_ context.Context, portfolio *models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *portfolio
	s.portfolios[portfolio.ID] = &copied
	return nil
}

func (s *memPortfolioStore) Delete(_ context.Context, portfolioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.portfolios, portfolioID)
	return nil
}

type memMetricsStore struct {
	mu   sync.Mutex
	rows map[string]*models.PortfolioMetrics
}

func newMemMetricsStore() *memMetricsStore {
	return &memMetricsStore{rows: make(map[string]*models.PortfolioMetrics)}
}

func (s *memMetricsStore) Get(_ context.Context, portfolioID string) (*models.PortfolioMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.rows[portfolioID]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (s *memMetricsStore) Save(_ context.Context, metrics *models.PortfolioMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *metrics
	s.rows[metrics.PortfolioID] = &copied
	return nil
}

func (s *memMetricsStore) Delete(_ context.Context, portfolioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, portfolioID)
	return nil
}

// staticResolver resolves every ticker to a fixed price.
type staticResolver struct {
	prices map[string]*float64
}

func (r *staticResolver) Resolve(_ context.Context, tickers []string) map[string]*float64 {
	out := make(map[string]*float64, len(tickers))
	for _, t := range tickers {
		normalized := models.NormalizeTicker(t)
		out[normalized] = r.prices[normalized]
	}
	return out
}

func ptr(v float64) *float64 { return &v }
