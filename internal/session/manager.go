package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Manager issues opaque random tokens and validates them against the injected
// store. Tokens carry no embedded claims; everything lives server-side.
type Manager struct {
	store    interfaces.SessionStore
	lifetime time.Duration
	logger   *common.Logger
	now      func() time.Time
}

func NewManager(store interfaces.SessionStore, lifetime time.Duration, logger *common.Logger) *Manager {
	return &Manager{
		store:    store,
		lifetime: lifetime,
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Manager) Create(userID, activePortfolioID string) *models.Session {
	session := &models.Session{
		Token:             uuid.NewString(),
		UserID:            userID,
		ActivePortfolioID: activePortfolioID,
		ExpiresAt:         m.now().Add(m.lifetime),
	}
	m.store.Set(session)
	return session
}

// Validate resolves a token. Unknown and expired tokens are indistinguishable
// to the caller; expired entries are removed on access.
func (m *Manager) Validate(token string) (*models.Session, error) {
	session, ok := m.store.Get(token)
	if !ok {
		return nil, models.ErrSessionExpired
	}
	if session.Expired(m.now()) {
		m.store.Delete(token)
		return nil, models.ErrSessionExpired
	}
	return session, nil
}

func (m *Manager) SetActivePortfolio(token, portfolioID string) error {
	session, err := m.Validate(token)
	if err != nil {
		return err
	}
	session.ActivePortfolioID = portfolioID
	m.store.Set(session)
	return nil
}

func (m *Manager) Revoke(token string) {
	m.store.Delete(token)
}

func (m *Manager) Sweep() int {
	removed := m.store.Sweep(m.now())
	if removed > 0 {
		m.logger.Debug().Int("removed", removed).Msg("Swept expired sessions")
	}
	return removed
}

var _ interfaces.SessionManager = (*Manager)(nil)
