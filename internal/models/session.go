package models

import "time"

// Session maps an opaque token to an authenticated identity and the currently
// selected portfolio. Process-local, lost on restart.
type Session struct {
	Token             string    `json:"token"`
	UserID            string    `json:"user_id"`
	ActivePortfolioID string    `json:"active_portfolio_id"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
