package server

import (
	"net/http"
	"time"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token             string    `json:"token"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	ActivePortfolioID string    `json:"active_portfolio_id"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// handleAuthLogin handles POST /api/auth/login. A successful login opens a
// session pointed at the user's default portfolio.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	activeID := ""
	if portfolios, err := s.app.Portfolios.List(r.Context(), user.ID); err == nil {
		for _, p := range portfolios {
			if p.IsDefault {
				activeID = p.ID
				break
			}
		}
		if activeID == "" && len(portfolios) > 0 {
			activeID = portfolios[0].ID
		}
	}

	session := s.app.Sessions.Create(user.ID, activeID)

	WriteJSON(w, http.StatusOK, sessionResponse{
		Token:             session.Token,
		UserID:            user.ID,
		Username:          user.Username,
		ActivePortfolioID: session.ActivePortfolioID,
		ExpiresAt:         session.ExpiresAt,
	})
}

// handleAuthLogout handles POST /api/auth/logout. Always succeeds; revoking
// an unknown token is a no-op.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if token := sessionToken(r); token != "" {
		s.app.Sessions.Revoke(token)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleAuthValidate handles GET /api/auth/validate.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	session, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	username := ""
	if user, err := s.app.Users.GetUser(r.Context(), session.UserID); err == nil {
		username = user.Username
	}

	WriteJSON(w, http.StatusOK, sessionResponse{
		Token:             session.Token,
		UserID:            session.UserID,
		Username:          username,
		ActivePortfolioID: session.ActivePortfolioID,
		ExpiresAt:         session.ExpiresAt,
	})
}
