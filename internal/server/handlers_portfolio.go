package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/valuation"
)

type portfolioRequest struct {
	Name string `json:"name"`
}

type positionsRequest struct {
	Positions []models.Position `json:"positions"`
}

// portfolioView is a portfolio with freshly resolved prices and valuation
// totals. Totals are rounded here, at the response boundary.
type portfolioView struct {
	*models.Portfolio
	TotalValue       float64 `json:"total_value"`
	TotalInvested    float64 `json:"total_invested"`
	GainLoss         float64 `json:"gain_loss"`
	ReturnPercentage float64 `json:"return_percentage"`
}

// buildView resolves current prices for the portfolio's tickers, stamps them
// onto the positions and computes the valuation totals.
func (s *Server) buildView(ctx context.Context, p *models.Portfolio) *portfolioView {
	prices := s.app.Resolver.Resolve(ctx, p.Tickers())

	for i := range p.Positions {
		p.Positions[i].CurrentPrice = prices[models.NormalizeTicker(p.Positions[i].Ticker)]
	}

	m := valuation.Compute(p.Positions, prices)
	return &portfolioView{
		Portfolio:        p,
		TotalValue:       valuation.Round2(m.TotalValue),
		TotalInvested:    valuation.Round2(m.TotalInvested),
		GainLoss:         valuation.Round2(m.GainLoss),
		ReturnPercentage: valuation.Round2(m.ReturnPercentage),
	}
}

// handlePortfolios handles /api/portfolios (list and create).
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	session, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		portfolios, err := s.app.Portfolios.List(r.Context(), session.UserID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if portfolios == nil {
			portfolios = []*models.Portfolio{}
		}
		WriteJSON(w, http.StatusOK, portfolios)

	case http.MethodPost:
		var req portfolioRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		portfolio, err := s.app.Portfolios.Create(r.Context(), session.UserID, req.Name)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, portfolio)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routePortfolios dispatches /api/portfolios/{id}[/positions|/metrics|/default].
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "portfolio id is required in path")
		return
	}

	parts := strings.SplitN(rest, "/", 2)
	portfolioID := parts[0]
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	session, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	switch sub {
	case "":
		s.handlePortfolioByID(w, r, session.UserID, portfolioID)
	case "positions":
		s.handlePortfolioPositions(w, r, session.UserID, portfolioID)
	case "metrics":
		s.handlePortfolioMetrics(w, r, session.UserID, portfolioID)
	case "default":
		s.handlePortfolioSetDefault(w, r, session.Token, session.UserID, portfolioID)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handlePortfolioByID(w http.ResponseWriter, r *http.Request, userID, portfolioID string) {
	switch r.Method {
	case http.MethodGet:
		portfolio, err := s.app.Portfolios.Get(r.Context(), userID, portfolioID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, s.buildView(r.Context(), portfolio))

	case http.MethodPut:
		var req portfolioRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		portfolio, err := s.app.Portfolios.Rename(r.Context(), userID, portfolioID, req.Name)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodDelete:
		if err := s.app.Portfolios.Delete(r.Context(), userID, portfolioID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handlePortfolioPositions(w http.ResponseWriter, r *http.Request, userID, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req positionsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	portfolio, err := s.app.Portfolios.ReplacePositions(r.Context(), userID, portfolioID, req.Positions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.buildView(r.Context(), portfolio))
}

func (s *Server) handlePortfolioMetrics(w http.ResponseWriter, r *http.Request, userID, portfolioID string) {
	switch r.Method {
	case http.MethodGet:
		metrics, err := s.app.Metrics.Get(r.Context(), userID, portfolioID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, metrics)

	case http.MethodPost:
		metrics, err := s.app.Metrics.RefreshPortfolio(r.Context(), userID, portfolioID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, metrics)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handlePortfolioSetDefault(w http.ResponseWriter, r *http.Request, token, userID, portfolioID string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	if err := s.app.Portfolios.SetDefault(r.Context(), userID, portfolioID); err != nil {
		WriteServiceError(w, err)
		return
	}

	// The new default becomes the session's active portfolio too.
	if err := s.app.Sessions.SetActivePortfolio(token, portfolioID); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":              "ok",
		"default_portfolio":   portfolioID,
		"active_portfolio_id": portfolioID,
	})
}
