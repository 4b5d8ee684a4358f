// Package models defines data structures for Folio
package models

import (
	"regexp"
	"strings"
	"time"
)

// MaxPortfoliosPerUser caps the number of portfolios a single user may own.
const MaxPortfoliosPerUser = 5

// Position represents one holding within a portfolio.
type Position struct {
	Ticker        string    `json:"ticker"`
	Shares        float64   `json:"shares"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`

	// CurrentPrice is populated at read time by the batch price resolver.
	// Nil means "no live or cached price available", distinct from zero.
	CurrentPrice *float64 `json:"current_price,omitempty"`
}

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// NormalizeTicker upper-cases and trims a symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Validate rejects positions with a malformed ticker or non-positive
// shares/price. The ticker must already be normalized.
func (p *Position) Validate() error {
	if !tickerPattern.MatchString(p.Ticker) {
		return NewValidationError("ticker", "must match symbol shape (e.g. AAPL, BRK.B)")
	}
	if p.Shares <= 0 {
		return NewValidationError("shares", "must be greater than zero")
	}
	if p.PurchasePrice <= 0 {
		return NewValidationError("purchase_price", "must be greater than zero")
	}
	return nil
}

// Portfolio is a named, ordered collection of positions owned by one user.
type Portfolio struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Positions []Position `json:"positions"`
	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ValidatePortfolioName rejects names outside 1-50 characters.
func ValidatePortfolioName(name string) error {
	if l := len(strings.TrimSpace(name)); l < 1 || l > 50 {
		return NewValidationError("name", "must be 1-50 characters")
	}
	return nil
}

// Tickers returns the distinct normalized tickers held in the portfolio.
func (p *Portfolio) Tickers() []string {
	seen := make(map[string]struct{}, len(p.Positions))
	var out []string
	for _, pos := range p.Positions {
		t := NormalizeTicker(pos.Ticker)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// PortfolioMetrics is the materialized valuation for one portfolio, refreshed
// by the periodic metrics job and read directly by the UI.
type PortfolioMetrics struct {
	PortfolioID      string    `json:"portfolio_id"`
	TotalValue       float64   `json:"total_value"`
	TotalInvested    float64   `json:"total_invested"`
	GainLoss         float64   `json:"gain_loss"`
	ReturnPercentage float64   `json:"return_percentage"`
	LastUpdated      time.Time `json:"last_updated"`
	UpdatedBy        string    `json:"updated_by"`
}
