package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/folio/internal/models"
)

func price(v float64) *float64 { return &v }

func TestCompute_SinglePosition(t *testing.T) {
	positions := []models.Position{
		{Ticker: "AAPL", Shares: 10, PurchasePrice: 150},
	}
	prices := map[string]*float64{"AAPL": price(155)}

	m := Compute(positions, prices)

	assert.Equal(t, 1550.0, m.TotalValue)
	assert.Equal(t, 1500.0, m.TotalInvested)
	assert.Equal(t, 50.0, m.GainLoss)
	assert.InDelta(t, 3.3333, m.ReturnPercentage, 0.001)
}

func TestCompute_EmptyPortfolio(t *testing.T) {
	m := Compute(nil, map[string]*float64{})

	assert.Zero(t, m.TotalValue)
	assert.Zero(t, m.TotalInvested)
	assert.Zero(t, m.GainLoss)
	assert.Zero(t, m.ReturnPercentage)
}

func TestCompute_UnpricedPositionValuedAtCost(t *testing.T) {
	positions := []models.Position{
		{Ticker: "AAPL", Shares: 10, PurchasePrice: 150},
		{Ticker: "GHOST", Shares: 5, PurchasePrice: 20},
	}
	prices := map[string]*float64{
		"AAPL":  price(155),
		"GHOST": nil,
	}

	m := Compute(positions, prices)

	// GHOST contributes 100 to both sides and zero gain.
	assert.Equal(t, 1650.0, m.TotalValue)
	assert.Equal(t, 1600.0, m.TotalInvested)
	assert.Equal(t, 50.0, m.GainLoss)
}

func TestCompute_LossPosition(t *testing.T) {
	positions := []models.Position{
		{Ticker: "MSFT", Shares: 4, PurchasePrice: 100},
	}
	prices := map[string]*float64{"MSFT": price(75)}

	m := Compute(positions, prices)

	assert.Equal(t, 300.0, m.TotalValue)
	assert.Equal(t, -100.0, m.GainLoss)
	assert.Equal(t, -25.0, m.ReturnPercentage)
}

func TestCompute_NoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style accumulation stays exact on decimals.
	positions := []models.Position{
		{Ticker: "A", Shares: 3, PurchasePrice: 0.1},
		{Ticker: "B", Shares: 1, PurchasePrice: 0.2},
	}
	prices := map[string]*float64{"A": price(0.1), "B": price(0.2)}

	m := Compute(positions, prices)
	assert.Equal(t, 0.5, m.TotalInvested)
	assert.Equal(t, 0.0, m.GainLoss)
}

func TestCompute_LowercaseTickerStillResolves(t *testing.T) {
	positions := []models.Position{
		{Ticker: "aapl", Shares: 1, PurchasePrice: 100},
	}
	prices := map[string]*float64{"AAPL": price(110)}

	m := Compute(positions, prices)
	assert.Equal(t, 110.0, m.TotalValue)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(3.33333))
	assert.Equal(t, 3.34, Round2(3.335))
	assert.Equal(t, -1.5, Round2(-1.499999999999))
	assert.Equal(t, 0.0, Round2(0))
}
