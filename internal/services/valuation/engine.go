// Package valuation computes portfolio worth from positions and resolved
// prices. Pure functions, no I/O.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// Metrics is the result of a valuation pass. Values are unrounded; callers
// round at the response boundary.
type Metrics struct {
	TotalValue       float64
	TotalInvested    float64
	GainLoss         float64
	ReturnPercentage float64
}

// Compute reduces positions against resolved prices. Arithmetic runs on
// decimals so repeated float addition cannot drift.
//
// A position whose ticker resolves to nil is valued at cost: it contributes
// to both invested and value and adds zero gain. This keeps totals stable
// when a provider is down instead of making holdings vanish.
func Compute(positions []models.Position, prices map[string]*float64) Metrics {
	totalValue := decimal.Zero
	totalInvested := decimal.Zero

	for _, pos := range positions {
		shares := decimal.NewFromFloat(pos.Shares)
		cost := shares.Mul(decimal.NewFromFloat(pos.PurchasePrice))
		totalInvested = totalInvested.Add(cost)

		price := prices[models.NormalizeTicker(pos.Ticker)]
		if price == nil {
			totalValue = totalValue.Add(cost)
			continue
		}
		totalValue = totalValue.Add(shares.Mul(decimal.NewFromFloat(*price)))
	}

	gainLoss := totalValue.Sub(totalInvested)

	returnPct := decimal.Zero
	if !totalInvested.IsZero() {
		returnPct = gainLoss.Div(totalInvested).Mul(decimal.NewFromInt(100))
	}

	value, _ := totalValue.Float64()
	invested, _ := totalInvested.Float64()
	gain, _ := gainLoss.Float64()
	pct, _ := returnPct.Float64()

	return Metrics{
		TotalValue:       value,
		TotalInvested:    invested,
		GainLoss:         gain,
		ReturnPercentage: pct,
	}
}

// Round2 rounds to two decimal places, half away from zero. Applied once,
// at the response boundary.
func Round2(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}
