package portfolio

import (
	"math"

	"github.com/bobmcallan/marketdesk/internal/models"
)

// round2 rounds half away from zero to currency granularity.
func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // no negative zero in output
	}
	return r
}

// finiteOrZero coerces NaN and ±Inf to 0.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// sharePrice returns the product's price, or 0 when missing or non-finite.
func sharePrice(p models.Product) float64 {
	if p.SharePrice == nil {
		return 0
	}
	return finiteOrZero(*p.SharePrice)
}

// pnlPercentage returns pnl/invested in percent, or 0 when nothing is invested.
func pnlPercentage(pnl, invested float64) float64 {
	if invested > 0 {
		return round2(pnl / invested * 100)
	}
	return 0
}

// CalculateHoldingPnL derives current value and unrealized P&L for one
// holding at its product's current share price. It never fails: a missing
// price values the position at zero.
func CalculateHoldingPnL(h models.Holding) models.CalculatedHolding {
	quantity := finiteOrZero(h.Quantity)
	invested := finiteOrZero(h.TotalInvested)

	currentValue := round2(quantity * sharePrice(h.Product))
	pnl := round2(currentValue - invested)

	return models.CalculatedHolding{
		Holding:                 h,
		CurrentValue:            currentValue,
		UnrealizedPnL:           pnl,
		UnrealizedPnLPercentage: pnlPercentage(pnl, invested),
	}
}

// CalculatePortfolioTotals values every holding and rolls them up.
// Totals are summed from the already-rounded holding values and rounded
// again; TotalPnL is TotalValue minus TotalInvested rather than the sum of
// holding P&L. Callers and stored reports depend on these exact figures.
func CalculatePortfolioTotals(p models.PortfolioSummary) models.CalculatedPortfolioSummary {
	holdings := make([]models.CalculatedHolding, len(p.Holdings))

	var value, invested float64
	for i, h := range p.Holdings {
		ch := CalculateHoldingPnL(h)
		holdings[i] = ch
		value += ch.CurrentValue
		invested += finiteOrZero(h.TotalInvested)
	}

	totalValue := round2(value)
	totalInvested := round2(invested)
	totalPnL := round2(totalValue - totalInvested)

	return models.CalculatedPortfolioSummary{
		AccountID:          p.AccountID,
		Holdings:           holdings,
		TotalValue:         totalValue,
		TotalInvested:      totalInvested,
		TotalPnL:           totalPnL,
		TotalPnLPercentage: pnlPercentage(totalPnL, totalInvested),
		FetchedAt:          p.FetchedAt,
	}
}
