// Package trading pre-validates orders before they are sent to the backend.
// The backend remains authoritative; these checks exist to give the user
// immediate feedback and to stop obviously bad orders early.
package trading

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// Thresholds configures warning levels. Zero values fall back to defaults.
type Thresholds struct {
	MinOrderValue         float64
	PriceDeviationWarnPct float64
	BalanceWarnPct        float64
}

// DefaultThresholds are used when no configuration is provided.
var DefaultThresholds = Thresholds{
	MinOrderValue:         10,
	PriceDeviationWarnPct: 5,
	BalanceWarnPct:        90,
}

// ThresholdsFromConfig converts trading config into thresholds.
func ThresholdsFromConfig(cfg common.TradingConfig) Thresholds {
	return Thresholds{
		MinOrderValue:         cfg.MinOrderValue,
		PriceDeviationWarnPct: cfg.PriceDeviationWarnPct,
		BalanceWarnPct:        cfg.BalanceWarnPct,
	}.withDefaults()
}

func (t Thresholds) withDefaults() Thresholds {
	if t.MinOrderValue <= 0 {
		t.MinOrderValue = DefaultThresholds.MinOrderValue
	}
	if t.PriceDeviationWarnPct <= 0 {
		t.PriceDeviationWarnPct = DefaultThresholds.PriceDeviationWarnPct
	}
	if t.BalanceWarnPct <= 0 {
		t.BalanceWarnPct = DefaultThresholds.BalanceWarnPct
	}
	return t
}

// OrderContext is the state an order is checked against.
// Wallet nil skips the balance checks.
type OrderContext struct {
	Product      *models.Product
	Wallet       *models.Wallet
	HeldQuantity float64
	Thresholds   Thresholds
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func money(v decimal.Decimal) string {
	return common.FormatCurrencyValue(v.InexactFloat64())
}

// ValidateOrder checks req against oc. It never returns an error: problems
// are reported in Errors (blocking) and Warnings (advisory).
func ValidateOrder(req models.OrderRequest, oc OrderContext) models.OrderValidation {
	th := oc.Thresholds.withDefaults()
	v := models.OrderValidation{Errors: []string{}, Warnings: []string{}}

	if req.ProductID == "" || oc.Product == nil {
		v.Errors = append(v.Errors, "product not found")
		return v
	}
	product := oc.Product
	if !product.IsActive() {
		v.Errors = append(v.Errors, fmt.Sprintf("product %s is not available for trading", product.Symbol))
	}

	switch req.Side {
	case models.OrderSideBuy, models.OrderSideSell:
	default:
		v.Errors = append(v.Errors, fmt.Sprintf("unknown order side %q", req.Side))
	}

	switch req.Type {
	case models.OrderTypeMarket, models.OrderTypeLimit:
	default:
		v.Errors = append(v.Errors, fmt.Sprintf("unknown order type %q", req.Type))
	}

	quantityOK := positiveFinite(req.Quantity)
	if !quantityOK {
		v.Errors = append(v.Errors, "quantity must be greater than zero")
	}

	var marketPrice decimal.Decimal
	hasMarketPrice := product.SharePrice != nil && positiveFinite(*product.SharePrice)
	if hasMarketPrice {
		marketPrice = decimal.NewFromFloat(*product.SharePrice)
	}

	var execPrice decimal.Decimal
	priceOK := false
	switch req.Type {
	case models.OrderTypeLimit:
		if req.LimitPrice == nil || !positiveFinite(*req.LimitPrice) {
			v.Errors = append(v.Errors, "limit orders require a positive limit price")
		} else {
			execPrice = decimal.NewFromFloat(*req.LimitPrice)
			priceOK = true
		}
	case models.OrderTypeMarket:
		if !hasMarketPrice {
			v.Errors = append(v.Errors, "no market price available for this product")
		} else {
			execPrice = marketPrice
			priceOK = true
		}
	}

	if !quantityOK || !priceOK {
		v.Valid = len(v.Errors) == 0
		return v
	}

	total := decimal.NewFromFloat(req.Quantity).Mul(execPrice).Round(2)
	v.EstimatedTotal = total.InexactFloat64()

	switch req.Side {
	case models.OrderSideBuy:
		if oc.Wallet != nil {
			available := decimal.NewFromFloat(oc.Wallet.Available)
			if total.GreaterThan(available) {
				v.Errors = append(v.Errors, fmt.Sprintf("insufficient balance: order total %s exceeds available %s",
					money(total), money(available)))
			} else if available.IsPositive() {
				limit := available.Mul(decimal.NewFromFloat(th.BalanceWarnPct)).Div(decimal.NewFromInt(100))
				if total.GreaterThan(limit) {
					v.Warnings = append(v.Warnings, fmt.Sprintf("order uses more than %s%% of your available balance",
						decimal.NewFromFloat(th.BalanceWarnPct).String()))
				}
			}
		}
	case models.OrderSideSell:
		qty := decimal.NewFromFloat(req.Quantity)
		held := decimal.NewFromFloat(oc.HeldQuantity)
		if qty.GreaterThan(held) {
			v.Errors = append(v.Errors, fmt.Sprintf("cannot sell %s units: only %s held",
				qty.String(), held.String()))
		} else if qty.Equal(held) {
			v.Warnings = append(v.Warnings, "this order sells your entire position")
		}
	}

	if total.LessThan(decimal.NewFromFloat(th.MinOrderValue)) {
		v.Warnings = append(v.Warnings, fmt.Sprintf("order total %s is below the minimum order value of %s",
			money(total), money(decimal.NewFromFloat(th.MinOrderValue))))
	}

	if req.Type == models.OrderTypeLimit && hasMarketPrice {
		deviation := execPrice.Sub(marketPrice).Abs().Div(marketPrice).Mul(decimal.NewFromInt(100))
		if deviation.GreaterThan(decimal.NewFromFloat(th.PriceDeviationWarnPct)) {
			v.Warnings = append(v.Warnings, fmt.Sprintf("limit price deviates %s%% from the market price of %s",
				deviation.Round(1).String(), money(marketPrice)))
		}
	}

	v.Valid = len(v.Errors) == 0
	return v
}
