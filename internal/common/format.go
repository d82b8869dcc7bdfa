package common

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Theme maps P&L classification to display color tokens.
type Theme struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
	Neutral  string `json:"neutral"`
}

// DefaultTheme is the palette used by reports and the web client.
var DefaultTheme = Theme{
	Positive: "#2e7d32",
	Negative: "#d32f2f",
	Neutral:  "#757575",
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatCurrency formats an optional amount as USD. Nil and non-finite
// amounts render as "$0.00".
func FormatCurrency(amount *float64) string {
	if amount == nil {
		return FormatCurrencyValue(0)
	}
	return FormatCurrencyValue(*amount)
}

// FormatCurrencyValue formats amount as en-US USD with two fraction digits,
// e.g. 1234.5 -> "$1,234.50", -3 -> "-$3.00".
func FormatCurrencyValue(amount float64) string {
	if !isFinite(amount) {
		amount = 0
	}
	cur := money.GetCurrency(money.USD)
	rounded := decimal.NewFromFloat(amount).Round(int32(cur.Fraction))
	cents := rounded.Shift(int32(cur.Fraction))
	if cents.GreaterThanOrEqual(minCents) && cents.LessThanOrEqual(maxCents) {
		return cur.Formatter().Format(cents.IntPart())
	}
	return formatLargeAmount(cur, rounded)
}

var (
	minCents = decimal.NewFromInt(-math.MaxInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// formatLargeAmount renders amounts whose minor units overflow int64,
// using the currency's own grapheme and separators.
func formatLargeAmount(cur *money.Currency, amount decimal.Decimal) string {
	digits := amount.Abs().StringFixed(int32(cur.Fraction))
	whole, frac, _ := strings.Cut(digits, ".")

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteString(cur.Thousand)
		}
		sb.WriteRune(r)
	}
	if frac != "" {
		sb.WriteString(cur.Decimal)
		sb.WriteString(frac)
	}

	out := strings.NewReplacer("1", sb.String(), "$", cur.Grapheme).Replace(cur.Template)
	if amount.IsNegative() {
		return "-" + out
	}
	return out
}

// FormatPercentage formats an optional percentage. Nil and non-finite values
// render as "0.00%" regardless of decimals.
func FormatPercentage(value *float64, decimals int) string {
	if value == nil {
		return "0.00%"
	}
	return FormatPercentageValue(*value, decimals)
}

// FormatPercentageValue renders value with an explicit "+" for value >= 0.
// Negative values keep their native "-". decimals < 0 falls back to 2.
func FormatPercentageValue(value float64, decimals int) string {
	if !isFinite(value) {
		return "0.00%"
	}
	if decimals < 0 {
		decimals = 2
	}
	if value == 0 {
		value = 0 // drop negative zero
	}
	s := strconv.FormatFloat(value, 'f', decimals, 64)
	if value >= 0 {
		return "+" + s + "%"
	}
	return s + "%"
}

// PnLColor classifies pnl into the theme's positive, negative or neutral
// token. Zero and NaN are neutral.
func PnLColor(pnl float64, theme Theme) string {
	switch {
	case pnl > 0:
		return theme.Positive
	case pnl < 0:
		return theme.Negative
	default:
		return theme.Neutral
	}
}
