package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// FormatValuation renders a calculated portfolio as markdown: a totals
// block followed by a holdings table in the order the backend returned them.
func FormatValuation(summary *models.CalculatedPortfolioSummary) string {
	var sb strings.Builder

	sb.WriteString("# Portfolio Valuation\n\n")
	if summary == nil {
		sb.WriteString("No portfolio data.\n")
		return sb.String()
	}

	if summary.AccountID != "" {
		sb.WriteString(fmt.Sprintf("**Account:** %s\n", summary.AccountID))
	}
	if !summary.FetchedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**As of:** %s\n", summary.FetchedAt.Format("2006-01-02 15:04")))
	}
	sb.WriteString(fmt.Sprintf("**Total Value:** %s\n", common.FormatCurrencyValue(summary.TotalValue)))
	sb.WriteString(fmt.Sprintf("**Total Invested:** %s\n", common.FormatCurrencyValue(summary.TotalInvested)))
	sb.WriteString(fmt.Sprintf("**Total P&L:** %s (%s)\n\n",
		common.FormatCurrencyValue(summary.TotalPnL),
		common.FormatPercentageValue(summary.TotalPnLPercentage, 2)))

	sb.WriteString("## Holdings\n\n")
	if len(summary.Holdings) == 0 {
		sb.WriteString("No holdings.\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Qty | Price | Value | Weight | Invested | P&L | P&L % |\n")
	sb.WriteString("|--------|-----|-------|-------|--------|----------|-----|-------|\n")
	for _, h := range summary.Holdings {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			symbol(h.Holding),
			strconv.FormatFloat(h.Quantity, 'f', -1, 64),
			price(h.Product.SharePrice),
			common.FormatCurrencyValue(h.CurrentValue),
			weight(h.CurrentValue, summary.TotalValue),
			common.FormatCurrencyValue(h.TotalInvested),
			common.FormatCurrencyValue(h.UnrealizedPnL),
			common.FormatPercentageValue(h.UnrealizedPnLPercentage, 2),
		))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | | | **%s** | | **%s** | **%s** | **%s** |\n",
		common.FormatCurrencyValue(summary.TotalValue),
		common.FormatCurrencyValue(summary.TotalInvested),
		common.FormatCurrencyValue(summary.TotalPnL),
		common.FormatPercentageValue(summary.TotalPnLPercentage, 2)))

	return sb.String()
}

// FormatOrderValidation renders a validation result as markdown.
func FormatOrderValidation(req models.OrderRequest, v *models.OrderValidation) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Order Check: %s %s %s\n\n",
		strings.ToUpper(string(req.Side)), strconv.FormatFloat(req.Quantity, 'f', -1, 64), req.ProductID))
	status := "VALID"
	if !v.Valid {
		status = "REJECTED"
	}
	sb.WriteString(fmt.Sprintf("**Status:** %s\n", status))
	sb.WriteString(fmt.Sprintf("**Estimated Total:** %s\n\n", common.FormatCurrencyValue(v.EstimatedTotal)))

	if len(v.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range v.Errors {
			sb.WriteString("- " + e + "\n")
		}
		sb.WriteString("\n")
	}
	if len(v.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range v.Warnings {
			sb.WriteString("- " + w + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func symbol(h models.Holding) string {
	if h.Product.Symbol != "" {
		return h.Product.Symbol
	}
	if h.Product.Name != "" {
		return h.Product.Name
	}
	return h.ProductID
}

func price(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return common.FormatCurrency(p)
}

func weight(value, total float64) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", value/total*100)
}

// reportTimestamp is the header stamp used by generated reports.
func reportTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
