package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// ErrNoChartData is returned when no holding has a positive current value.
var ErrNoChartData = errors.New("no holdings with a current value to chart")

// RenderAllocationChart renders a PNG bar chart of current value per holding.
// Bars are coloured by unrealized P&L using the default theme.
func RenderAllocationChart(summary *models.CalculatedPortfolioSummary) ([]byte, error) {
	if summary == nil {
		return nil, ErrNoChartData
	}

	bars := make([]chart.Value, 0, len(summary.Holdings))
	maxValue := 0.0
	for _, h := range summary.Holdings {
		if h.CurrentValue <= 0 {
			continue
		}
		colour := drawing.ColorFromHex(strings.TrimPrefix(common.PnLColor(h.UnrealizedPnL, common.DefaultTheme), "#"))
		bars = append(bars, chart.Value{
			Label: chartLabel(h.Holding),
			Value: h.CurrentValue,
			Style: chart.Style{
				FillColor:   colour,
				StrokeColor: colour,
				StrokeWidth: 1,
			},
		})
		if h.CurrentValue > maxValue {
			maxValue = h.CurrentValue
		}
	}
	if len(bars) == 0 {
		return nil, ErrNoChartData
	}

	graph := chart.BarChart{
		Title:    "Allocation by Current Value",
		Width:    900,
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return common.FormatCurrencyValue(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func chartLabel(h models.Holding) string {
	if h.Product.Symbol != "" {
		return h.Product.Symbol
	}
	return h.ProductID
}
