package portfolio

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

type stubSource struct {
	summary *models.PortfolioSummary
	err     error
	calls   int
}

func (s *stubSource) GetPortfolio(context.Context) (*models.PortfolioSummary, error) {
	s.calls++
	return s.summary, s.err
}


func TestGetValuation_CalculatesFromSource(t *testing.T) {
	src := &stubSource{summary: &models.PortfolioSummary{
		AccountID: "acc-1",
		Holdings: []models.Holding{
			{ProductID: "p1", Product: models.Product{Symbol: "ACME", SharePrice: price(12)}, Quantity: 100, TotalInvested: 1000},
			{ProductID: "p2", Product: models.Product{Symbol: "NOPX"}, Quantity: 5, TotalInvested: 50},
		},
	}}
	svc := NewService(src, common.NewSilentLogger())

	got, err := svc.GetValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Equal(t, 1200.0, got.TotalValue)
	assert.Equal(t, 1050.0, got.TotalInvested)
	assert.Equal(t, 150.0, got.TotalPnL)
	assert.Equal(t, 14.29, got.TotalPnLPercentage)
	require.Len(t, got.Holdings, 2)
	assert.Equal(t, -50.0, got.Holdings[1].UnrealizedPnL)
}

func TestGetValuation_NeverCached(t *testing.T) {
	src := &stubSource{summary: &models.PortfolioSummary{Holdings: []models.Holding{}}}
	svc := NewService(src, common.NewSilentLogger())

	_, err := svc.GetValuation(context.Background())
	require.NoError(t, err)
	_, err = svc.GetValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestGetValuation_SourceError(t *testing.T) {
	backendErr := errors.New("unauthorized")
	svc := NewService(&stubSource{err: backendErr}, common.NewSilentLogger())

	_, err := svc.GetValuation(context.Background())
	assert.ErrorIs(t, err, backendErr)
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderAllocationChart_PNG(t *testing.T) {
	summary := CalculatePortfolioTotals(models.PortfolioSummary{Holdings: []models.Holding{
		{ProductID: "p1", Product: models.Product{Symbol: "ACME", SharePrice: price(12)}, Quantity: 100, TotalInvested: 1000},
		{ProductID: "p2", Product: models.Product{Symbol: "DOWN", SharePrice: price(1)}, Quantity: 100, TotalInvested: 500},
	}})

	png, err := NewService(&stubSource{}, common.NewSilentLogger()).RenderAllocationChart(&summary)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderAllocationChart_SingleHolding(t *testing.T) {
	summary := CalculatePortfolioTotals(models.PortfolioSummary{Holdings: []models.Holding{
		{ProductID: "p1", Product: models.Product{SharePrice: price(3)}, Quantity: 1, TotalInvested: 3},
	}})

	png, err := RenderAllocationChart(&summary)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderAllocationChart_NoData(t *testing.T) {
	_, err := RenderAllocationChart(nil)
	assert.ErrorIs(t, err, ErrNoChartData)

	summary := CalculatePortfolioTotals(models.PortfolioSummary{Holdings: []models.Holding{
		{ProductID: "p1", Quantity: 10, TotalInvested: 100},
	}})
	_, err = RenderAllocationChart(&summary)
	assert.ErrorIs(t, err, ErrNoChartData)
}
