package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

type stubPortfolio struct {
	summary *models.CalculatedPortfolioSummary
	err     error
}

func (s stubPortfolio) GetValuation(context.Context) (*models.CalculatedPortfolioSummary, error) {
	return s.summary, s.err
}

func (s stubPortfolio) RenderAllocationChart(*models.CalculatedPortfolioSummary) ([]byte, error) {
	return nil, nil
}

func TestValuationReport(t *testing.T) {
	svc := NewService(stubPortfolio{summary: sampleSummary()}, common.NewSilentLogger())

	rep, err := svc.ValuationReport(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rep.Markdown, "ACME")
	assert.Equal(t, 1200.0, rep.Summary.TotalValue)
	assert.NotEmpty(t, rep.GeneratedAt)
}

func TestValuationReport_Error(t *testing.T) {
	svc := NewService(stubPortfolio{err: errors.New("unauthorized")}, common.NewSilentLogger())

	_, err := svc.ValuationReport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get valuation")
}
