// Package portfolio values marketplace holdings
package portfolio

import (
	"context"
	"fmt"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/interfaces"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// Service implements PortfolioService
type Service struct {
	source interfaces.PortfolioSource
	logger *common.Logger
}

var _ interfaces.PortfolioService = (*Service)(nil)

// NewService creates a new portfolio service
func NewService(source interfaces.PortfolioSource, logger *common.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// GetValuation fetches the current holdings and values them. Nothing is
// cached: every call reflects the backend's latest prices.
func (s *Service) GetValuation(ctx context.Context) (*models.CalculatedPortfolioSummary, error) {
	summary, err := s.source.GetPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch portfolio: %w", err)
	}

	calculated := CalculatePortfolioTotals(*summary)
	s.logger.Debug().
		Int("holdings", len(calculated.Holdings)).
		Float64("total_value", calculated.TotalValue).
		Msg("Portfolio valued")
	return &calculated, nil
}

// RenderAllocationChart renders the allocation chart for a valued portfolio.
func (s *Service) RenderAllocationChart(summary *models.CalculatedPortfolioSummary) ([]byte, error) {
	return RenderAllocationChart(summary)
}
