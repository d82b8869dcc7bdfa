// Package report renders portfolio and order reports as markdown
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/interfaces"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// Report is a rendered markdown document with its source data.
type Report struct {
	Markdown    string                             `json:"markdown"`
	Summary     *models.CalculatedPortfolioSummary `json:"summary"`
	GeneratedAt string                             `json:"generatedAt"`
}

// Service builds reports from the portfolio service
type Service struct {
	portfolio interfaces.PortfolioService
	logger    *common.Logger
}

// NewService creates a new report service
func NewService(portfolio interfaces.PortfolioService, logger *common.Logger) *Service {
	return &Service{portfolio: portfolio, logger: logger}
}

// ValuationReport fetches a fresh valuation and renders it.
func (s *Service) ValuationReport(ctx context.Context) (*Report, error) {
	summary, err := s.portfolio.GetValuation(ctx)
	if err != nil {
		return nil, fmt.Errorf("get valuation: %w", err)
	}
	md := FormatValuation(summary)
	s.logger.Debug().Int("holdings", len(summary.Holdings)).Msg("Valuation report rendered")
	return &Report{
		Markdown:    md,
		Summary:     summary,
		GeneratedAt: reportTimestamp(time.Now()),
	}, nil
}
