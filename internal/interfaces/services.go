package interfaces

import (
	"context"

	"github.com/bobmcallan/marketdesk/internal/models"
)

// PortfolioService values the authenticated user's holdings
type PortfolioService interface {
	// GetValuation fetches holdings and returns the calculated summary
	GetValuation(ctx context.Context) (*models.CalculatedPortfolioSummary, error)

	// RenderAllocationChart renders per-holding current value as a PNG
	RenderAllocationChart(summary *models.CalculatedPortfolioSummary) ([]byte, error)
}

// SessionService manages marketdesk sessions backed by backend tokens
type SessionService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Invalidate(ctx context.Context, sessionID string)

	// AccessToken resolves the backend token for the session in ctx
	AccessToken(ctx context.Context) (string, error)
}

// NotificationService stores and fans out per-session notifications
type NotificationService interface {
	Notify(ctx context.Context, level models.NotificationLevel, title, message string) models.Notification
	List(ctx context.Context) []models.Notification
	MarkRead(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
}

// TradingService validates and submits orders
type TradingService interface {
	Validate(ctx context.Context, req models.OrderRequest) (*models.OrderValidation, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.Order, *models.OrderValidation, error)
}
