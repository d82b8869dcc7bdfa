// Package interfaces defines service contracts for marketdesk
package interfaces

import (
	"context"

	"github.com/bobmcallan/marketdesk/internal/models"
)

// Authenticator exchanges credentials for a backend token
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
}

// PortfolioSource provides the authenticated user's holdings
type PortfolioSource interface {
	GetPortfolio(ctx context.Context) (*models.PortfolioSummary, error)
}

// TradingClient provides the user-facing trading endpoints
type TradingClient interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	GetWallet(ctx context.Context, walletID string) (*models.Wallet, error)
	ListWithdrawals(ctx context.Context) ([]models.Withdrawal, error)
	RequestWithdrawal(ctx context.Context, req models.WithdrawalRequest) (*models.Withdrawal, error)
	SubmitKYC(ctx context.Context, sub models.KYCSubmission) (*models.KYCSubmission, error)
}

// AdminClient provides the admin review endpoints
type AdminClient interface {
	AdminListUsers(ctx context.Context) ([]models.User, error)
	AdminUpdateUserStatus(ctx context.Context, userID string, status models.UserStatus) (*models.User, error)
	AdminListKYC(ctx context.Context, status models.KYCStatus) ([]models.KYCSubmission, error)
	AdminReviewKYC(ctx context.Context, submissionID string, review models.KYCReview) (*models.KYCSubmission, error)
	AdminListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	AdminDecideOrder(ctx context.Context, orderID string, d models.Decision) (*models.Order, error)
	AdminListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.Withdrawal, error)
	AdminDecideWithdrawal(ctx context.Context, withdrawalID string, d models.Decision) (*models.Withdrawal, error)
	AdminListWallets(ctx context.Context) ([]models.Wallet, error)
}

// MarketplaceClient is the full backend surface
type MarketplaceClient interface {
	Authenticator
	PortfolioSource
	TradingClient
	AdminClient
	GetProfile(ctx context.Context) (*models.User, error)
}
