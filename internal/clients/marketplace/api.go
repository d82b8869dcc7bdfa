package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/bobmcallan/marketdesk/internal/models"
)

func escape(id string) string { return url.PathEscape(id) }

// Login exchanges credentials for a backend token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	var res models.LoginResult
	if err := c.post(ctx, "/auth/login", creds, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &res, nil
}

// GetProfile returns the authenticated user.
func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetPortfolio returns the authenticated user's holdings with current prices.
func (c *Client) GetPortfolio(ctx context.Context) (*models.PortfolioSummary, error) {
	var p models.PortfolioSummary
	if err := c.get(ctx, "/portfolio", nil, &p); err != nil {
		return nil, err
	}
	if p.Holdings == nil {
		p.Holdings = []models.Holding{}
	}
	for i := range p.Holdings {
		if p.Holdings[i].ProductID == "" {
			p.Holdings[i].ProductID = p.Holdings[i].Product.ID
		}
	}
	p.FetchedAt = time.Now()
	return &p, nil
}

// ListProducts returns the product catalogue.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product.
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	if err := c.get(ctx, "/products/"+escape(productID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListOrders returns the user's orders.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder submits an order. The backend performs authoritative checks.
func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	var o models.Order
	if err := c.post(ctx, "/orders", req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CancelOrder cancels a pending order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	if err := c.post(ctx, "/orders/"+escape(orderID)+"/cancel", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListWithdrawals returns the user's withdrawals.
func (c *Client) ListWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	if err := c.get(ctx, "/withdrawals", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// RequestWithdrawal submits a withdrawal request for admin approval.
func (c *Client) RequestWithdrawal(ctx context.Context, req models.WithdrawalRequest) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := c.post(ctx, "/withdrawals", req, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWallets returns the user's wallets.
func (c *Client) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	var ws []models.Wallet
	if err := c.get(ctx, "/wallets", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// GetWallet returns one of the user's wallets.
func (c *Client) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	var w models.Wallet
	if err := c.get(ctx, "/wallets/"+escape(walletID), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// SubmitKYC submits identity documents for review.
func (c *Client) SubmitKYC(ctx context.Context, sub models.KYCSubmission) (*models.KYCSubmission, error) {
	var out models.KYCSubmission
	if err := c.post(ctx, "/kyc", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Admin ---

// AdminListUsers returns all marketplace users.
func (c *Client) AdminListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminUpdateUserStatus activates or suspends a user.
func (c *Client) AdminUpdateUserStatus(ctx context.Context, userID string, status models.UserStatus) (*models.User, error) {
	var u models.User
	body := map[string]models.UserStatus{"status": status}
	if err := c.patch(ctx, "/admin/users/"+escape(userID)+"/status", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AdminListKYC returns KYC submissions, optionally filtered by status.
func (c *Client) AdminListKYC(ctx context.Context, status models.KYCStatus) ([]models.KYCSubmission, error) {
	var subs []models.KYCSubmission
	if err := c.get(ctx, "/admin/kyc", statusQuery(string(status)), &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// AdminReviewKYC records an approve/reject decision on a submission.
func (c *Client) AdminReviewKYC(ctx context.Context, submissionID string, review models.KYCReview) (*models.KYCSubmission, error) {
	var out models.KYCSubmission
	if err := c.post(ctx, "/admin/kyc/"+escape(submissionID)+"/review", review, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminListOrders returns orders, optionally filtered by status.
func (c *Client) AdminListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/admin/orders", statusQuery(string(status)), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminDecideOrder approves or rejects a pending order.
func (c *Client) AdminDecideOrder(ctx context.Context, orderID string, d models.Decision) (*models.Order, error) {
	var o models.Order
	if err := c.post(ctx, "/admin/orders/"+escape(orderID)+"/decision", d, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// AdminListWithdrawals returns withdrawals, optionally filtered by status.
func (c *Client) AdminListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	if err := c.get(ctx, "/admin/withdrawals", statusQuery(string(status)), &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// AdminDecideWithdrawal approves or rejects a pending withdrawal.
func (c *Client) AdminDecideWithdrawal(ctx context.Context, withdrawalID string, d models.Decision) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := c.post(ctx, "/admin/withdrawals/"+escape(withdrawalID)+"/decision", d, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// AdminListWallets returns all wallets for inspection.
func (c *Client) AdminListWallets(ctx context.Context) ([]models.Wallet, error) {
	var ws []models.Wallet
	if err := c.get(ctx, "/admin/wallets", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}
