package trading

import (
	"context"
	"fmt"

	"github.com/bobmcallan/marketdesk/internal/clients/marketplace"
	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/interfaces"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// Client is the backend surface the trading service needs
type Client interface {
	interfaces.TradingClient
	interfaces.PortfolioSource
}

// Service implements interfaces.TradingService
type Service struct {
	client     Client
	thresholds Thresholds
	logger     *common.Logger
}

var _ interfaces.TradingService = (*Service)(nil)

// NewService creates a new trading service
func NewService(client Client, thresholds Thresholds, logger *common.Logger) *Service {
	return &Service{
		client:     client,
		thresholds: thresholds.withDefaults(),
		logger:     logger,
	}
}

// Validate loads the product, wallet and position for req and runs ValidateOrder.
func (s *Service) Validate(ctx context.Context, req models.OrderRequest) (*models.OrderValidation, error) {
	oc, err := s.loadContext(ctx, req)
	if err != nil {
		return nil, err
	}
	v := ValidateOrder(req, oc)
	return &v, nil
}

// PlaceOrder validates req and submits it only when there are no errors.
// The validation is always returned so warnings reach the caller.
func (s *Service) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.Order, *models.OrderValidation, error) {
	v, err := s.Validate(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if !v.Valid {
		s.logger.Info().Str("product_id", req.ProductID).Strs("errors", v.Errors).Msg("Order rejected by pre-validation")
		return nil, v, nil
	}

	order, err := s.client.PlaceOrder(ctx, req)
	if err != nil {
		return nil, v, fmt.Errorf("place order: %w", err)
	}
	s.logger.Info().Str("order_id", order.ID).Str("side", string(req.Side)).Msg("Order submitted")
	return order, v, nil
}

func (s *Service) loadContext(ctx context.Context, req models.OrderRequest) (OrderContext, error) {
	oc := OrderContext{Thresholds: s.thresholds}
	if req.ProductID == "" {
		return oc, nil
	}

	product, err := s.client.GetProduct(ctx, req.ProductID)
	if err != nil {
		if marketplace.IsNotFound(err) {
			return oc, nil
		}
		return oc, fmt.Errorf("load product: %w", err)
	}
	oc.Product = product

	switch req.Side {
	case models.OrderSideBuy:
		wallet, err := s.resolveWallet(ctx, req.WalletID)
		if err != nil {
			return oc, err
		}
		oc.Wallet = wallet
	case models.OrderSideSell:
		portfolio, err := s.client.GetPortfolio(ctx)
		if err != nil {
			return oc, fmt.Errorf("load portfolio: %w", err)
		}
		for _, h := range portfolio.Holdings {
			if h.ProductID == req.ProductID {
				oc.HeldQuantity += h.Quantity
			}
		}
	}
	return oc, nil
}

// resolveWallet returns the named wallet, or the user's first wallet when
// no ID is given. A user with no wallets gets an empty wallet, so any buy
// fails the balance check.
func (s *Service) resolveWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	if walletID != "" {
		w, err := s.client.GetWallet(ctx, walletID)
		if err != nil {
			return nil, fmt.Errorf("load wallet: %w", err)
		}
		return w, nil
	}
	wallets, err := s.client.ListWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	if len(wallets) == 0 {
		return &models.Wallet{}, nil
	}
	return &wallets[0], nil
}
