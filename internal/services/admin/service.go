// Package admin provides the admin review queue: KYC, orders, withdrawals
// and user standing.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/interfaces"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// ErrInvalidInput is returned for review actions the backend would reject.
var ErrInvalidInput = errors.New("invalid admin action")

// Dashboard is the admin landing view. Each slot succeeds or fails on its own.
type Dashboard struct {
	PendingKYC         models.Result[[]models.KYCSubmission] `json:"pendingKyc"`
	PendingOrders      models.Result[[]models.Order]         `json:"pendingOrders"`
	PendingWithdrawals models.Result[[]models.Withdrawal]    `json:"pendingWithdrawals"`
	UserCount          models.Result[int]                    `json:"userCount"`
	GeneratedAt        time.Time                             `json:"generatedAt"`
}

// Service wraps the admin endpoints and reports outcomes as notifications.
type Service struct {
	client   interfaces.AdminClient
	notifier interfaces.NotificationService
	logger   *common.Logger
}

// NewService creates a new admin service. notifier may be nil.
func NewService(client interfaces.AdminClient, notifier interfaces.NotificationService, logger *common.Logger) *Service {
	return &Service{client: client, notifier: notifier, logger: logger}
}

// Dashboard loads the pending queues and user count concurrently.
func (s *Service) Dashboard(ctx context.Context) *Dashboard {
	d := &Dashboard{}
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		d.PendingKYC = models.From[[]models.KYCSubmission](s.client.AdminListKYC(ctx, models.KYCStatusPending))
	}()
	go func() {
		defer wg.Done()
		d.PendingOrders = models.From[[]models.Order](s.client.AdminListOrders(ctx, models.OrderStatusPending))
	}()
	go func() {
		defer wg.Done()
		d.PendingWithdrawals = models.From[[]models.Withdrawal](s.client.AdminListWithdrawals(ctx, models.WithdrawalStatusPending))
	}()
	go func() {
		defer wg.Done()
		users, err := s.client.AdminListUsers(ctx)
		d.UserCount = models.From(len(users), err)
	}()

	wg.Wait()
	d.GeneratedAt = time.Now()

	for name, err := range map[string]error{
		"kyc":         d.PendingKYC.Error(),
		"orders":      d.PendingOrders.Error(),
		"withdrawals": d.PendingWithdrawals.Error(),
		"users":       d.UserCount.Error(),
	} {
		if err != nil {
			s.logger.Warn().Err(err).Str("slot", name).Msg("Dashboard slot failed")
		}
	}
	return d
}

func (s *Service) notify(ctx context.Context, title, message string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, models.NotificationSuccess, title, message)
	}
}

func verdict(approve bool) string {
	if approve {
		return "approved"
	}
	return "rejected"
}

// DecideOrder approves or rejects a pending order.
func (s *Service) DecideOrder(ctx context.Context, orderID string, d models.Decision) (*models.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order ID is required", ErrInvalidInput)
	}
	order, err := s.client.AdminDecideOrder(ctx, orderID, d)
	if err != nil {
		return nil, fmt.Errorf("decide order: %w", err)
	}
	s.logger.Info().Str("order_id", orderID).Bool("approve", d.Approve).Msg("Order decided")
	s.notify(ctx, "Order "+verdict(d.Approve), fmt.Sprintf("Order %s was %s", orderID, verdict(d.Approve)))
	return order, nil
}

// DecideWithdrawal approves or rejects a pending withdrawal.
func (s *Service) DecideWithdrawal(ctx context.Context, withdrawalID string, d models.Decision) (*models.Withdrawal, error) {
	if withdrawalID == "" {
		return nil, fmt.Errorf("%w: withdrawal ID is required", ErrInvalidInput)
	}
	wd, err := s.client.AdminDecideWithdrawal(ctx, withdrawalID, d)
	if err != nil {
		return nil, fmt.Errorf("decide withdrawal: %w", err)
	}
	s.logger.Info().Str("withdrawal_id", withdrawalID).Bool("approve", d.Approve).Msg("Withdrawal decided")
	s.notify(ctx, "Withdrawal "+verdict(d.Approve),
		fmt.Sprintf("Withdrawal of %s was %s", common.FormatCurrencyValue(wd.Amount), verdict(d.Approve)))
	return wd, nil
}

// ReviewKYC approves or rejects a KYC submission.
func (s *Service) ReviewKYC(ctx context.Context, submissionID string, review models.KYCReview) (*models.KYCSubmission, error) {
	if submissionID == "" {
		return nil, fmt.Errorf("%w: submission ID is required", ErrInvalidInput)
	}
	if review.Status != models.KYCStatusApproved && review.Status != models.KYCStatusRejected {
		return nil, fmt.Errorf("%w: review status must be approved or rejected", ErrInvalidInput)
	}
	sub, err := s.client.AdminReviewKYC(ctx, submissionID, review)
	if err != nil {
		return nil, fmt.Errorf("review kyc: %w", err)
	}
	s.logger.Info().Str("submission_id", submissionID).Str("status", string(review.Status)).Msg("KYC reviewed")
	s.notify(ctx, "KYC "+string(review.Status), fmt.Sprintf("KYC submission %s was %s", submissionID, review.Status))
	return sub, nil
}

// SetUserStatus activates or suspends a user.
func (s *Service) SetUserStatus(ctx context.Context, userID string, status models.UserStatus) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}
	if !models.ValidUserStatus(status) {
		return nil, fmt.Errorf("%w: unknown user status %q", ErrInvalidInput, status)
	}
	user, err := s.client.AdminUpdateUserStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("status", string(status)).Msg("User status updated")
	s.notify(ctx, "User "+string(status), fmt.Sprintf("%s is now %s", user.Email, status))
	return user, nil
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.client.AdminListUsers(ctx)
}

// ListKYC returns KYC submissions filtered by status ("" for all).
func (s *Service) ListKYC(ctx context.Context, status models.KYCStatus) ([]models.KYCSubmission, error) {
	return s.client.AdminListKYC(ctx, status)
}

// ListOrders returns orders filtered by status ("" for all).
func (s *Service) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.client.AdminListOrders(ctx, status)
}

// ListWithdrawals returns withdrawals filtered by status ("" for all).
func (s *Service) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.Withdrawal, error) {
	return s.client.AdminListWithdrawals(ctx, status)
}

// ListWallets returns every wallet.
func (s *Service) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	return s.client.AdminListWallets(ctx)
}
