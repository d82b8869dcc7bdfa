package models

import "time"

// KYCStatus is the review state of a KYC submission
type KYCStatus string

const (
	KYCStatusNone     KYCStatus = "none"
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusApproved KYCStatus = "approved"
	KYCStatusRejected KYCStatus = "rejected"
)

// KYCSubmission is a user's identity verification request
type KYCSubmission struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	FullName       string     `json:"fullName"`
	DocumentType   string     `json:"documentType"`
	DocumentNumber string     `json:"documentNumber"`
	Country        string     `json:"country,omitempty"`
	Status         KYCStatus  `json:"status"`
	ReviewNote     string     `json:"reviewNote,omitempty"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
}

// KYCReview is an admin's decision on a submission
type KYCReview struct {
	Status KYCStatus `json:"status"` // approved or rejected
	Note   string    `json:"note,omitempty"`
}

// OrderSide is buy or sell
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderType is market or limit
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusExecuted  OrderStatus = "executed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderRequest is what a user submits to place an order
type OrderRequest struct {
	ProductID  string    `json:"productId"`
	Side       OrderSide `json:"side"`
	Type       OrderType `json:"type"`
	Quantity   float64   `json:"quantity"`
	LimitPrice *float64  `json:"limitPrice,omitempty"`
	WalletID   string    `json:"walletId,omitempty"`
}

// Order is a placed order as held by the backend
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	ProductID  string      `json:"productId"`
	Side       OrderSide   `json:"side"`
	Type       OrderType   `json:"type"`
	Quantity   float64     `json:"quantity"`
	LimitPrice *float64    `json:"limitPrice,omitempty"`
	Status     OrderStatus `json:"status"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// OrderValidation is the result of client-side order pre-validation.
// Errors block submission; warnings do not.
type OrderValidation struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	EstimatedTotal float64  `json:"estimatedTotal"`
}

// WithdrawalStatus is the lifecycle state of a withdrawal
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
)

// WithdrawalRequest is what a user submits to withdraw funds
type WithdrawalRequest struct {
	WalletID    string  `json:"walletId"`
	Amount      float64 `json:"amount"`
	Destination string  `json:"destination"`
}

// Withdrawal is a withdrawal as held by the backend
type Withdrawal struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	WalletID    string           `json:"walletId"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency"`
	Destination string           `json:"destination"`
	Status      WithdrawalStatus `json:"status"`
	Note        string           `json:"note,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Decision is an admin approve/reject action on an order or withdrawal
type Decision struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

// Wallet is a user's balance account. Key material never leaves the backend.
type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Currency  string    `json:"currency"`
	Balance   float64   `json:"balance"`
	Available float64   `json:"available"`
	Address   string    `json:"address,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
