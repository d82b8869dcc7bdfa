// Package models defines data structures for marketdesk
package models

import "time"

// ProductStatus indicates whether a product can be traded
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusClosed   ProductStatus = "closed"
)

// Product is an investment product listed on the marketplace.
// SharePrice is nil when the backend has no current price.
type Product struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Symbol     string        `json:"symbol"`
	Category   string        `json:"category,omitempty"`
	SharePrice *float64      `json:"sharePrice"`
	Status     ProductStatus `json:"status"`
}

// IsActive reports whether the product accepts orders.
func (p Product) IsActive() bool {
	return p.Status == "" || p.Status == ProductStatusActive
}

// Holding is one position in an investment product
type Holding struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	Product       Product   `json:"product"`
	Quantity      float64   `json:"quantity"`
	TotalInvested float64   `json:"totalInvested"` // cost basis net of sells
	AverageCost   float64   `json:"averageCost,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// CalculatedHolding is a Holding with its derived valuation fields
type CalculatedHolding struct {
	Holding
	CurrentValue            float64 `json:"currentValue"`
	UnrealizedPnL           float64 `json:"unrealizedPnL"`
	UnrealizedPnLPercentage float64 `json:"unrealizedPnLPercentage"`
}

// PortfolioSummary is the set of holdings for one account, as fetched
type PortfolioSummary struct {
	AccountID string    `json:"accountId"`
	Holdings  []Holding `json:"holdings"`
	FetchedAt time.Time `json:"fetchedAt,omitempty"`
}

// CalculatedPortfolioSummary is a PortfolioSummary with per-holding and
// portfolio-level valuation. Recomputed on every fetch; never persisted.
type CalculatedPortfolioSummary struct {
	AccountID          string              `json:"accountId"`
	Holdings           []CalculatedHolding `json:"holdings"`
	TotalValue         float64             `json:"totalValue"`
	TotalInvested      float64             `json:"totalInvested"`
	TotalPnL           float64             `json:"totalPnL"`
	TotalPnLPercentage float64             `json:"totalPnLPercentage"`
	FetchedAt          time.Time           `json:"fetchedAt,omitempty"`
}
