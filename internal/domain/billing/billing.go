package billing

import (
	"github.com/xenking/billing-api/internal/domain/pricing"
	"github.com/xenking/billing-api/internal/domain/risk"
)

// QuoteRequest holds the input for pricing an order.
type QuoteRequest struct {
	UserID string
	Tier   string
	Region string
	Items  []pricing.Item
	Coupon *string
}

// ChargeRequest holds the input for a charge decision.
type ChargeRequest struct {
	UserID        string
	Amount        float64
	Currency      string
	PaymentMethod string
	Region        string
}

// ChargeResult is the approval decision for a charge.
type ChargeResult struct {
	Approved  bool
	Reason    string
	RiskScore float64
}

// RiskReport is the full risk assessment of a charge, including whether the
// charge needs additional verification.
type RiskReport struct {
	risk.Assessment
	RequiresVerification bool
	Reason               string
}
