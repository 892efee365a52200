// Package wire decodes, validates and encodes the JSON payloads exchanged
// with billing clients. It is shared by the HTTP handler and the CLI.
package wire

import (
	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/domain/pricing"
)

// DefaultCurrency is assumed when a charge omits its currency.
const DefaultCurrency = "USD"

// OrderItem is a single line of a quote request.
type OrderItem struct {
	SKU       string  `json:"sku"`
	Qty       int     `json:"qty" validate:"gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gt=0"`
}

// QuoteRequest is the body of POST /quote.
type QuoteRequest struct {
	UserID string      `json:"user_id"`
	Tier   string      `json:"tier" validate:"oneof=free pro enterprise"`
	Region string      `json:"region" validate:"oneof=EU US APAC"`
	Items  []OrderItem `json:"items" validate:"dive"`
	Coupon *string     `json:"coupon"`
}

// Billing converts the request into its domain form.
func (r QuoteRequest) Billing() billing.QuoteRequest {
	items := make([]pricing.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = pricing.Item{SKU: it.SKU, Quantity: it.Qty, UnitPrice: it.UnitPrice}
	}
	return billing.QuoteRequest{
		UserID: r.UserID,
		Tier:   r.Tier,
		Region: r.Region,
		Items:  items,
		Coupon: r.Coupon,
	}
}

// ChargeRequest is the body of POST /charge.
type ChargeRequest struct {
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	Currency      string  `json:"currency" validate:"eq=USD"`
	PaymentMethod string  `json:"payment_method" validate:"oneof=card invoice"`
	Region        string  `json:"region" validate:"oneof=EU US APAC"`
}

// Billing converts the request into its domain form.
func (r ChargeRequest) Billing() billing.ChargeRequest {
	return billing.ChargeRequest{
		UserID:        r.UserID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		PaymentMethod: r.PaymentMethod,
		Region:        r.Region,
	}
}

// RiskRequest is the body of POST /risk/assessment. It carries the same
// fields as a charge.
type RiskRequest = ChargeRequest

// EligibilityRequest is the body of POST /promotions/eligibility.
type EligibilityRequest struct {
	Tier       string `json:"tier" validate:"oneof=free pro enterprise"`
	Region     string `json:"region" validate:"oneof=EU US APAC"`
	OrderCount int    `json:"order_count" validate:"gte=0"`
}

// BulkDiscountRequest is the body of POST /bulk-discount.
type BulkDiscountRequest struct {
	Subtotal  float64 `json:"subtotal" validate:"gte=0"`
	ItemCount int     `json:"item_count" validate:"gte=0"`
}
