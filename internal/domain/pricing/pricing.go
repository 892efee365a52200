// Package pricing turns order line items into a quote: subtotal, discount,
// tax and total. Every step is rounded to cents on its own and later steps
// never correct the rounding of earlier ones.
package pricing

import (
	"github.com/xenking/billing-api/internal/domain/discount"
	"github.com/xenking/billing-api/internal/money"
)

// Currency is the only currency quotes are issued in.
const Currency = "USD"

const (
	// DefaultTaxRate applies to regions missing from TaxRates.
	DefaultTaxRate = 0.08
	// DefaultMinimumOrder applies to regions missing from MinimumOrders.
	DefaultMinimumOrder = 5.0
)

// TaxRates holds the tax rate per region.
var TaxRates = map[string]float64{
	discount.RegionEU:   0.20,
	discount.RegionUS:   0.08,
	discount.RegionAPAC: 0.10,
}

// MinimumOrders holds the advisory minimum order amount per region.
var MinimumOrders = map[string]float64{
	discount.RegionEU:   10,
	discount.RegionUS:   5,
	discount.RegionAPAC: 15,
}

// BulkTier is a flat bulk discount rate that applies from MinItems items.
type BulkTier struct {
	MinItems int
	Rate     float64
}

// BulkTiers is ordered from the largest threshold down.
var BulkTiers = []BulkTier{
	{MinItems: 100, Rate: 0.15},
	{MinItems: 50, Rate: 0.10},
	{MinItems: 20, Rate: 0.05},
}

// Item is a single order line.
type Item struct {
	SKU       string
	Quantity  int
	UnitPrice float64
}

// Quote is the price breakdown for an order.
type Quote struct {
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
	Currency string
}

// Subtotal sums quantity * unit price over items. Negative quantities or
// prices count as zero. The sum is rounded once at the end.
func Subtotal(items []Item) float64 {
	total := 0.0
	for _, item := range items {
		qty := money.SafeFloat(item.Quantity, 0)
		price := money.SafeFloat(item.UnitPrice, 0)
		total += qty * price
	}
	return money.RoundMoney(total)
}

// TaxRate returns the tax rate for region.
func TaxRate(region string) float64 {
	if rate, ok := TaxRates[region]; ok {
		return rate
	}
	return DefaultTaxRate
}

// Tax computes tax on the post-discount amount.
func Tax(taxable float64, region string) float64 {
	return money.RoundMoney(taxable * TaxRate(region))
}

// Total prices an order. An empty item list yields a zero quote.
func Total(items []Item, tier, region string, coupon *string, weekday int) Quote {
	subtotal := Subtotal(items)
	disc := discount.Compute(tier, region, subtotal, coupon, weekday)
	taxable := money.RoundMoney(subtotal - disc)
	tax := Tax(taxable, region)

	return Quote{
		Subtotal: subtotal,
		Discount: disc,
		Tax:      tax,
		Total:    money.RoundMoney(taxable + tax),
		Currency: Currency,
	}
}

// MinimumOrder returns the advisory minimum order amount for region. It is
// informational only and not enforced by Total.
func MinimumOrder(region string) float64 {
	if v, ok := MinimumOrders[region]; ok {
		return v
	}
	return DefaultMinimumOrder
}

// BulkDiscount returns the flat bulk discount for an order of itemCount
// items. It is a standalone rule and not part of Total.
func BulkDiscount(subtotal float64, itemCount int) float64 {
	for _, tier := range BulkTiers {
		if itemCount >= tier.MinItems {
			return money.RoundMoney(subtotal * tier.Rate)
		}
	}
	return 0
}

// ItemCount sums the quantities of items, ignoring non-positive ones.
func ItemCount(items []Item) int {
	n := 0
	for _, item := range items {
		if item.Quantity > 0 {
			n += item.Quantity
		}
	}
	return n
}
