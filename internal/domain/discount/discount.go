// Package discount implements the order discount policy: tier and coupon
// percentages, a weekend bonus, a regional multiplier and an overall cap.
//
// The policy is permissive. Unknown tiers, coupons and regions contribute
// nothing instead of failing; input shape is validated at the transport
// boundary.
package discount

import (
	"strings"

	"github.com/xenking/billing-api/internal/money"
)

// Tier names.
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// Region codes.
const (
	RegionEU   = "EU"
	RegionUS   = "US"
	RegionAPAC = "APAC"
)

const (
	// WeekendBonusPercent is added on Saturday and Sunday.
	WeekendBonusPercent = 5.0
	// MaxDiscountRatio caps the total discount relative to the subtotal.
	MaxDiscountRatio = 0.6
	// FirstWeekendDay is Saturday with Monday=0 numbering.
	FirstWeekendDay = 5
)

// Promotion eligibility thresholds by tier.
const (
	ProPromotionOrders     = 3
	DefaultPromotionOrders = 10
)

// TierPercentages maps a lower-cased tier to its discount percentage.
var TierPercentages = map[string]float64{
	TierFree:       0,
	TierPro:        5,
	TierEnterprise: 15,
}

// CouponPercentages maps a normalized coupon code to its percentage.
var CouponPercentages = map[string]float64{
	"SAVE10":  10,
	"SAVE20":  20,
	"WELCOME": 15,
	"VIP50":   50,
}

// RegionMultipliers scales the accumulated discount per region.
var RegionMultipliers = map[string]float64{
	RegionEU:   1.0,
	RegionUS:   1.0,
	RegionAPAC: 1.2,
}

// TierPercent returns the discount percentage for tier, matched
// case-insensitively. Unknown tiers get 0.
func TierPercent(tier string) float64 {
	return TierPercentages[strings.ToLower(tier)]
}

// CouponPercent normalizes code and reports its percentage if it is a
// known coupon.
func CouponPercent(code *string) (float64, bool) {
	normalized, ok := money.NormalizeCoupon(code)
	if !ok {
		return 0, false
	}
	pct, ok := CouponPercentages[normalized]
	return pct, ok
}

// IsWeekend reports whether weekday (Monday=0 .. Sunday=6) falls on a weekend.
func IsWeekend(weekday int) bool {
	return weekday >= FirstWeekendDay
}

// Compute returns the total discount for an order. Each contribution is
// rounded to cents as it is added; the APAC multiplier and the cap are
// applied to the rounded running total.
func Compute(tier, region string, subtotal float64, coupon *string, weekday int) float64 {
	if subtotal <= 0 {
		return 0
	}

	discount := 0.0
	discount += money.Percentage(subtotal, TierPercent(tier))

	if pct, ok := CouponPercent(coupon); ok {
		discount += money.Percentage(subtotal, pct)
	}

	if IsWeekend(weekday) {
		discount += money.Percentage(subtotal, WeekendBonusPercent)
	}

	// EU and US carry a neutral multiplier and are left untouched.
	if region == RegionAPAC {
		discount = money.RoundMoney(discount * RegionMultipliers[RegionAPAC])
	}

	if maxDiscount := money.RoundMoney(subtotal * MaxDiscountRatio); discount > maxDiscount {
		discount = maxDiscount
	}

	return money.RoundMoney(discount)
}

// IsEligibleForPromotion reports whether a customer qualifies for special
// promotions. Enterprise customers always qualify; pro customers need
// ProPromotionOrders previous orders and everyone else needs
// DefaultPromotionOrders. The region does not influence eligibility.
func IsEligibleForPromotion(tier, _ string, orderCount int) bool {
	switch tier {
	case TierEnterprise:
		return true
	case TierPro:
		return orderCount >= ProPromotionOrders
	default:
		return orderCount >= DefaultPromotionOrders
	}
}
