// Package risk scores charges for fraud risk.
//
// The base score is a deterministic pseudo-random value derived from the
// user identifier. It is a placeholder for a real fraud model and carries
// no signal by itself; business rules for amount, region and payment
// method are layered on top of it.
package risk

import (
	"crypto/md5" //nolint:gosec // stable seed derivation, not used for security
	"encoding/binary"

	"github.com/xenking/billing-api/internal/domain/discount"
	"github.com/xenking/billing-api/internal/money"
)

// Payment methods.
const (
	MethodCard    = "card"
	MethodInvoice = "invoice"
)

// Flags attached to an assessment.
const (
	FlagHighAmount        = "high_amount"
	FlagAPACInvoiceReview = "apac_invoice_review"
	FlagAPACRegion        = "apac_region"
	FlagInvoicePayment    = "invoice_payment"
)

// Reasons returned to callers.
const (
	ReasonHighRisk = "Transaction flagged for high risk"
	ReasonReview   = "Transaction flagged for review"
	ReasonApproved = "Transaction approved"
)

const (
	// HighRiskThreshold is the score from which a charge is declined.
	HighRiskThreshold = 0.7
	// MediumRiskThreshold is the score from which a charge is reviewed.
	MediumRiskThreshold = 0.4
	// VerificationAmount is the amount above which medium-risk charges
	// need extra verification.
	VerificationAmount = 2000.0
	// DefaultAmountThreshold applies to methods missing from AmountThresholds.
	DefaultAmountThreshold = 5000.0
)

// Score adjustments.
const (
	highAmountWeight        = 0.2
	apacInvoiceReviewWeight = 0.25
	apacRegionWeight        = 0.1
	euRegionWeight          = -0.05
	invoicePaymentWeight    = 0.15
)

// AmountThresholds maps a payment method to the amount above which the
// charge is flagged as high amount.
var AmountThresholds = map[string]float64{
	MethodCard:    5000,
	MethodInvoice: 10000,
}

// Assessment is the outcome of scoring a single charge. MediumRisk is not
// exclusive of HighRisk.
type Assessment struct {
	Score      float64
	HighRisk   bool
	MediumRisk bool
	Flags      []string
}

// HasFlag reports whether the assessment carries flag.
func (a Assessment) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// BaseScore derives a repeatable value in [0, 1) from userID: the first
// four bytes of its MD5 digest as a big-endian integer, modulo 100, over 100.
func BaseScore(userID string) float64 {
	sum := md5.Sum([]byte(userID)) //nolint:gosec
	return float64(binary.BigEndian.Uint32(sum[:4])%100) / 100.0
}

// AmountThreshold returns the high-amount threshold for method.
func AmountThreshold(method string) float64 {
	if v, ok := AmountThresholds[method]; ok {
		return v
	}
	return DefaultAmountThreshold
}

// Assess scores a charge. The same inputs always produce the same result.
func Assess(userID string, amount float64, region, method string) Assessment {
	score := BaseScore(userID)
	var flags []string

	if amount > AmountThreshold(method) {
		score += highAmountWeight
		flags = append(flags, FlagHighAmount)
	}

	switch {
	case region == discount.RegionAPAC && method == MethodInvoice:
		score += apacInvoiceReviewWeight
		flags = append(flags, FlagAPACInvoiceReview)
	case region == discount.RegionAPAC:
		score += apacRegionWeight
		flags = append(flags, FlagAPACRegion)
	case region == discount.RegionEU:
		score += euRegionWeight
	}

	// Applies on top of the APAC invoice review above.
	if method == MethodInvoice {
		score += invoicePaymentWeight
		flags = append(flags, FlagInvoicePayment)
	}

	score = money.RoundMoney(money.Clamp(score, 0, 1))

	return Assessment{
		Score:      score,
		HighRisk:   score >= HighRiskThreshold,
		MediumRisk: score >= MediumRiskThreshold,
		Flags:      flags,
	}
}

// RequiresVerification reports whether a charge needs additional
// verification before it is processed.
func RequiresVerification(a Assessment, amount float64) bool {
	if a.HighRisk {
		return true
	}
	return a.MediumRisk && amount > VerificationAmount
}

// Reason returns the human-readable explanation for an assessment.
func Reason(a Assessment) string {
	switch {
	case a.HighRisk:
		return ReasonHighRisk
	case a.MediumRisk:
		return ReasonReview
	default:
		return ReasonApproved
	}
}
