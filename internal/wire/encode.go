package wire

import (
	"github.com/go-faster/jx"

	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/domain/pricing"
)

// EncodeQuote writes a priced quote.
func EncodeQuote(q pricing.Quote) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("subtotal", func(e *jx.Encoder) { e.Float64(q.Subtotal) })
		e.Field("discount", func(e *jx.Encoder) { e.Float64(q.Discount) })
		e.Field("tax", func(e *jx.Encoder) { e.Float64(q.Tax) })
		e.Field("total", func(e *jx.Encoder) { e.Float64(q.Total) })
		e.Field("currency", func(e *jx.Encoder) { e.Str(q.Currency) })
	})
	return e.Bytes()
}

// EncodeCharge writes a charge decision.
func EncodeCharge(r billing.ChargeResult) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("approved", func(e *jx.Encoder) { e.Bool(r.Approved) })
		e.Field("reason", func(e *jx.Encoder) { e.Str(r.Reason) })
		e.Field("risk_score", func(e *jx.Encoder) { e.Float64(r.RiskScore) })
	})
	return e.Bytes()
}

// EncodeRiskReport writes a full risk assessment. Flags are always an
// array, possibly empty.
func EncodeRiskReport(r billing.RiskReport) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("score", func(e *jx.Encoder) { e.Float64(r.Score) })
		e.Field("high_risk", func(e *jx.Encoder) { e.Bool(r.HighRisk) })
		e.Field("medium_risk", func(e *jx.Encoder) { e.Bool(r.MediumRisk) })
		e.Field("flags", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, f := range r.Flags {
					e.Str(f)
				}
			})
		})
		e.Field("requires_verification", func(e *jx.Encoder) { e.Bool(r.RequiresVerification) })
		e.Field("reason", func(e *jx.Encoder) { e.Str(r.Reason) })
	})
	return e.Bytes()
}

// EncodeEligibility writes a promotion eligibility answer.
func EncodeEligibility(eligible bool) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("eligible", func(e *jx.Encoder) { e.Bool(eligible) })
	})
	return e.Bytes()
}

// EncodeMinimumOrder writes the advisory minimum order of a region.
func EncodeMinimumOrder(region string, amount float64) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("region", func(e *jx.Encoder) { e.Str(region) })
		e.Field("minimum_order", func(e *jx.Encoder) { e.Float64(amount) })
	})
	return e.Bytes()
}

// EncodeBulkDiscount writes a standalone bulk discount.
func EncodeBulkDiscount(discount float64) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("discount", func(e *jx.Encoder) { e.Float64(discount) })
	})
	return e.Bytes()
}

// EncodeStatus writes {"status": status}.
func EncodeStatus(status string) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str(status) })
	})
	return e.Bytes()
}

// EncodeError writes the error body {"code": code, "message": msg}.
func EncodeError(code int, msg string) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})
	return e.Bytes()
}
