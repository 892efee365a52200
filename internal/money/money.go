// Package money holds the rounding and coercion helpers shared by the
// pricing and risk packages. Every monetary intermediate passes through
// Round so that results stay reproducible across implementations.
package money

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the precision used for currency amounts.
const DefaultDecimals = 2

// Round rounds value to the given number of decimal places using
// round-half-up semantics (ties away from zero). The value is converted to
// its shortest decimal representation first, so 10.555 rounds to 10.56
// rather than drifting down with its binary expansion.
func Round(value float64, decimals int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(decimals).InexactFloat64()
}

// RoundMoney rounds value to DefaultDecimals places.
func RoundMoney(value float64) float64 {
	return Round(value, DefaultDecimals)
}

// NormalizeCoupon trims and upper-cases a coupon code. It reports false
// when the code is absent or blank.
func NormalizeCoupon(code *string) (string, bool) {
	if code == nil {
		return "", false
	}
	normalized := strings.ToUpper(strings.TrimSpace(*code))
	if normalized == "" {
		return "", false
	}
	return normalized, true
}

// SafeFloat coerces v to a non-negative float64. It returns def when v is
// nil, cannot be interpreted as a number, or is negative.
func SafeFloat(v any, def float64) float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return def
	}
	return f
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Clamp bounds value to the closed range [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// Percentage returns pct percent of amount, rounded to cents.
func Percentage(amount, pct float64) float64 {
	return RoundMoney(amount * (pct / 100.0))
}
