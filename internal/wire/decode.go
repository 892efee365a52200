package wire

import (
	"math"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// fields records which keys were present in a decoded object.
type fields map[string]struct{}

func (f fields) require(names ...string) error {
	for _, name := range names {
		if _, ok := f[name]; !ok {
			return &ValidationError{Field: name, Rule: "required"}
		}
	}
	return nil
}

// DecodeQuoteRequest parses and validates a quote request.
func DecodeQuoteRequest(data []byte) (QuoteRequest, error) {
	var req QuoteRequest
	seen := fields{}
	err := decodeObject(data, seen, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "user_id":
			req.UserID, err = readString(d, key)
		case "tier":
			req.Tier, err = readString(d, key)
		case "region":
			req.Region, err = readString(d, key)
		case "coupon":
			req.Coupon, err = readOptionalString(d, key)
		case "items":
			req.Items, err = readItems(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return req, err
	}
	if err := seen.require("user_id", "tier", "region", "items"); err != nil {
		return req, err
	}
	return req, ValidateQuote(req)
}

// DecodeChargeRequest parses and validates a charge request. A missing
// currency defaults to DefaultCurrency.
func DecodeChargeRequest(data []byte) (ChargeRequest, error) {
	req := ChargeRequest{Currency: DefaultCurrency}
	seen := fields{}
	err := decodeObject(data, seen, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "user_id":
			req.UserID, err = readString(d, key)
		case "amount":
			req.Amount, err = readFloat(d, key)
		case "currency":
			req.Currency, err = readString(d, key)
		case "payment_method":
			req.PaymentMethod, err = readString(d, key)
		case "region":
			req.Region, err = readString(d, key)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return req, err
	}
	if err := seen.require("user_id", "amount", "payment_method", "region"); err != nil {
		return req, err
	}
	return req, Validate(req)
}

// DecodeRiskRequest parses and validates a risk assessment request.
func DecodeRiskRequest(data []byte) (RiskRequest, error) {
	return DecodeChargeRequest(data)
}

// DecodeEligibilityRequest parses and validates a promotion eligibility
// request.
func DecodeEligibilityRequest(data []byte) (EligibilityRequest, error) {
	var req EligibilityRequest
	seen := fields{}
	err := decodeObject(data, seen, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "tier":
			req.Tier, err = readString(d, key)
		case "region":
			req.Region, err = readString(d, key)
		case "order_count":
			req.OrderCount, err = readInt(d, key)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return req, err
	}
	if err := seen.require("tier", "region", "order_count"); err != nil {
		return req, err
	}
	return req, Validate(req)
}

// DecodeBulkDiscountRequest parses and validates a bulk discount request.
func DecodeBulkDiscountRequest(data []byte) (BulkDiscountRequest, error) {
	var req BulkDiscountRequest
	seen := fields{}
	err := decodeObject(data, seen, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "subtotal":
			req.Subtotal, err = readFloat(d, key)
		case "item_count":
			req.ItemCount, err = readInt(d, key)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return req, err
	}
	if err := seen.require("subtotal", "item_count"); err != nil {
		return req, err
	}
	return req, Validate(req)
}

// decodeObject iterates the top-level object of data. Field type errors
// surface as *ValidationError, everything else as *DecodeError.
// Bytes after the top-level value are a syntax error.
func decodeObject(data []byte, seen fields, fn func(d *jx.Decoder, key string) error) error {
	if err := jx.DecodeBytes(data).Validate(); err != nil {
		return &DecodeError{Err: err}
	}
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return &ValidationError{Field: "body", Rule: "object"}
	}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		seen[key] = struct{}{}
		return fn(d, key)
	})
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &DecodeError{Err: err}
}

func readItems(d *jx.Decoder) ([]OrderItem, error) {
	if err := expect(d, jx.Array, "items"); err != nil {
		return nil, err
	}
	items := []OrderItem{}
	err := d.Arr(func(d *jx.Decoder) error {
		if err := expect(d, jx.Object, "items"); err != nil {
			return err
		}
		var (
			it   OrderItem
			seen = fields{}
		)
		if err := d.Obj(func(d *jx.Decoder, key string) (err error) {
			seen[key] = struct{}{}
			switch key {
			case "sku":
				it.SKU, err = readString(d, "sku")
			case "qty":
				it.Qty, err = readInt(d, "qty")
			case "unit_price":
				it.UnitPrice, err = readFloat(d, "unit_price")
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		if err := seen.require("sku", "qty", "unit_price"); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	return items, err
}

// expect checks the type of the next value. Malformed input is reported by
// skipping the value so that the syntax error propagates.
func expect(d *jx.Decoder, want jx.Type, field string) error {
	switch d.Next() {
	case want:
		return nil
	case jx.Invalid:
		return d.Skip()
	default:
		return &ValidationError{Field: field, Rule: want.String()}
	}
}

func readString(d *jx.Decoder, field string) (string, error) {
	if err := expect(d, jx.String, field); err != nil {
		return "", err
	}
	return d.Str()
}

func readOptionalString(d *jx.Decoder, field string) (*string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	s, err := readString(d, field)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func readFloat(d *jx.Decoder, field string) (float64, error) {
	if err := expect(d, jx.Number, field); err != nil {
		return 0, err
	}
	return d.Float64()
}

// readInt accepts integral numbers written with a fraction, like 2.0.
func readInt(d *jx.Decoder, field string) (int, error) {
	f, err := readFloat(d, field)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, &ValidationError{Field: field, Rule: "int"}
	}
	return int(f), nil
}
