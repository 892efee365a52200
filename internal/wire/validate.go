package wire

import (
	"reflect"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the value constraints of a decoded request and reports
// the first violation as *ValidationError.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return &ValidationError{Field: fieldPath(fe.Namespace()), Rule: fe.Tag()}
	}
	return errors.Wrap(err, "validate")
}

// ValidateQuote validates a quote request. Field constraints are checked
// before the item list is required to be non-empty.
func ValidateQuote(req QuoteRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	if len(req.Items) == 0 {
		return ErrEmptyItems
	}
	return nil
}

// fieldPath drops the struct name from a validator namespace, turning
// "QuoteRequest.items[0].qty" into "items[0].qty".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// ValidateRegion checks a region given outside a request body, such as a
// path parameter.
func ValidateRegion(region string) error {
	if err := validate.Var(region, "oneof=EU US APAC"); err != nil {
		return &ValidationError{Field: "region", Rule: "oneof"}
	}
	return nil
}
