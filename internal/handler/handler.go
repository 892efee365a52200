// Package handler implements the billing HTTP API on top of the billing
// service.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/domain/pricing"
	"github.com/xenking/billing-api/internal/wire"
)

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is 0.
const DefaultMaxBodyBytes = 1 << 20

// Billing is the set of use cases served over HTTP. It is implemented by
// *billing.Service.
type Billing interface {
	CreateQuote(ctx context.Context, req billing.QuoteRequest) pricing.Quote
	Charge(ctx context.Context, req billing.ChargeRequest) billing.ChargeResult
	AssessCharge(ctx context.Context, req billing.ChargeRequest) billing.RiskReport
	PromotionEligibility(tier, region string, orderCount int) bool
	MinimumOrder(region string) float64
	BulkDiscount(subtotal float64, itemCount int) float64
}

var _ Billing = (*billing.Service)(nil)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	MaxBodyBytes int64
}

// Handler serves the billing endpoints.
type Handler struct {
	billing      Billing
	maxBodyBytes int64
}

// New constructs a Handler.
func New(cfg Config, svc Billing) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		billing:      svc,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps err to a status code and writes the error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	}
	writeJSON(w, status, wire.EncodeError(status, msg))
}

// mapError converts decode, validation and domain errors to an HTTP status
// and a client-facing message.
func mapError(err error) (int, string) {
	if errors.Is(err, wire.ErrEmptyItems) {
		return http.StatusBadRequest, err.Error()
	}

	var decErr *wire.DecodeError
	if errors.As(err, &decErr) {
		return http.StatusBadRequest, decErr.Error()
	}

	var valErr *wire.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusUnprocessableEntity, valErr.Error()
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "request body too large"
	}

	return http.StatusInternalServerError, "internal server error"
}
