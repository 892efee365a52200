package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/billing-api/internal/wire"
)

// PostQuote prices an order.
func (h *Handler) PostQuote(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := wire.DecodeQuoteRequest(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	quote := h.billing.CreateQuote(r.Context(), req.Billing())
	writeJSON(w, http.StatusOK, wire.EncodeQuote(quote))
}

// PostCharge scores a charge and returns the approval decision.
func (h *Handler) PostCharge(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := wire.DecodeChargeRequest(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res := h.billing.Charge(r.Context(), req.Billing())
	writeJSON(w, http.StatusOK, wire.EncodeCharge(res))
}

// PostRiskAssessment returns the full risk report of a charge.
func (h *Handler) PostRiskAssessment(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := wire.DecodeRiskRequest(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report := h.billing.AssessCharge(r.Context(), req.Billing())
	writeJSON(w, http.StatusOK, wire.EncodeRiskReport(report))
}

// PostPromotionEligibility reports promotion eligibility.
func (h *Handler) PostPromotionEligibility(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := wire.DecodeEligibilityRequest(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	eligible := h.billing.PromotionEligibility(req.Tier, req.Region, req.OrderCount)
	writeJSON(w, http.StatusOK, wire.EncodeEligibility(eligible))
}

// PostBulkDiscount computes the standalone bulk discount.
func (h *Handler) PostBulkDiscount(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := wire.DecodeBulkDiscountRequest(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	discount := h.billing.BulkDiscount(req.Subtotal, req.ItemCount)
	writeJSON(w, http.StatusOK, wire.EncodeBulkDiscount(discount))
}

// GetMinimumOrder returns the advisory minimum order of a region.
func (h *Handler) GetMinimumOrder(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	if err := wire.ValidateRegion(region); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.EncodeMinimumOrder(region, h.billing.MinimumOrder(region)))
}

// GetHealth is the fixed liveness payload kept for existing clients.
func (h *Handler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, wire.EncodeStatus("ok"))
}
