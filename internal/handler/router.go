package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Probes serves the liveness and readiness endpoints.
type Probes interface {
	LiveEndpoint(w http.ResponseWriter, r *http.Request)
	ReadyEndpoint(w http.ResponseWriter, r *http.Request)
}

// NewRouter mounts the billing API and the probes on a chi router.
func NewRouter(h *Handler, probes Probes) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", h.GetHealth)
	r.Get("/livez", probes.LiveEndpoint)
	r.Get("/readyz", probes.ReadyEndpoint)

	r.Post("/quote", h.PostQuote)
	r.Post("/charge", h.PostCharge)
	r.Post("/risk/assessment", h.PostRiskAssessment)
	r.Post("/promotions/eligibility", h.PostPromotionEligibility)
	r.Post("/bulk-discount", h.PostBulkDiscount)
	r.Get("/regions/{region}/minimum-order", h.GetMinimumOrder)

	return r
}
