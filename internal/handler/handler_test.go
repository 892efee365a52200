package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/domain/pricing"
	"github.com/xenking/billing-api/pkg/health"
)

// --- Mock implementations ---

type mockBilling struct {
	lastQuote  billing.QuoteRequest
	lastCharge billing.ChargeRequest
	quote      pricing.Quote
}

func (m *mockBilling) CreateQuote(_ context.Context, req billing.QuoteRequest) pricing.Quote {
	m.lastQuote = req
	return m.quote
}

func (m *mockBilling) Charge(_ context.Context, req billing.ChargeRequest) billing.ChargeResult {
	m.lastCharge = req
	return billing.ChargeResult{Approved: true, Reason: "ok"}
}

func (m *mockBilling) AssessCharge(_ context.Context, req billing.ChargeRequest) billing.RiskReport {
	m.lastCharge = req
	return billing.RiskReport{}
}

func (m *mockBilling) PromotionEligibility(string, string, int) bool { return false }
func (m *mockBilling) MinimumOrder(string) float64                 { return 0 }
func (m *mockBilling) BulkDiscount(float64, int) float64           { return 0 }

// --- Helpers ---

// wednesday is a fixed weekday so quotes carry no weekend bonus.
var wednesday = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, svc Billing) http.Handler {
	t.Helper()
	if svc == nil {
		s, err := billing.NewService(billing.WithClock(func() time.Time { return wednesday }))
		require.NoError(t, err)
		svc = s
	}
	probes := health.New()
	probes.SetReady(true)
	return NewRouter(New(Config{MaxBodyBytes: 4096}, svc), probes)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestPostQuote(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "free tier EU",
			body:       `{"user_id":"u1","tier":"free","region":"EU","items":[{"sku":"A","qty":2,"unit_price":50},{"sku":"B","qty":1,"unit_price":100}]}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"subtotal":200,"discount":0,"tax":40,"total":240,"currency":"USD"}`,
		},
		{
			name:       "pro tier US with coupon",
			body:       `{"user_id":"u2","tier":"pro","region":"US","items":[{"sku":"A","qty":10,"unit_price":10}],"coupon":"save10"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"subtotal":100,"discount":15,"tax":6.8,"total":91.8,"currency":"USD"}`,
		},
		{
			name:       "enterprise EU with welcome coupon",
			body:       `{"user_id":"u3","tier":"enterprise","region":"EU","items":[{"sku":"A","qty":1,"unit_price":1000}],"coupon":"WELCOME"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"subtotal":1000,"discount":300,"tax":140,"total":840,"currency":"USD"}`,
		},
		{
			name:       "empty items",
			body:       `{"user_id":"u1","tier":"free","region":"EU","items":[]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":400,"message":"Items list cannot be empty"}`,
		},
		{
			name:       "malformed json",
			body:       `{"user_id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "trailing garbage after valid order",
			body:       `{"user_id":"u1","tier":"free","region":"EU","items":[{"sku":"A","qty":1,"unit_price":1}]} garbage`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid tier",
			body:       `{"user_id":"u1","tier":"gold","region":"EU","items":[{"sku":"A","qty":1,"unit_price":1}]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "zero quantity",
			body:       `{"user_id":"u1","tier":"free","region":"EU","items":[{"sku":"A","qty":0,"unit_price":1}]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "body too large",
			body:       `{"user_id":"` + strings.Repeat("x", 5000) + `"}`,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	srv := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/quote", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestPostQuote_PassesRequestThrough(t *testing.T) {
	mock := &mockBilling{quote: pricing.Quote{Currency: "USD"}}
	srv := newTestServer(t, mock)

	w := do(t, srv, http.MethodPost, "/quote",
		`{"user_id":"u9","tier":"pro","region":"APAC","items":[{"sku":"X","qty":3,"unit_price":2.5}],"coupon":null}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, billing.QuoteRequest{
		UserID: "u9",
		Tier:   "pro",
		Region: "APAC",
		Items:  []pricing.Item{{SKU: "X", Quantity: 3, UnitPrice: 2.5}},
	}, mock.lastQuote)
}

func TestPostCharge(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "approved",
			body:       `{"user_id":"bob","amount":100,"payment_method":"card","region":"EU"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"approved":true,"reason":"Transaction approved","risk_score":0.15}`,
		},
		{
			name:       "declined",
			body:       `{"user_id":"alice","amount":100,"currency":"USD","payment_method":"card","region":"US"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"approved":false,"reason":"Transaction flagged for high risk","risk_score":0.7}`,
		},
		{
			name:       "negative amount",
			body:       `{"user_id":"bob","amount":-1,"payment_method":"card","region":"EU"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unsupported currency",
			body:       `{"user_id":"bob","amount":1,"currency":"EUR","payment_method":"card","region":"EU"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	srv := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/charge", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestPostCharge_DefaultCurrency(t *testing.T) {
	mock := &mockBilling{}
	srv := newTestServer(t, mock)

	w := do(t, srv, http.MethodPost, "/charge", `{"user_id":"bob","amount":5,"payment_method":"invoice","region":"US"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "USD", mock.lastCharge.Currency)
}

func TestPostRiskAssessment(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodPost, "/risk/assessment",
		`{"user_id":"peggy","amount":20000,"payment_method":"invoice","region":"APAC"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"score": 0.66,
		"high_risk": false,
		"medium_risk": true,
		"flags": ["high_amount", "apac_invoice_review", "invoice_payment"],
		"requires_verification": true,
		"reason": "Transaction flagged for review"
	}`, w.Body.String())
}

func TestPostPromotionEligibility(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		body string
		want string
	}{
		{body: `{"tier":"enterprise","region":"EU","order_count":0}`, want: `{"eligible":true}`},
		{body: `{"tier":"pro","region":"US","order_count":3}`, want: `{"eligible":true}`},
		{body: `{"tier":"pro","region":"US","order_count":2}`, want: `{"eligible":false}`},
		{body: `{"tier":"free","region":"APAC","order_count":10}`, want: `{"eligible":true}`},
	}
	for _, tt := range tests {
		w := do(t, srv, http.MethodPost, "/promotions/eligibility", tt.body)
		require.Equal(t, http.StatusOK, w.Code, tt.body)
		assert.JSONEq(t, tt.want, w.Body.String(), tt.body)
	}
}

func TestPostBulkDiscount(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodPost, "/bulk-discount", `{"subtotal":1000,"item_count":50}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"discount":100}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/bulk-discount", `{"subtotal":-1,"item_count":50}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetMinimumOrder(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodGet, "/regions/APAC/minimum-order", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"region":"APAC","minimum_order":15}`, w.Body.String())

	w = do(t, srv, http.MethodGet, "/regions/LATAM/minimum-order", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/health", "/livez", "/readyz"} {
		w := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String(), path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)
	w := do(t, srv, http.MethodGet, "/quote", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
