// Package billing orchestrates the pricing engine and the risk assessment
// into the quote and charge use cases exposed to callers.
package billing

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/xenking/billing-api/internal/domain/discount"
	"github.com/xenking/billing-api/internal/domain/pricing"
	"github.com/xenking/billing-api/internal/domain/risk"
	"github.com/xenking/billing-api/internal/money"
)

const instrumentationName = "github.com/xenking/billing-api/internal/domain/billing"

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to resolve the weekday.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone the weekday is resolved in. By default
// the clock's own location is used.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithTracerProvider sets the tracer provider for service spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider for service metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meterProvider = mp }
}

// Service encapsulates the billing use cases. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	now            func() time.Time
	loc            *time.Location
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	tracer  trace.Tracer
	metrics *metrics
}

// NewService creates a billing Service.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		now:            time.Now,
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tracer = s.tracerProvider.Tracer(instrumentationName)
	m, err := newMetrics(s.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, errors.Wrap(err, "create metrics")
	}
	s.metrics = m

	return s, nil
}

// Weekday converts t to Monday=0 .. Sunday=6 numbering.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// CurrentWeekday reads the clock once and returns today's weekday.
func (s *Service) CurrentWeekday() int {
	t := s.now()
	if s.loc != nil {
		t = t.In(s.loc)
	}
	return Weekday(t)
}

// CreateQuote prices an order for today's weekday. The item list is not
// validated here: an empty list yields a zero quote.
func (s *Service) CreateQuote(ctx context.Context, req QuoteRequest) pricing.Quote {
	weekday := s.CurrentWeekday()

	_, span := s.tracer.Start(ctx, "billing.CreateQuote", trace.WithAttributes(
		attribute.String("billing.tier", req.Tier),
		attribute.String("billing.region", req.Region),
		attribute.Int("billing.items", len(req.Items)),
		attribute.Int("billing.weekday", weekday),
	))
	defer span.End()

	q := pricing.Total(req.Items, req.Tier, req.Region, req.Coupon, weekday)

	s.metrics.quotes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", req.Tier),
		attribute.String("region", req.Region),
	))
	span.SetAttributes(attribute.Float64("billing.total", q.Total))

	return q
}

// Charge decides whether a charge is approved. Charges are declined only
// when they are high risk.
func (s *Service) Charge(ctx context.Context, req ChargeRequest) ChargeResult {
	_, span := s.tracer.Start(ctx, "billing.Charge", trace.WithAttributes(
		attribute.String("billing.region", req.Region),
		attribute.String("billing.payment_method", req.PaymentMethod),
	))
	defer span.End()

	a := risk.Assess(req.UserID, req.Amount, req.Region, req.PaymentMethod)
	res := ChargeResult{
		Approved:  !a.HighRisk,
		Reason:    risk.Reason(a),
		RiskScore: money.RoundMoney(a.Score),
	}

	s.recordRisk(ctx, req, res)
	span.SetAttributes(
		attribute.Bool("billing.approved", res.Approved),
		attribute.Float64("billing.risk_score", res.RiskScore),
		attribute.Bool("billing.high_amount", a.HasFlag(risk.FlagHighAmount)),
	)

	return res
}

// AssessCharge returns the full risk report for a charge without making
// an approval decision.
func (s *Service) AssessCharge(ctx context.Context, req ChargeRequest) RiskReport {
	_, span := s.tracer.Start(ctx, "billing.AssessCharge")
	defer span.End()

	a := risk.Assess(req.UserID, req.Amount, req.Region, req.PaymentMethod)
	return RiskReport{
		Assessment:           a,
		RequiresVerification: risk.RequiresVerification(a, req.Amount),
		Reason:               risk.Reason(a),
	}
}

// PromotionEligibility reports whether a customer qualifies for promotions.
func (s *Service) PromotionEligibility(tier, region string, orderCount int) bool {
	return discount.IsEligibleForPromotion(tier, region, orderCount)
}

// MinimumOrder returns the advisory minimum order amount for region.
func (s *Service) MinimumOrder(region string) float64 {
	return pricing.MinimumOrder(region)
}

// BulkDiscount returns the standalone bulk discount for an order.
func (s *Service) BulkDiscount(subtotal float64, itemCount int) float64 {
	return pricing.BulkDiscount(subtotal, itemCount)
}

// canary is a fixed order with a known price, used by SelfCheck.
var (
	canaryItems = []pricing.Item{
		{SKU: "canary-a", Quantity: 2, UnitPrice: 50},
		{SKU: "canary-b", Quantity: 1, UnitPrice: 100},
	}
	canaryQuote = pricing.Quote{Subtotal: 200, Discount: 0, Tax: 40, Total: 240, Currency: pricing.Currency}
)

// SelfCheck prices a canary order and compares it with its known result.
func (s *Service) SelfCheck(_ context.Context) error {
	got := pricing.Total(canaryItems, discount.TierFree, discount.RegionEU, nil, 2)
	if got != canaryQuote {
		return errors.Errorf("canary quote mismatch: got %+v, want %+v", got, canaryQuote)
	}
	return nil
}

func (s *Service) recordRisk(ctx context.Context, req ChargeRequest, res ChargeResult) {
	attrs := metric.WithAttributes(
		attribute.String("region", req.Region),
		attribute.String("payment_method", req.PaymentMethod),
		attribute.Bool("approved", res.Approved),
	)
	s.metrics.charges.Add(ctx, 1, attrs)
	s.metrics.riskScore.Record(ctx, res.RiskScore, attrs)
}
