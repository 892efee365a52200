package billing

import (
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	quotes    metric.Int64Counter
	charges   metric.Int64Counter
	riskScore metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	var (
		m   metrics
		err error
	)
	if m.quotes, err = meter.Int64Counter("billing.quotes",
		metric.WithDescription("Number of quotes priced"),
	); err != nil {
		return nil, errors.Wrap(err, "quotes counter")
	}
	if m.charges, err = meter.Int64Counter("billing.charges",
		metric.WithDescription("Number of charge decisions"),
	); err != nil {
		return nil, errors.Wrap(err, "charges counter")
	}
	if m.riskScore, err = meter.Float64Histogram("billing.risk_score",
		metric.WithDescription("Risk score of charge decisions"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1),
	); err != nil {
		return nil, errors.Wrap(err, "risk score histogram")
	}
	return &m, nil
}
