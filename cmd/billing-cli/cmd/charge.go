package cmd

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/wire"
)

type chargeOptions struct {
	user     string
	amount   float64
	currency string
	method   string
	region   string
}

func (o *chargeOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.user, "user", "", "user identifier")
	f.Float64Var(&o.amount, "amount", 0, "charge amount")
	f.StringVar(&o.currency, "currency", wire.DefaultCurrency, "charge currency")
	f.StringVar(&o.method, "method", "card", "payment method (card, invoice)")
	f.StringVar(&o.region, "region", "US", "billing region (EU, US, APAC)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")
}

func (o *chargeOptions) request() (billing.ChargeRequest, error) {
	req := wire.ChargeRequest{
		UserID:        o.user,
		Amount:        o.amount,
		Currency:      o.currency,
		PaymentMethod: o.method,
		Region:        o.region,
	}
	if err := wire.Validate(req); err != nil {
		return billing.ChargeRequest{}, err
	}
	return req.Billing(), nil
}

func newChargeCommand(root *rootOptions) *cobra.Command {
	var opts chargeOptions
	cmd := &cobra.Command{
		Use:   "charge",
		Short: "Decide whether a charge is approved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			svc, err := billing.NewService()
			if err != nil {
				return errors.Wrap(err, "create billing service")
			}

			res := svc.Charge(cmd.Context(), req)
			root.lg.Debug("Charge decided",
				zap.Bool("approved", res.Approved),
				zap.Float64("risk_score", res.RiskScore),
			)
			return writeLine(cmd, wire.EncodeCharge(res))
		},
	}
	opts.bind(cmd)
	return cmd
}

func newRiskCommand(root *rootOptions) *cobra.Command {
	var opts chargeOptions
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Print the full risk assessment of a charge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			svc, err := billing.NewService()
			if err != nil {
				return errors.Wrap(err, "create billing service")
			}

			report := svc.AssessCharge(cmd.Context(), req)
			root.lg.Debug("Risk assessed", zap.Strings("flags", report.Flags))
			return writeLine(cmd, wire.EncodeRiskReport(report))
		},
	}
	opts.bind(cmd)
	return cmd
}
