package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/domain/pricing"
	"github.com/xenking/billing-api/internal/money"
	"github.com/xenking/billing-api/internal/wire"
)

// monday is the reference date for --weekday.
var monday = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

type quoteOptions struct {
	user    string
	tier    string
	region  string
	coupon  string
	items   []string
	file    string
	weekday int
}

func newQuoteCommand(root *rootOptions) *cobra.Command {
	var opts quoteOptions

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price an order",
		Long: `Price an order from flags or from a JSON request file.

Items are given as SKU:QTY:PRICE. Quantities and prices that are not
numbers count as 0. A request file is validated like an API request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}

			svc, err := billing.NewService(billing.WithClock(opts.clock()))
			if err != nil {
				return errors.Wrap(err, "create billing service")
			}

			root.lg.Debug("Pricing order",
				zap.String("tier", req.Tier),
				zap.String("region", req.Region),
				zap.Int("items", len(req.Items)),
				zap.Int("weekday", svc.CurrentWeekday()),
			)
			quote := svc.CreateQuote(cmd.Context(), req)
			return writeLine(cmd, wire.EncodeQuote(quote))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.user, "user", "cli", "user identifier")
	f.StringVar(&opts.tier, "tier", "free", "customer tier (free, pro, enterprise)")
	f.StringVar(&opts.region, "region", "US", "billing region (EU, US, APAC)")
	f.StringVar(&opts.coupon, "coupon", "", "coupon code")
	f.StringArrayVar(&opts.items, "item", nil, "order line as SKU:QTY:PRICE, repeatable")
	f.StringVarP(&opts.file, "file", "f", "", "JSON quote request file")
	f.IntVar(&opts.weekday, "weekday", -1, "weekday to price for, Monday=0 .. Sunday=6 (default today)")

	cmd.MarkFlagsMutuallyExclusive("file", "item")
	return cmd
}

func (o *quoteOptions) clock() func() time.Time {
	if o.weekday < 0 {
		return time.Now
	}
	day := monday.AddDate(0, 0, o.weekday%7)
	return func() time.Time { return day }
}

func (o *quoteOptions) request() (billing.QuoteRequest, error) {
	if o.file != "" {
		data, err := os.ReadFile(o.file)
		if err != nil {
			return billing.QuoteRequest{}, errors.Wrap(err, "read request file")
		}
		req, err := wire.DecodeQuoteRequest(data)
		if err != nil {
			return billing.QuoteRequest{}, err
		}
		return req.Billing(), nil
	}

	// Item values are coerced, not validated.
	req := wire.QuoteRequest{
		UserID: o.user,
		Tier:   o.tier,
		Region: o.region,
	}
	if o.coupon != "" {
		req.Coupon = &o.coupon
	}
	if err := wire.Validate(req); err != nil {
		return billing.QuoteRequest{}, err
	}

	items, err := parseItems(o.items)
	if err != nil {
		return billing.QuoteRequest{}, err
	}
	out := req.Billing()
	out.Items = items
	return out, nil
}

func parseItems(raw []string) ([]pricing.Item, error) {
	if len(raw) == 0 {
		return nil, wire.ErrEmptyItems
	}
	items := make([]pricing.Item, 0, len(raw))
	for _, r := range raw {
		it, err := parseItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// parseItem parses SKU:QTY:PRICE. Non-numeric quantity or price is 0.
func parseItem(raw string) (pricing.Item, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return pricing.Item{}, errors.Errorf("item %q: want SKU:QTY:PRICE", raw)
	}
	return pricing.Item{
		SKU:       parts[0],
		Quantity:  int(money.SafeFloat(parts[1], 0)),
		UnitPrice: money.SafeFloat(parts[2], 0),
	}, nil
}

func writeLine(cmd *cobra.Command, data []byte) error {
	out := cmd.OutOrStdout()
	if _, err := out.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}
