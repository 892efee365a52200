package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/billing-api/internal/domain/discount"
)

func newCouponsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "coupons",
		Short: "List coupon codes and tier discounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "COUPON\tPERCENT")
			for _, code := range sortedKeys(discount.CouponPercentages) {
				pct, _ := discount.CouponPercent(&code)
				fmt.Fprintf(tw, "%s\t%g\n", code, pct)
			}
			fmt.Fprintln(tw, "\t")
			fmt.Fprintln(tw, "TIER\tPERCENT")
			for _, tier := range sortedKeys(discount.TierPercentages) {
				fmt.Fprintf(tw, "%s\t%g\n", tier, discount.TierPercent(tier))
			}

			if err := tw.Flush(); err != nil {
				return errors.Wrap(err, "write output")
			}
			return nil
		},
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
