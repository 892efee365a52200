package cmd

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/billing-api/internal/domain/billing"
	"github.com/xenking/billing-api/internal/domain/pricing"
	"github.com/xenking/billing-api/internal/wire"
)

func newBulkCommand(root *rootOptions) *cobra.Command {
	var items []string

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Compute the bulk discount of an order",
		Long: `Compute the standalone bulk discount of an order. The item count is
the sum of the quantities. Items are given as SKU:QTY:PRICE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseItems(items)
			if err != nil {
				return err
			}
			svc, err := billing.NewService()
			if err != nil {
				return errors.Wrap(err, "create billing service")
			}

			subtotal := pricing.Subtotal(parsed)
			count := pricing.ItemCount(parsed)
			root.lg.Debug("Bulk order",
				zap.Float64("subtotal", subtotal),
				zap.Int("item_count", count),
			)
			return writeLine(cmd, wire.EncodeBulkDiscount(svc.BulkDiscount(subtotal, count)))
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "order line as SKU:QTY:PRICE, repeatable")
	return cmd
}
