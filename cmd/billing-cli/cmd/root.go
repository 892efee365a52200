// Package cmd provides the billing-cli commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	verbose bool
	lg      *zap.Logger
}

// Execute runs the CLI.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{lg: zap.NewNop()}

	root := &cobra.Command{
		Use:   "billing-cli",
		Short: "Price orders and score charges",
		Long: `billing-cli runs the billing engine locally.

Examples:
  billing-cli quote --tier pro --region US --item A:10:10 --coupon SAVE10
  billing-cli quote --file order.json
  billing-cli charge --user u1 --amount 250 --method card --region EU
  billing-cli risk --user u1 --amount 25000 --method invoice --region APAC
  billing-cli bulk --item A:20:10 --item B:30:5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			lg, err := newLogger(opts.verbose)
			if err != nil {
				return errors.Wrap(err, "init logger")
			}
			opts.lg = lg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = opts.lg.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newQuoteCommand(opts),
		newChargeCommand(opts),
		newRiskCommand(opts),
		newBulkCommand(opts),
		newCouponsCommand(),
		newVersionCommand(),
	)
	return root
}

// newLogger writes to stderr so that stdout carries only results.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "billing-cli version %s\n", Version)
		},
	}
}
