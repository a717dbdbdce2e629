package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/marketdata"
)

// newDataCommand exercises the hierarchical market-data addressing
// scheme: register a set of concrete paths, expand a wildcard pattern
// against them, and report the resolved selection range.
func newDataCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "data",
		Short: "Resolve market-data paths and selections",
	}
	root.AddCommand(newDataSelectCommand())
	return root
}

func newDataSelectCommand() *cobra.Command {
	var (
		register []string
		pattern  string
		from     int64
		to       int64
		hasFrom  bool
		hasTo    bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Expand a market-data pattern against a registered path set",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx := marketdata.NewIndex()
			for _, raw := range register {
				p, err := marketdata.ParsePath(strings.TrimSpace(raw))
				if err != nil {
					return fmt.Errorf("invalid --register path %q: %w", raw, err)
				}
				idx.Register(p)
			}

			pat, err := marketdata.ParsePattern(pattern)
			if err != nil {
				return fmt.Errorf("invalid --pattern: %w", err)
			}

			matches, err := idx.Expand(pat)
			if err != nil {
				return err
			}

			var fromPtr, toPtr *clock.Instant
			if hasFrom {
				f := clock.Instant(from)
				fromPtr = &f
			}
			if hasTo {
				t := clock.Instant(to)
				toPtr = &t
			}
			sel := marketdata.NewSelection(pat, fromPtr, toPtr)

			fmt.Fprintf(cmd.OutOrStdout(), "selection %s [%d, %d]\n", sel.Path, sel.From, sel.To)
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", m)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&register, "register", nil, "comma-separated concrete paths to register, e.g. binance/BTC-USD/book")
	cmd.Flags().StringVar(&pattern, "pattern", "", "market-data pattern to expand, e.g. binance/*/book")
	cmd.Flags().Int64Var(&from, "from", 0, "selection start, in epoch micros")
	cmd.Flags().Int64Var(&to, "to", 0, "selection end, in epoch micros")
	cmd.MarkFlagRequired("pattern")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasFrom = cmd.Flags().Changed("from")
		hasTo = cmd.Flags().Changed("to")
	}

	return cmd
}
