package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/pricetap"
)

func newTapCommand() *cobra.Command {
	var (
		startPrice string
		drift      string
		volatility float64
		seed       uint64
		stepMillis int64
		durSeconds int64
	)

	cmd := &cobra.Command{
		Use:   "tap generate",
		Short: "Generate a synthetic price tap and print it as tick lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := decimal.NewFromString(startPrice)
			if err != nil {
				return fmt.Errorf("invalid --price: %w", err)
			}
			driftDec, err := decimal.NewFromString(drift)
			if err != nil {
				return fmt.Errorf("invalid --drift: %w", err)
			}

			now := clock.Now()
			ticks := pricetap.Generate(pricetap.Params{
				Range:      clock.TimeRange{Start: now, End: now.Add(clock.Duration(durSeconds) * clock.Second)},
				Step:       clock.Duration(stepMillis) * clock.Millisecond,
				Start:      start,
				Drift:      driftDec,
				Volatility: decimal.NewFromFloat(volatility),
				Seed:       seed,
			})

			for _, t := range ticks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t.At.Time().Format("15:04:05.000"), t.Price.StringFixed(4))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startPrice, "price", "100", "starting price")
	cmd.Flags().StringVar(&drift, "drift", "0", "multiplicative drift per day, scaled by each step's fraction of a day")
	cmd.Flags().Float64Var(&volatility, "volatility", 0.01, "per-step multiplicative noise scale")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "RNG seed for reproducibility")
	cmd.Flags().Int64Var(&stepMillis, "step-ms", 1000, "sample spacing in milliseconds")
	cmd.Flags().Int64Var(&durSeconds, "duration-s", 60, "total duration in seconds")

	return cmd
}
