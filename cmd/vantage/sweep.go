package main

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputra-labs/vantage/internal/workerpool"
)

// sweepTask is one seed/parameter combination to backtest.
type sweepTask struct {
	seed uint64
}

func newSweepCommand() *cobra.Command {
	var (
		startPrice string
		drift      string
		volatility float64
		stepMillis int64
		durSeconds int64
		period     int
		runs       int
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run several independent backtests concurrently across a range of seeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ctx := tomb.WithContext(cmd.Context())
			pool := workerpool.New(workers)

			var mu sync.Mutex
			results := make(map[uint64]int)

			pool.Run(t, func(_ *tomb.Tomb, task any) error {
				seedTask := task.(sweepTask)
				ticks, sess, err := buildBacktest(backtestParams{
					startPrice: startPrice, drift: drift, volatility: volatility,
					seed: seedTask.seed, stepMillis: stepMillis, durSeconds: durSeconds, period: period,
				})
				if err != nil {
					return err
				}
				sess.PushMarketData(ticks)
				if err := sess.Run(ctx); err != nil {
					return err
				}

				mu.Lock()
				results[seedTask.seed] = len(ticks)
				mu.Unlock()
				return nil
			})

			for i := 0; i < runs; i++ {
				pool.Submit(sweepTask{seed: uint64(i + 1)})
			}
			pool.Close()

			if err := t.Wait(); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for seed, n := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "seed=%d ticks=%d\n", seed, n)
			}
			log.Info().Int("runs", runs).Msg("sweep: all backtests complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&startPrice, "price", "100", "starting price")
	cmd.Flags().StringVar(&drift, "drift", "0", "multiplicative drift per day, scaled by each step's fraction of a day")
	cmd.Flags().Float64Var(&volatility, "volatility", 0.01, "per-step multiplicative noise scale")
	cmd.Flags().Int64Var(&stepMillis, "step-ms", 1000, "sample spacing in milliseconds")
	cmd.Flags().Int64Var(&durSeconds, "duration-s", 60, "total duration in seconds")
	cmd.Flags().IntVar(&period, "period", 20, "submit a market buy every Nth tick")
	cmd.Flags().IntVar(&runs, "runs", 8, "number of seeds to sweep")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent backtest workers")

	return cmd
}
