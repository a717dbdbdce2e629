package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
	"github.com/saiputra-labs/vantage/internal/exchange/simulated"
	"github.com/saiputra-labs/vantage/internal/pricetap"
	"github.com/saiputra-labs/vantage/internal/series"
	"github.com/saiputra-labs/vantage/internal/session"
)

const (
	syntheticHalfSpread = "0.05"
	syntheticLiquidity  = "10"
	bidOrderID          = "vantage-synthetic-bid"
	askOrderID          = "vantage-synthetic-ask"
)

func newBacktestCommand() *cobra.Command {
	var (
		startPrice string
		drift      string
		volatility float64
		seed       uint64
		stepMillis int64
		durSeconds int64
		period     int
	)

	cmd := &cobra.Command{
		Use:   "run backtest",
		Short: "Run a sample strategy against a synthetic price tap through the simulated exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			ticks, sess, err := buildBacktest(backtestParams{
				startPrice: startPrice, drift: drift, volatility: volatility,
				seed: seed, stepMillis: stepMillis, durSeconds: durSeconds, period: period,
			})
			if err != nil {
				return err
			}

			sess.PushMarketData(ticks)
			if err := sess.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "backtest complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&startPrice, "price", "100", "starting price")
	cmd.Flags().StringVar(&drift, "drift", "0", "multiplicative drift per day, scaled by each step's fraction of a day")
	cmd.Flags().Float64Var(&volatility, "volatility", 0.01, "per-step multiplicative noise scale")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "RNG seed for reproducibility")
	cmd.Flags().Int64Var(&stepMillis, "step-ms", 1000, "sample spacing in milliseconds")
	cmd.Flags().Int64Var(&durSeconds, "duration-s", 60, "total duration in seconds")
	cmd.Flags().IntVar(&period, "period", 20, "submit a market buy every Nth tick")

	return cmd
}

type backtestParams struct {
	startPrice string
	drift      string
	volatility float64
	seed       uint64
	stepMillis int64
	durSeconds int64
	period     int
}

// buildBacktest wires pricetap -> a synthetic-liquidity feed ->
// exchange/simulated -> session.Session.
func buildBacktest(p backtestParams) ([]series.Tick, *session.Session[series.Tick], error) {
	start, err := decimal.NewFromString(p.startPrice)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid price: %w", err)
	}
	driftDec, err := decimal.NewFromString(p.drift)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid drift: %w", err)
	}

	now := clock.Now()
	ticks := pricetap.Generate(pricetap.Params{
		Range:      clock.TimeRange{Start: now, End: now.Add(clock.Duration(p.durSeconds) * clock.Second)},
		Step:       clock.Duration(p.stepMillis) * clock.Millisecond,
		Start:      start,
		Drift:      driftDec,
		Volatility: decimal.NewFromFloat(p.volatility),
		Seed:       p.seed,
	})

	instrument := exchange.Instrument{Exchange: "vantage-sim", Symbol: "SYN-USD"}
	metrics := exchange.NewMetrics(prometheus.NewRegistry())
	ex := simulated.New(simulated.Config{
		MakerFee:       decimal.Zero,
		TakerFee:       decimal.NewFromFloat(0.001),
		BasePrecision:  map[exchange.Instrument]int32{instrument: 8},
		QuotePrecision: map[exchange.Instrument]int32{instrument: 2},
		LotSizes:       map[exchange.Instrument]decimal.Decimal{instrument: decimal.NewFromFloat(0.001)},
	}, metrics)

	halfSpread := decimal.RequireFromString(syntheticHalfSpread)
	liquidity := decimal.RequireFromString(syntheticLiquidity)

	feed := func(t series.Tick) error {
		at := t.At
		_ = ex.Feed(instrument, at, book.Done(bidOrderID))
		_ = ex.Feed(instrument, at, book.Done(askOrderID))
		if err := ex.Feed(instrument, at, book.Open(bidOrderID, t.Price.Sub(halfSpread), liquidity, book.Buy)); err != nil {
			return err
		}
		return ex.Feed(instrument, at, book.Open(askOrderID, t.Price.Add(halfSpread), liquidity, book.Sell))
	}

	strat := newPeriodicTaker(ex, instrument, decimal.NewFromFloat(0.01), p.period)
	sess := session.New[series.Tick](ex, strat, feed)

	return ticks, sess, nil
}
