// Command vantage wires pricetap ticks -> a strategy callback ->
// exchange/simulated -> session.Session end to end behind a cobra
// subcommand tree, with signal-aware startup via signal.NotifyContext.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("vantage: command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "vantage",
		Short: "Backtest core: order book, simulated exchange, tick loop",
	}

	root.AddCommand(newTapCommand())
	root.AddCommand(newBacktestCommand())
	root.AddCommand(newSweepCommand())
	root.AddCommand(newReplayCommand())
	root.AddCommand(newDataCommand())

	return root
}
