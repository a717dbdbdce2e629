package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/exchange/wire"
)

const replayFrameBufferSize = 4096

// newReplayCommand reads internal/exchange/wire-encoded delta frames from
// a file and prints the resulting ladder. Each Read of up to
// replayFrameBufferSize bytes is decoded as one frame, matching the demo
// live transport's framing: bytes after the first frame of a read are not
// decoded, and reads that fail to decode are skipped.
func newReplayCommand() *cobra.Command {
	var (
		path  string
		depth int
	)

	cmd := &cobra.Command{
		Use:   "book replay",
		Short: "Replay a wire-encoded delta stream and print the resulting ladder",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			b := book.New()
			buf := make([]byte, replayFrameBufferSize)
			for {
				n, err := f.Read(buf)
				if n > 0 {
					if _, delta, decodeErr := wire.DecodeDelta(buf[:n]); decodeErr == nil {
						if updateErr := b.Update(delta); updateErr != nil {
							return updateErr
						}
					}
				}
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
			}

			ladder := b.Ladder(depth)
			for _, lvl := range ladder.Bids {
				fmt.Fprintf(cmd.OutOrStdout(), "BID %s @ %s\n", lvl.Size, lvl.Price)
			}
			for _, lvl := range ladder.Asks {
				fmt.Fprintf(cmd.OutOrStdout(), "ASK %s @ %s\n", lvl.Size, lvl.Price)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "path to a wire-encoded delta stream")
	cmd.Flags().IntVar(&depth, "depth", 10, "ladder depth to print per side")
	cmd.MarkFlagRequired("file")

	return cmd
}
