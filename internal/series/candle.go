package series

import (
	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/clock"
)

// Tick is a single timestamped trade print: a price and, when known, the
// size traded. When Size is absent, volume aggregation falls back to a
// per-print count (see the OHLCV aggregation rules).
type Tick struct {
	At      clock.Instant
	Price   decimal.Decimal
	Size    decimal.Decimal
	HasSize bool
}

func (t Tick) Instant() clock.Instant { return t.At }

func (t Tick) PriceVolume() (decimal.Decimal, decimal.Decimal, bool) {
	return t.Price, t.Size, t.HasSize
}

// Candle is an OHLCV bucket whose Instant is the start of its interval.
type Candle struct {
	At     clock.Instant
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

func (c Candle) Instant() clock.Instant { return c.At }

func (c Candle) PriceVolume() (decimal.Decimal, decimal.Decimal, bool) {
	return c.Close, c.Volume, true
}

// Bar pairs a Candle with an explicit end time, End = Instant + step. Bar
// end times are discarded and regenerated on re-scan; they never carry
// independent information.
type Bar struct {
	Candle
	End clock.Instant
}

// NewBar constructs a Bar from a Candle and a step: end = instant + d.
func NewBar(c Candle, step clock.Duration) Bar {
	return Bar{Candle: c, End: c.At.Add(step)}
}
