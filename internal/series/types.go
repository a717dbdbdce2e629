// Package series folds a stream of timestamped primitives (ticks, candles,
// bars) into aligned, fixed-interval candles using Go generics.
package series

import (
	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/clock"
)

// Timestamped is required of every scan input: it must expose the instant
// it occurred at and the price/volume observables needed to aggregate it.
type Timestamped interface {
	Instant() clock.Instant
	PriceVolume() (price decimal.Decimal, volume decimal.Decimal, hasVolume bool)
}

// OHLCV is the bucket accumulator shared by every aggregation rule.
type OHLCV struct {
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

func (o *OHLCV) absorbFirst(price decimal.Decimal) {
	o.Open = price
	o.High = price
	o.Low = price
	o.Close = price
}

func (o *OHLCV) absorb(price decimal.Decimal, volume decimal.Decimal) {
	if price.GreaterThan(o.High) {
		o.High = price
	}
	if price.LessThan(o.Low) {
		o.Low = price
	}
	o.Close = price
	o.Volume = o.Volume.Add(volume)
}

func (o *OHLCV) absorbBucket(sub OHLCV, first bool) {
	if first {
		o.Open = sub.Open
		o.High = sub.High
		o.Low = sub.Low
	} else {
		if sub.High.GreaterThan(o.High) {
			o.High = sub.High
		}
		if sub.Low.LessThan(o.Low) {
			o.Low = sub.Low
		}
	}
	o.Close = sub.Close
	o.Volume = o.Volume.Add(sub.Volume)
}
