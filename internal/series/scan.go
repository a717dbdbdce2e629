package series

import (
	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/clock"
)

// Options controls the edge buckets emitted by Scan.
type Options struct {
	// DropFirst omits the very first bucket, guarding against a partial
	// first window whose true open may lie before the scanned data begins.
	DropFirst bool
	// DropLast omits the final bucket unless at least one input landed
	// exactly on bucket_start + step, which is the only evidence (short of
	// a later tick) that the window actually closed.
	DropLast bool
}

// Absorb folds one input item of type T into the running bucket
// accumulator. first is true exactly once per bucket, on the item that
// opens it.
type Absorb[T Timestamped] func(acc *OHLCV, item T, first bool)

// Build reconstructs one output item of type U from a closed bucket.
type Build[U any] func(instant clock.Instant, acc OHLCV) U

// Scan is the polymorphic bucket fold: it bucketizes items into aligned
// [k*step, (k+1)*step) intervals and emits one U per occupied bucket, in
// chronological order. The first bucket starts at floor(items[0].Instant(),
// step); items need not be pre-sorted by caller but are expected to arrive
// in non-decreasing instant order, matching a live or historical feed.
func Scan[T Timestamped, U any](items []T, step clock.Duration, absorb Absorb[T], build Build[U], opts Options) []U {
	if len(items) == 0 || step <= 0 {
		return nil
	}

	type bucket struct {
		start clock.Instant
		acc   OHLCV
		seen  int
	}

	var buckets []*bucket
	byStart := make(map[clock.Instant]*bucket)

	for _, item := range items {
		start := clock.Floor(item.Instant(), step)
		b, ok := byStart[start]
		if !ok {
			b = &bucket{start: start}
			byStart[start] = b
			buckets = append(buckets, b)
		}
		absorb(&b.acc, item, b.seen == 0)
		b.seen++
	}

	if opts.DropFirst && len(buckets) > 0 {
		buckets = buckets[1:]
	}
	if opts.DropLast && len(buckets) > 0 {
		last := buckets[len(buckets)-1]
		boundary := last.start.Add(step)
		confirmed := false
		for _, item := range items {
			if item.Instant() == boundary {
				confirmed = true
				break
			}
		}
		if !confirmed {
			buckets = buckets[:len(buckets)-1]
		}
	}

	out := make([]U, len(buckets))
	for i, b := range buckets {
		out[i] = build(b.start, b.acc)
	}
	return out
}

// AbsorbTick implements "candle from (instant, price) pairs": open=first,
// close=last, high/low=extrema, volume=count when size is unreported or
// summed size otherwise.
func AbsorbTick(acc *OHLCV, t Tick, first bool) {
	price, size, hasSize := t.PriceVolume()
	if first {
		acc.absorbFirst(price)
		acc.Volume = decimal.Zero
	}
	volume := size
	if !hasSize {
		volume = decimal.NewFromInt(1)
	}
	acc.absorb(price, volume)
}

// AbsorbCandle implements "candle from candles" downsampling: open=first
// sub-candle open, close=last close, high/low=extrema, volume=sum.
func AbsorbCandle(acc *OHLCV, c Candle, first bool) {
	sub := OHLCV{Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume}
	acc.absorbBucket(sub, first)
}

// AbsorbBar implements "candle from bars": identical to AbsorbCandle, with
// the bar's end time discarded.
func AbsorbBar(acc *OHLCV, b Bar, first bool) {
	AbsorbCandle(acc, b.Candle, first)
}

// BuildCandle reconstructs a Candle from a closed bucket.
func BuildCandle(instant clock.Instant, acc OHLCV) Candle {
	return Candle{At: instant, Open: acc.Open, High: acc.High, Low: acc.Low, Close: acc.Close, Volume: acc.Volume}
}

// BuildBar returns a Build[Bar] closed over step, implementing "bar from
// candle": begin = bucket start, end = begin + step, OHLCV copied.
func BuildBar(step clock.Duration) Build[Bar] {
	return func(instant clock.Instant, acc OHLCV) Bar {
		return NewBar(BuildCandle(instant, acc), step)
	}
}

// ScanTicksToCandles aggregates raw ticks into step-aligned candles.
func ScanTicksToCandles(ticks []Tick, step clock.Duration, opts Options) []Candle {
	return Scan(ticks, step, AbsorbTick, BuildCandle, opts)
}

// ScanCandlesToCandles downsamples candles onto a (necessarily coarser or
// equal) step.
func ScanCandlesToCandles(candles []Candle, step clock.Duration, opts Options) []Candle {
	return Scan(candles, step, AbsorbCandle, BuildCandle, opts)
}

// ScanBarsToCandles folds bars back into candles, discarding bar end times.
func ScanBarsToCandles(bars []Bar, step clock.Duration, opts Options) []Candle {
	return Scan(bars, step, AbsorbBar, BuildCandle, opts)
}

// ScanCandlesToBars re-expresses candles as bars at the given step.
func ScanCandlesToBars(candles []Candle, step clock.Duration, opts Options) []Bar {
	return Scan(candles, step, AbsorbCandle, BuildBar(step), opts)
}
