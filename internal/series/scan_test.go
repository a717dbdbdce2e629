package series

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputra-labs/vantage/internal/clock"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func alignedCandles(n int, step clock.Duration) []Candle {
	out := make([]Candle, n)
	for i := 0; i < n; i++ {
		at := clock.Instant(int64(i) * int64(step))
		price := decimal.NewFromInt(int64(100 + i))
		out[i] = Candle{At: at, Open: price, High: price, Low: price, Close: price, Volume: d("1")}
	}
	return out
}

// TestScanRoundTrip_P3 checks the round-trip law: for an already-aligned
// candle sequence, scan[C->C] is the identity and scan[C->B->C] recovers
// the original candles modulo bar-end metadata.
func TestScanRoundTrip_P3(t *testing.T) {
	step := clock.Minute
	xs := alignedCandles(5, step)

	cc := ScanCandlesToCandles(xs, step, Options{})
	require.Equal(t, xs, cc)

	bars := ScanCandlesToBars(xs, step, Options{})
	bc := ScanBarsToCandles(bars, step, Options{})
	require.Equal(t, xs, bc)
}

// TestScanStability_P4 checks that re-scanning already-quantized data at the
// same step is idempotent and that a larger divisor step gives the same
// result whichever path (candle or bar) it's reached through.
func TestScanStability_P4(t *testing.T) {
	step := clock.Minute
	xs := alignedCandles(6, step)

	once := ScanBarsToCandles(ScanCandlesToBars(xs, step, Options{}), step, Options{})
	twice := ScanBarsToCandles(ScanCandlesToBars(ScanBarsToCandles(ScanCandlesToBars(xs, step, Options{}), step, Options{}), step, Options{}), step, Options{})
	assert.Equal(t, once, twice)

	biggerStep := 3 * step
	viaCandles := ScanCandlesToCandles(once, biggerStep, Options{})
	viaBars := ScanBarsToCandles(ScanCandlesToBars(twice, biggerStep, Options{}), biggerStep, Options{})
	assert.Equal(t, viaCandles, viaBars)
}

// TestScanDropFirstAndDropLast exercises the two bucketing options.
func TestScanDropFirstAndDropLast(t *testing.T) {
	step := clock.Minute
	ticks := []Tick{
		{At: clock.Instant(30 * int64(clock.Second)), Price: d("1"), HasSize: false},
		{At: clock.Instant(int64(step)), Price: d("2"), HasSize: false},
		{At: clock.Instant(2 * int64(step)), Price: d("3"), HasSize: false},
	}

	all := ScanTicksToCandles(ticks, step, Options{})
	require.Len(t, all, 3)

	dropFirst := ScanTicksToCandles(ticks, step, Options{DropFirst: true})
	require.Len(t, dropFirst, 2)
	assert.Equal(t, all[1], dropFirst[0])

	dropLast := ScanTicksToCandles(ticks, step, Options{DropLast: true})
	require.Len(t, dropLast, 2)
	assert.Equal(t, all[0], dropLast[0])
}

// TestScanTicksToCandles_VolumeFallsBackToCount covers the "volume = count
// when size is unreported" aggregation rule.
func TestScanTicksToCandles_VolumeFallsBackToCount(t *testing.T) {
	step := clock.Minute
	ticks := []Tick{
		{At: 0, Price: d("100"), HasSize: false},
		{At: 1, Price: d("101"), HasSize: false},
		{At: 2, Price: d("99"), HasSize: false},
	}
	candles := ScanTicksToCandles(ticks, step, Options{})
	require.Len(t, candles, 1)
	c := candles[0]
	assert.True(t, c.Open.Equal(d("100")))
	assert.True(t, c.High.Equal(d("101")))
	assert.True(t, c.Low.Equal(d("99")))
	assert.True(t, c.Close.Equal(d("99")))
	assert.True(t, c.Volume.Equal(d("3")))
}
