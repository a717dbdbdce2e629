package pricetap

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputra-labs/vantage/internal/clock"
)

// TestCardinality_P2_S1 reproduces spec property P2 and scenario S1: a
// 30-day, 5-minute tap emits 30*24*12 = 8640 samples, aligned head/tail.
func TestCardinality_P2_S1(t *testing.T) {
	start := clock.Instant(0)
	end := start.Add(30 * clock.Day)
	step := 5 * clock.Minute

	ticks := Generate(Params{
		Range:      clock.TimeRange{Start: start, End: end},
		Step:       step,
		Start:      decimal.NewFromInt(100),
		Drift:      decimal.Zero,
		Volatility: decimal.NewFromFloat(0.01),
		Seed:       1,
	})

	require.Len(t, ticks, 30*24*12)
	assert.Equal(t, clock.Floor(start, step), ticks[0].At)
	assert.Equal(t, clock.Floor(end, step)-clock.Instant(step), ticks[len(ticks)-1].At)
}

// TestCardinality_TwoDayFiveMinute reproduces the 576-sample example of P2.
func TestCardinality_TwoDayFiveMinute(t *testing.T) {
	start := clock.Instant(0)
	end := start.Add(2 * clock.Day)
	step := 5 * clock.Minute

	ticks := Generate(Params{
		Range:      clock.TimeRange{Start: start, End: end},
		Step:       step,
		Start:      decimal.NewFromInt(100),
		Volatility: decimal.NewFromFloat(0.01),
		Seed:       42,
	})
	require.Len(t, ticks, 576)
}

// TestMonotonicity_P1 checks strictly increasing instants at a constant
// step apart.
func TestMonotonicity_P1(t *testing.T) {
	start := clock.Instant(0)
	end := start.Add(clock.Hour)
	step := clock.Minute

	ticks := Generate(Params{
		Range:      clock.TimeRange{Start: start, End: end},
		Step:       step,
		Start:      decimal.NewFromInt(100),
		Volatility: decimal.NewFromFloat(0.01),
		Seed:       7,
	})
	require.Len(t, ticks, 60)
	for i := 1; i < len(ticks); i++ {
		assert.Greater(t, ticks[i].At, ticks[i-1].At)
		assert.Equal(t, step, clock.Duration(ticks[i].At-ticks[i-1].At))
	}
}

// TestReproducibility checks that the same seed and params always produce
// the same sequence.
func TestReproducibility(t *testing.T) {
	params := Params{
		Range:      clock.TimeRange{Start: 0, End: clock.Instant(clock.Hour)},
		Step:       clock.Minute,
		Start:      decimal.NewFromInt(50),
		Drift:      decimal.NewFromFloat(0.001),
		Volatility: decimal.NewFromFloat(0.02),
		Seed:       123,
	}
	a := Generate(params)
	b := Generate(params)
	assert.Equal(t, a, b)
}
