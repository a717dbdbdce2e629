package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestFill_S3 reproduces spec scenario S3: two asks at (100, 1.0) and
// (101, 2.0), one bid at (99, 1.5); a market buy of 2.5 fills [(100, 1.0),
// (101, 1.5)] and leaves 0.5 resting at 101.
func TestFill_S3(t *testing.T) {
	b := New()
	b.Open("ask1", dec("100"), dec("1.0"), Sell)
	b.Open("ask2", dec("101"), dec("2.0"), Sell)
	b.Open("bid1", dec("99"), dec("1.5"), Buy)

	fills, err := b.Fill(Buy, dec("2.5"), nil)
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.True(t, fills[0].Price.Equal(dec("100")))
	assert.True(t, fills[0].Size.Equal(dec("1.0")))
	assert.True(t, fills[1].Price.Equal(dec("101")))
	assert.True(t, fills[1].Size.Equal(dec("1.5")))

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.True(t, ask.Equal(dec("101")))

	ladder := b.Ladder(10)
	require.Len(t, ladder.Asks, 1)
	assert.True(t, ladder.Asks[0].Size.Equal(dec("0.5")))
}

// TestDoneTolerance_S4 reproduces spec scenario S4 and property P6: a Done
// for an unknown (or already-removed) id is a silent no-op.
func TestDoneTolerance_S4(t *testing.T) {
	b := New()
	b.Open("ask1", dec("100"), dec("1.0"), Sell)
	b.Done("ask1")

	_, ok, err := b.Spread()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())

	// Repeated Done on the same (now unknown) id is tolerated.
	assert.NotPanics(t, func() { b.Done("ask1") })
	assert.Equal(t, 0, b.Len())
}

// TestChangeThenFill_S5 reproduces spec scenario S5: an ask is opened at
// (100, 1.0), resized to 2.0 via Change, then fully filled by a 2.0 buy.
func TestChangeThenFill_S5(t *testing.T) {
	b := New()
	b.Open("ask1", dec("100"), dec("1.0"), Sell)
	require.NoError(t, b.Change("ask1", dec("2.0")))

	fills, err := b.Fill(Buy, dec("2.0"), nil)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.True(t, fills[0].Price.Equal(dec("100")))
	assert.True(t, fills[0].Size.Equal(dec("2.0")))
	assert.Equal(t, 0, b.Len())
}

// TestChangeUnknownID_IsInvalidDelta: Change against an id the
// book has never seen (or has since removed) is an error, unlike Done.
func TestChangeUnknownID_IsInvalidDelta(t *testing.T) {
	b := New()
	err := b.Change("ghost", dec("1.0"))
	assert.ErrorIs(t, err, ErrInvalidDelta)
}

// TestLimitRestsBelowBestAsk_S6 reproduces the book side of spec scenario
// S6: a limit buy below the best ask does not match, and the bid resting
// at 99 leaves a valid, uncrossed spread of 1. The post-only rejection
// itself is checked in the simulated exchange's tests.
func TestLimitRestsBelowBestAsk_S6(t *testing.T) {
	b := New()
	b.Open("ask1", dec("100"), dec("1.0"), Sell)

	limit := dec("99")
	fills, err := b.Fill(Buy, dec("1.0"), &limit)
	require.NoError(t, err)
	assert.Empty(t, fills)

	b.Open("bid1", dec("99"), dec("1.0"), Buy)
	spread, ok, err := b.Spread()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, spread.Equal(dec("1")))
}

// TestCrossedBookIsInvariantViolation covers the BookInvariantViolation case:
// a delta stream that rests a crossing bid without matching corrupts the
// book and Spread must surface it as a fatal error.
func TestCrossedBookIsInvariantViolation(t *testing.T) {
	b := New()
	b.Open("ask1", dec("100"), dec("1.0"), Sell)
	b.Open("bid1", dec("101"), dec("1.0"), Buy)

	_, _, err := b.Spread()
	assert.ErrorIs(t, err, ErrBookInvariantViolation)
}

// TestFillConservation_P7 checks that when the opposite side runs dry before
// quantity is exhausted, the sum of fill sizes is strictly less than the
// requested quantity and no error is returned.
func TestFillConservation_P7(t *testing.T) {
	b := New()
	b.Open("ask1", dec("100"), dec("1.0"), Sell)

	fills, err := b.Fill(Buy, dec("5.0"), nil)
	require.NoError(t, err)
	require.Len(t, fills, 1)

	total := decimal.Zero
	for _, f := range fills {
		total = total.Add(f.Size)
	}
	assert.True(t, total.LessThan(dec("5.0")))
	assert.True(t, total.Equal(dec("1.0")))
}

// TestAlwaysReinsertPolicy covers the documented (if odd) default: a Change
// moves the order to the tail of its bucket even on an increase.
func TestAlwaysReinsertPolicy(t *testing.T) {
	b := New()
	b.Open("a", dec("100"), dec("1.0"), Sell)
	b.Open("b", dec("100"), dec("1.0"), Sell)

	require.NoError(t, b.Change("a", dec("2.0")))

	fills, err := b.Fill(Buy, dec("1.0"), nil)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	// "b" should have been consumed first: "a" moved to the tail on Change.
	remaining, ok := b.byID["a"]
	require.True(t, ok)
	assert.True(t, remaining.Size.Equal(dec("2.0")))
	_, bStillThere := b.byID["b"]
	assert.False(t, bStillThere)
}

// TestPreserveOnDecreasePolicy covers the PreserveOnDecrease knob: a size
// decrease keeps the order's place in line.
func TestPreserveOnDecreasePolicy(t *testing.T) {
	b := New(WithChangePolicy(PreserveOnDecrease))
	b.Open("a", dec("100"), dec("2.0"), Sell)
	b.Open("b", dec("100"), dec("1.0"), Sell)

	require.NoError(t, b.Change("a", dec("1.0")))

	fills, err := b.Fill(Buy, dec("1.0"), nil)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	// "a" kept its position at the head of the bucket, so it fills first.
	_, aStillThere := b.byID["a"]
	assert.False(t, aStillThere)
	_, bStillThere := b.byID["b"]
	assert.True(t, bStillThere)
}

func TestFoldReplaysOntoBase(t *testing.T) {
	base := New()
	base.Open("base1", dec("100"), dec("1.0"), Sell)

	overlay := New()
	overlay.Open("overlay1", dec("101"), dec("2.0"), Sell)

	merged := Fold(base, overlay)
	assert.Equal(t, 2, merged.Len())
	ask, ok := merged.BestAsk()
	require.True(t, ok)
	assert.True(t, ask.Equal(dec("100")))
}

func TestUnfoldDrainsBoundedChunks(t *testing.T) {
	b := New()
	b.Open("a", dec("100"), dec("1.0"), Sell)
	b.Open("c", dec("101"), dec("1.0"), Sell)
	b.Open("bid", dec("99"), dec("1.0"), Buy)

	count := 0
	for {
		rest, popped, ok := Unfold(b)
		if !ok {
			break
		}
		require.NotNil(t, popped)
		assert.Equal(t, 1, popped.Len())
		b = rest
		count++
		if count > 10 {
			t.Fatal("Unfold did not terminate")
		}
	}
	assert.Equal(t, 1, b.Len())
}
