package wire

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
)

func TestEncodeDecodeOpen(t *testing.T) {
	d := book.Open("order-1", decimal.NewFromFloat(100.25), decimal.NewFromFloat(2.5), book.Sell)
	at := clock.Instant(123456789)

	frame := EncodeDelta(at, d)
	gotAt, gotDelta, err := DecodeDelta(frame)
	require.NoError(t, err)

	assert.Equal(t, at, gotAt)
	assert.Equal(t, d.Kind, gotDelta.Kind)
	assert.Equal(t, d.ID, gotDelta.ID)
	assert.Equal(t, d.Side, gotDelta.Side)
	assert.True(t, d.Price.Equal(gotDelta.Price))
	assert.True(t, d.Size.Equal(gotDelta.Size))
}

func TestEncodeDecodeDone(t *testing.T) {
	d := book.Done("order-2")
	frame := EncodeDelta(clock.Instant(1), d)
	_, gotDelta, err := DecodeDelta(frame)
	require.NoError(t, err)
	assert.Equal(t, book.DeltaDone, gotDelta.Kind)
	assert.Equal(t, "order-2", gotDelta.ID)
}

func TestEncodeDecodeChange(t *testing.T) {
	d := book.Change("order-3", decimal.NewFromFloat(1.5))
	frame := EncodeDelta(clock.Instant(42), d)
	_, gotDelta, err := DecodeDelta(frame)
	require.NoError(t, err)
	assert.Equal(t, book.DeltaChange, gotDelta.Kind)
	assert.True(t, gotDelta.Size.Equal(decimal.NewFromFloat(1.5)))
}

func TestDecodeTruncatedFrame(t *testing.T) {
	_, _, err := DecodeDelta([]byte{0, 1, 2})
	assert.ErrorIs(t, err, ErrMessageTooShort)
}
