package simulated

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
)

var inst = exchange.Instrument{Exchange: "test", Symbol: "BTC-USD"}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestExchange() *Exchange {
	return New(Config{
		MakerFee: decimal.Zero,
		TakerFee: dec("0.001"),
	}, nil)
}

// TestSubmitMarket_S3 matches the S3 scenario: a market buy of size 1.5
// against resting asks of (100,1) and (101,2) fills 1@100 and 0.5@101.
func TestSubmitMarket_S3(t *testing.T) {
	ex := newTestExchange()
	require.NoError(t, ex.Feed(inst, clock.Instant(1), book.Open("a1", dec("100"), dec("1"), book.Sell)))
	require.NoError(t, ex.Feed(inst, clock.Instant(1), book.Open("a2", dec("101"), dec("2"), book.Sell)))

	resp := <-ex.SubmitMarket(exchange.MarketCommand{
		ClientOID: "buy-1", Side: book.Buy, Instrument: inst, Size: dec("1.5"),
	})
	require.Equal(t, exchange.RequestOk, resp.Kind)

	fills, _, _ := ex.Collect()
	require.Len(t, fills, 2)
	assert.True(t, fills[0].Price.Equal(dec("100")))
	assert.True(t, fills[0].Size.Equal(dec("1")))
	assert.True(t, fills[1].Price.Equal(dec("101")))
	assert.True(t, fills[1].Size.Equal(dec("0.5")))
}

// TestSubmitLimit_PostOnly_S6 matches scenario S6: a post-only buy below
// the best ask rests; raised to meet the best ask it is rejected.
func TestSubmitLimit_PostOnly_S6(t *testing.T) {
	ex := newTestExchange()
	require.NoError(t, ex.Feed(inst, clock.Instant(1), book.Open("ask", dec("100"), dec("5"), book.Sell)))

	resp := <-ex.SubmitLimit(exchange.LimitCommand{
		ClientOID: "buy-resting", Side: book.Buy, Instrument: inst, Size: dec("1"), Price: dec("99"), PostOnly: true,
	})
	assert.Equal(t, exchange.RequestOk, resp.Kind)

	resp2 := <-ex.SubmitLimit(exchange.LimitCommand{
		ClientOID: "buy-crossing", Side: book.Buy, Instrument: inst, Size: dec("1"), Price: dec("100"), PostOnly: true,
	})
	assert.Equal(t, exchange.RequestFailed, resp2.Kind)
	assert.ErrorIs(t, resp2.Cause, exchange.ErrPostOnlyWouldCross)
}

// TestSubmitLimit_FillThenRest_S6 checks a non-post-only limit order
// consumes available liquidity within its limit and rests the remainder.
func TestSubmitLimit_FillThenRest_S6(t *testing.T) {
	ex := newTestExchange()
	require.NoError(t, ex.Feed(inst, clock.Instant(1), book.Open("ask", dec("100"), dec("1"), book.Sell)))

	resp := <-ex.SubmitLimit(exchange.LimitCommand{
		ClientOID: "buy-1", Side: book.Buy, Instrument: inst, Size: dec("3"), Price: dec("100"),
	})
	require.Equal(t, exchange.RequestOk, resp.Kind)

	fills, events, _ := ex.Collect()
	require.Len(t, fills, 1)
	assert.True(t, fills[0].Size.Equal(dec("1")))
	require.Len(t, events, 2)
	assert.Equal(t, exchange.EventDone, events[0].Kind, "the fully consumed resting ask")
	assert.Equal(t, "ask", events[0].OrderID)
	assert.Equal(t, exchange.EventOpened, events[1].Kind, "the buy order's unfilled remainder rests")
	assert.Equal(t, "buy-1", events[1].OrderID)
}

// TestSubmitMarket_CounterpartyChanged checks that a market order that
// only partially consumes a resting order reports EventChanged for the
// resting order's id, not EventDone.
func TestSubmitMarket_CounterpartyChanged(t *testing.T) {
	ex := newTestExchange()
	require.NoError(t, ex.Feed(inst, clock.Instant(1), book.Open("ask", dec("100"), dec("5"), book.Sell)))

	resp := <-ex.SubmitMarket(exchange.MarketCommand{
		ClientOID: "buy-1", Side: book.Buy, Instrument: inst, Size: dec("2"),
	})
	require.Equal(t, exchange.RequestOk, resp.Kind)

	_, events, _ := ex.Collect()
	require.Len(t, events, 1)
	assert.Equal(t, exchange.EventChanged, events[0].Kind)
	assert.Equal(t, "ask", events[0].OrderID)
}

// TestCancel_OrderNotFound_S4 checks cancelling an unknown id fails with
// OrderNotFound, unlike book.Done's silent tolerance.
func TestCancel_OrderNotFound_S4(t *testing.T) {
	ex := newTestExchange()
	resp := <-ex.Cancel(exchange.CancelCommand{OrderID: "missing", Instrument: inst})
	assert.Equal(t, exchange.RequestFailed, resp.Kind)
	assert.ErrorIs(t, resp.Cause, exchange.ErrOrderNotFound)
}

// TestCancel_RestingOrder succeeds for a known resting order.
func TestCancel_RestingOrder(t *testing.T) {
	ex := newTestExchange()
	<-ex.SubmitLimit(exchange.LimitCommand{
		ClientOID: "resting-1", Side: book.Buy, Instrument: inst, Size: dec("1"), Price: dec("50"), PostOnly: true,
	})
	ex.Collect()

	resp := <-ex.Cancel(exchange.CancelCommand{OrderID: "resting-1", Instrument: inst})
	assert.Equal(t, exchange.RequestOk, resp.Kind)
}

// TestSyntheticClock_AdvancesToLaterOfFeedOrTick checks the synthetic
// clock definition.
func TestSyntheticClock_AdvancesToLaterOfFeedOrTick(t *testing.T) {
	ex := newTestExchange()
	require.NoError(t, ex.Feed(inst, clock.Instant(100), book.Open("a", dec("1"), dec("1"), book.Sell)))
	assert.Equal(t, clock.Instant(100), ex.Now())

	ex.Tick(clock.Instant(50))
	assert.Equal(t, clock.Instant(100), ex.Now(), "tick earlier than last feed must not move the clock backwards")

	ex.Tick(clock.Instant(200))
	assert.Equal(t, clock.Instant(200), ex.Now())
}
