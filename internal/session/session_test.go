package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
	"github.com/saiputra-labs/vantage/internal/exchange/simulated"
	"github.com/saiputra-labs/vantage/internal/series"
	"github.com/saiputra-labs/vantage/internal/strategy"
)

var inst = exchange.Instrument{Exchange: "test", Symbol: "BTC-USD"}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type recordingStrategy struct {
	strategy.NoOp
	ticks []series.Tick
	fills []exchange.Fill
}

func (r *recordingStrategy) OnMarketData(at clock.Instant, item any) {
	if t, ok := item.(series.Tick); ok {
		r.ticks = append(r.ticks, t)
	}
}

func (r *recordingStrategy) OnFill(f exchange.Fill) {
	r.fills = append(r.fills, f)
}

func newSimulatedExchange() *simulated.Exchange {
	return simulated.New(simulated.Config{
		MakerFee: decimal.Zero,
		TakerFee: dec("0.001"),
	}, nil)
}

// TestSession_DispatchesMarketDataInOrder verifies that ticks pushed out
// of order are still dispatched to the strategy by ascending instant.
func TestSession_DispatchesMarketDataInOrder(t *testing.T) {
	ex := newSimulatedExchange()
	cb := &recordingStrategy{}
	sess := New[series.Tick](ex, cb, nil)

	sess.PushMarketData([]series.Tick{
		{At: clock.Instant(3_000_000), Price: dec("101"), HasSize: false},
		{At: clock.Instant(1_000_000), Price: dec("100"), HasSize: false},
		{At: clock.Instant(2_000_000), Price: dec("100.5"), HasSize: false},
	})

	require.NoError(t, sess.Run(context.Background()))

	require.Len(t, cb.ticks, 3)
	assert.Equal(t, clock.Instant(1_000_000), cb.ticks[0].At)
	assert.Equal(t, clock.Instant(2_000_000), cb.ticks[1].At)
	assert.Equal(t, clock.Instant(3_000_000), cb.ticks[2].At)
}

// TestSession_FeedsExchangeAndCollectsFills drives a resting ask through
// Feed, then a strategy-submitted market buy through the exchange, and
// checks the resulting Fill reaches the strategy via the merge loop.
func TestSession_FeedsExchangeAndCollectsFills(t *testing.T) {
	ex := newSimulatedExchange()
	require.NoError(t, ex.Feed(inst, clock.Instant(1_000_000), book.Open("ask-1", dec("100"), dec("2"), book.Sell)))

	cb := &recordingStrategy{}
	sess := New[series.Tick](ex, cb, nil)

	<-ex.SubmitMarket(exchange.MarketCommand{
		ClientOID: "buy-1", Side: book.Buy, Instrument: inst, Size: dec("1"),
	})

	sess.PushMarketData([]series.Tick{{At: clock.Instant(2_000_000), Price: dec("100")}})
	require.NoError(t, sess.Run(context.Background()))

	require.Len(t, cb.fills, 1)
	assert.True(t, cb.fills[0].Size.Equal(dec("1")))
	assert.True(t, cb.fills[0].Price.Equal(dec("100")))
}

// TestSession_TimerFiresInTimestampOrder checks a timer interleaves with
// market data by instant rather than by push order.
func TestSession_TimerFiresInTimestampOrder(t *testing.T) {
	ex := newSimulatedExchange()

	rec := &orderRecordingStrategy{}
	sess := New[series.Tick](ex, rec, nil)

	sess.ScheduleTimer(clock.Instant(5_000_000), "late-timer")
	sess.PushMarketData([]series.Tick{{At: clock.Instant(1_000_000), Price: dec("100")}})

	require.NoError(t, sess.Run(context.Background()))
	require.Equal(t, []string{"market-data", "timer"}, rec.order)
}

type orderRecordingStrategy struct {
	strategy.NoOp
	order []string
}

func (r *orderRecordingStrategy) OnMarketData(clock.Instant, any) {
	r.order = append(r.order, "market-data")
}

func (r *orderRecordingStrategy) OnTimer(clock.Instant, string) {
	r.order = append(r.order, "timer")
}
