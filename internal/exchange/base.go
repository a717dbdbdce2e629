package exchange

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saiputra-labs/vantage/internal/clock"
)

// Base is the plumbing every concrete Exchange embeds: the three FIFOs, the
// installed tick callback and the metrics handle. It implements the parts
// of the Exchange interface that do not vary between simulated and live
// (Collect, SetTick) and exposes helpers (RecordFill, RecordEvent,
// RecordError, RecordSubmitted, FireImmediateTick, ImmediateFuture)
// concrete exchanges call from their own submit/cancel logic.
type Base struct {
	Queues
	tick    TickFunc
	metrics *Metrics
}

// NewBase wires a Base against the given metrics handle (nil disables
// metrics entirely, useful in unit tests). The tick callback defaults to a
// no-op: every session must call SetTick before driving the exchange, but
// an un-set exchange used in isolation (e.g. a table test of fill
// accounting) never panics.
func NewBase(metrics *Metrics) Base {
	return Base{tick: func(clock.Instant) {}, metrics: metrics}
}

func (b *Base) SetTick(fn TickFunc) {
	if fn == nil {
		fn = func(clock.Instant) {}
	}
	b.tick = fn
}

// FireImmediateTick invokes the installed tick callback with now directly,
// for completions (FetchPortfolio, Instruments) that enqueue nothing onto
// the three FIFOs but still complete synchronously.
func (b *Base) FireImmediateTick(now clock.Instant) {
	b.fireTick(now, time.Now())
}

// fireTick invokes the installed tick callback with now, observing latency
// since emittedAt for the ambient tick-latency histogram.
func (b *Base) fireTick(now clock.Instant, emittedAt time.Time) {
	b.tick(now)
	b.metrics.ObserveTick(emittedAt)
}

// RecordFill enqueues f and fires the tick callback, for use by concrete
// Exchange implementations from inside SubmitLimit/SubmitMarket.
func (b *Base) RecordFill(f Fill, now clock.Instant) {
	b.Queues.PushFill(f)
	if b.metrics != nil {
		b.metrics.Fills.Inc()
	}
	b.fireTick(now, time.Now())
}

// RecordEvent enqueues e and fires the tick callback.
func (b *Base) RecordEvent(e OrderEvent, now clock.Instant) {
	b.Queues.PushEvent(e)
	b.fireTick(now, time.Now())
}

// RecordError enqueues e, logs it and fires the tick callback.
func (b *Base) RecordError(e ExchangeError, now clock.Instant) {
	b.Queues.PushError(e)
	if b.metrics != nil {
		b.metrics.Errors.Inc()
	}
	log.Error().Str("orderID", e.OrderID).Err(e.Cause).Msg("exchange: recoverable error queued")
	b.fireTick(now, time.Now())
}

// RecordSubmitted increments the orders-submitted counter. Call once per
// SubmitLimit/SubmitMarket invocation, regardless of outcome; cancels are
// not counted.
func (b *Base) RecordSubmitted() {
	if b.metrics != nil {
		b.metrics.OrdersSubmitted.Inc()
	}
}

// ImmediateFuture returns an already-closed Future carrying resp, firing
// the tick callback before returning -- used whenever a request completes
// synchronously, per the determinism requirement ("if the response
// future is already complete at submission time, the handler runs
// synchronously and ticks immediately").
func (b *Base) ImmediateFuture(resp Response, now clock.Instant) Future {
	ch := make(chan Response, 1)
	ch <- resp
	close(ch)
	b.FireImmediateTick(now)
	return ch
}
