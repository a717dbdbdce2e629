package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
	"github.com/saiputra-labs/vantage/internal/strategy"
)

// MarketDataItem is anything the merge loop can sequence as market data: a
// Tick, Candle or Bar out of internal/series.
type MarketDataItem interface {
	Instant() clock.Instant
}

// FeedFunc applies a market-data item to whatever exchange state depends
// on it (typically Exchange.Feed applying the underlying book.Delta)
// before the item is handed to the strategy. A nil FeedFunc means the
// session carries market data to the strategy only, with book state fed
// by some other path (e.g. pre-loaded for a replay-only session).
type FeedFunc[T MarketDataItem] func(item T) error

// Session is the single-threaded tick loop: it merges market-data
// items, scheduled timers and one exchange's fills/events/errors by
// timestamp (ties broken in source order) and dispatches each to a
// strategy.Callback in strictly non-decreasing instant order.
type Session[T MarketDataItem] struct {
	ex    exchange.Exchange
	cb    strategy.Callback
	feed  FeedFunc[T]
	queue *mergeQueue
}

// New constructs a Session driving ex and dispatching to cb. feed may be
// nil.
func New[T MarketDataItem](ex exchange.Exchange, cb strategy.Callback, feed FeedFunc[T]) *Session[T] {
	return &Session[T]{ex: ex, cb: cb, feed: feed, queue: newMergeQueue()}
}

// PushMarketData enqueues a batch of market-data items. Call before Run,
// or from within a strategy callback to stream further items (e.g. a live
// feed appending as data arrives).
func (s *Session[T]) PushMarketData(items []T) {
	for _, it := range items {
		s.queue.push(it.Instant(), sourceMarketData, it)
	}
}

// ScheduleTimer enqueues a timer firing at the given instant with id,
// delivered to the strategy via OnTimer.
func (s *Session[T]) ScheduleTimer(at clock.Instant, id string) {
	s.queue.push(at, sourceTimer, id)
}

// Run drains the merge queue until empty or ctx is cancelled, dispatching
// each item to the strategy callback and re-collecting the exchange's
// three FIFOs after every dispatch. In backtest mode
// (all market data pushed before Run) this naturally terminates once the
// market-data source is exhausted and every collected queue has drained,
// since nothing further is ever pushed.
//
// On cancellation, Run does not dispatch the queue's remaining items --
// shutdown must not let the strategy observe events past the cancel
// point. Instead it drains whatever is still pending: one last Collect
// against the exchange plus every item already waiting in the merge
// queue, and logs what it discards so a late fill is never silently
// dropped.
func (s *Session[T]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.drainOnShutdown()
			return ctx.Err()
		default:
		}

		if s.queue.empty() {
			return nil
		}

		it := s.queue.pop()
		if err := s.dispatch(it); err != nil {
			return err
		}

		fills, events, errs := s.ex.Collect()
		for _, f := range fills {
			s.queue.push(f.Instant(), sourceFill, f)
		}
		for _, e := range events {
			s.queue.push(e.Instant(), sourceEvent, e)
		}
		for _, e := range errs {
			s.queue.push(e.Instant(), sourceError, e)
		}
	}
}

// drainOnShutdown collects any fills/events/errors the exchange queued
// between the last dispatch and cancellation, plus whatever is still
// sitting in the merge queue, and discards all of it with a warning --
// per the shutdown policy, a session that is stopping must not act on
// anything further.
func (s *Session[T]) drainOnShutdown() {
	fills, events, errs := s.ex.Collect()
	discarded := len(fills) + len(events) + len(errs) + s.queue.len()
	if discarded == 0 {
		return
	}
	log.Warn().
		Int("fills", len(fills)).
		Int("events", len(events)).
		Int("errors", len(errs)).
		Int("queued", s.queue.len()).
		Msg("session: shutdown, discarding pending fills/events/errors")
}

func (s *Session[T]) dispatch(it item) error {
	switch it.kind {
	case sourceMarketData:
		data := it.payload.(T)
		if s.feed != nil {
			if err := s.feed(data); err != nil {
				return err
			}
		}
		s.cb.OnMarketData(it.at, data)
	case sourceFill:
		s.cb.OnFill(it.payload.(exchange.Fill))
	case sourceEvent:
		s.cb.OnOrderEvent(it.payload.(exchange.OrderEvent))
	case sourceError:
		s.cb.OnExchangeError(it.payload.(exchange.ExchangeError))
	case sourceTimer:
		s.cb.OnTimer(it.at, it.payload.(string))
	}
	return nil
}
