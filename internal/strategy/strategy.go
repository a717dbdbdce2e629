// Package strategy is the narrow callback surface a trading session
// drives: no strategy DSL, no actor transport, just an interface.
// Concrete strategies are ordinary Go values implementing it, wired
// together by cmd/vantage.
package strategy

import (
	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
)

// Callback is the strategy contract the session dispatches to. Every
// method is called from the session's single dispatch goroutine: no
// implementation needs its own locking, and none may block, per the
// cooperative scheduling model.
type Callback interface {
	// OnMarketData is called once per market-data item (tick, candle or
	// bar) in non-decreasing instant order.
	OnMarketData(at clock.Instant, item any)

	// OnFill is called once per fill reported by any exchange the
	// session drives.
	OnFill(fill exchange.Fill)

	// OnOrderEvent is called once per order lifecycle event (opened,
	// done, changed).
	OnOrderEvent(event exchange.OrderEvent)

	// OnExchangeError is called once per recoverable exchange error; the
	// session continues after this call returns.
	OnExchangeError(err exchange.ExchangeError)

	// OnTimer is called when a timer previously scheduled via
	// session.Session.ScheduleTimer fires.
	OnTimer(at clock.Instant, id string)
}

// NoOp is a Callback whose methods all do nothing, useful as an embedding
// base for strategies that only care about a subset of events.
type NoOp struct{}

func (NoOp) OnMarketData(clock.Instant, any)       {}
func (NoOp) OnFill(exchange.Fill)                  {}
func (NoOp) OnOrderEvent(exchange.OrderEvent)      {}
func (NoOp) OnExchangeError(exchange.ExchangeError) {}
func (NoOp) OnTimer(clock.Instant, string)         {}
