// Package exchange is the uniform surface the trading session drives: fee
// schedules, order/cancel submission, portfolio snapshots and the three
// FIFO queues (fills, events, errors) a concrete exchange enqueues onto.
// Two implementations exist, simulated and live, sharing this surface.
package exchange

import (
	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
)

// Instrument identifies a tradeable market by its exchange-qualified symbol.
type Instrument struct {
	Exchange string
	Symbol   string
}

func (i Instrument) String() string {
	return i.Exchange + "/" + i.Symbol
}

// LimitCommand requests a resting-or-crossing limit order.
type LimitCommand struct {
	ClientOID  string
	Side       book.Side
	Instrument Instrument
	Size       decimal.Decimal
	Price      decimal.Decimal
	PostOnly   bool
}

// MarketCommand requests an immediate-or-cancel market order: whatever
// matches at once is filled, and any unmatched remainder is dropped.
type MarketCommand struct {
	ClientOID  string
	Side       book.Side
	Instrument Instrument
	Size       decimal.Decimal
}

// CancelCommand requests cancellation of a resting order by exchange id.
type CancelCommand struct {
	OrderID    string
	Instrument Instrument
}

// ResponseKind tags the outcome of an order or cancel request.
type ResponseKind int

const (
	RequestOk ResponseKind = iota
	RequestFailed
)

// Response is the completion of an asynchronous order/cancel/portfolio
// request. Cause is set only when Kind is RequestFailed.
type Response struct {
	Kind    ResponseKind
	OrderID string
	Cause   error
}

// Future is a single-shot, single-reader channel standing in for the async
// response contract ("order(cmd) -> async Response"); the Go
// client reads it with <-future or combines it with a select alongside the
// session's other sources.
type Future = <-chan Response

// Balance is one asset's available/held split in a portfolio snapshot.
type Balance struct {
	Asset     string
	Available decimal.Decimal
	Held      decimal.Decimal
}

// Position is one instrument's net exposure in a portfolio snapshot.
type Position struct {
	Instrument Instrument
	Size       decimal.Decimal
	EntryPrice decimal.Decimal
}

// Portfolio is the full balances/positions snapshot returned by
// fetch_portfolio.
type Portfolio struct {
	Balances  []Balance
	Positions []Position
}

// PortfolioResponse is the async completion of FetchPortfolio.
type PortfolioResponse struct {
	Portfolio Portfolio
	Cause     error
}

// InstrumentsResponse is the async completion of Instruments.
type InstrumentsResponse struct {
	Instruments []Instrument
	Cause       error
}

// TickFunc is the session-installed callback invoked with the current
// synthetic or wall-clock instant every time a response completes, or a
// fill/event/error is enqueued. If the underlying future is already
// complete at submission time, the exchange must invoke this
// synchronously and immediately -- required for backtest determinism.
type TickFunc func(clock.Instant)

// Exchange is the capability set the trading session composes against.
// Concrete implementations: exchange/simulated.Exchange and
// exchange/live.Exchange.
type Exchange interface {
	MakerFee() decimal.Decimal
	TakerFee() decimal.Decimal

	SubmitLimit(cmd LimitCommand) Future
	SubmitMarket(cmd MarketCommand) Future
	Cancel(cmd CancelCommand) Future

	FetchPortfolio() <-chan PortfolioResponse

	BaseAssetPrecision(i Instrument) int32
	QuoteAssetPrecision(i Instrument) int32
	LotSize(i Instrument) (decimal.Decimal, bool)

	// Instruments returns the known instrument set; an exchange with no
	// listing concept returns an empty set.
	Instruments() <-chan InstrumentsResponse

	SetTick(fn TickFunc)

	// Collect atomically drains the fills, events and errors queues.
	Collect() ([]Fill, []OrderEvent, []ExchangeError)
}
