// Package simulated implements the backtest core: an exchange that
// drives an internal order book per instrument from a historical (or
// synthetic-tap) market-data stream, matching strategy-submitted orders
// against it and enqueuing fills/events at a synthetic clock.
package simulated

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
)

// Config parameterises a simulated Exchange.
type Config struct {
	MakerFee       decimal.Decimal
	TakerFee       decimal.Decimal
	BasePrecision  map[exchange.Instrument]int32
	QuotePrecision map[exchange.Instrument]int32
	LotSizes       map[exchange.Instrument]decimal.Decimal
	RoundingMode   exchange.RoundingMode
}

// Exchange is the simulated backtest exchange. It owns one order book per
// instrument and never shares it: "the order book is not shared;
// every session or simulator owns its own."
type Exchange struct {
	exchange.Base

	cfg Config

	mu    sync.Mutex
	books map[exchange.Instrument]*book.OrderBook
	now   clock.Instant
}

// New constructs a simulated exchange. metrics may be nil to disable
// instrumentation (e.g. in unit tests).
func New(cfg Config, metrics *exchange.Metrics) *Exchange {
	return &Exchange{
		Base:  exchange.NewBase(metrics),
		cfg:   cfg,
		books: make(map[exchange.Instrument]*book.OrderBook),
	}
}

func (e *Exchange) bookFor(i exchange.Instrument) *book.OrderBook {
	b, ok := e.books[i]
	if !ok {
		b = book.New()
		e.books[i] = b
	}
	return b
}

// Feed applies a market-data delta to instrument's internal book and
// advances the synthetic clock to at if at is later than the clock's
// current value.
func (e *Exchange) Feed(instrument exchange.Instrument, at clock.Instant, delta book.Delta) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.bookFor(instrument).Update(delta); err != nil {
		return err
	}
	e.advance(at)
	return nil
}

// Tick advances the synthetic clock to at without mutating any book, used
// when a strategy timer fires with no corresponding market-data item.
func (e *Exchange) Tick(at clock.Instant) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(at)
}

func (e *Exchange) advance(at clock.Instant) {
	if at > e.now {
		e.now = at
	}
}

// Now returns the synthetic clock: the timestamp of the last market-data
// item fed in, or the last tick instant if later.
func (e *Exchange) Now() clock.Instant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *Exchange) MakerFee() decimal.Decimal { return e.cfg.MakerFee }
func (e *Exchange) TakerFee() decimal.Decimal { return e.cfg.TakerFee }

func (e *Exchange) BaseAssetPrecision(i exchange.Instrument) int32 {
	return e.cfg.BasePrecision[i]
}

func (e *Exchange) QuoteAssetPrecision(i exchange.Instrument) int32 {
	return e.cfg.QuotePrecision[i]
}

func (e *Exchange) LotSize(i exchange.Instrument) (decimal.Decimal, bool) {
	size, ok := e.cfg.LotSizes[i]
	return size, ok
}

// FetchPortfolio is not simulated beyond an empty snapshot: balance
// simulation is a strategy-layer concern built on top of the Fill stream,
// within scope (the exchange abstraction, not portfolio accounting).
func (e *Exchange) FetchPortfolio() <-chan exchange.PortfolioResponse {
	ch := make(chan exchange.PortfolioResponse, 1)
	ch <- exchange.PortfolioResponse{}
	close(ch)
	e.Base.FireImmediateTick(e.Now())
	return ch
}

// Instruments returns every instrument this exchange has a book for.
func (e *Exchange) Instruments() <-chan exchange.InstrumentsResponse {
	e.mu.Lock()
	out := make([]exchange.Instrument, 0, len(e.books))
	for i := range e.books {
		out = append(out, i)
	}
	e.mu.Unlock()

	ch := make(chan exchange.InstrumentsResponse, 1)
	ch <- exchange.InstrumentsResponse{Instruments: out}
	close(ch)
	e.Base.FireImmediateTick(e.Now())
	return ch
}

// SubmitMarket matches cmd immediately against the opposite side of cmd's
// instrument book and enqueues one Fill per matched (price, size) pair.
func (e *Exchange) SubmitMarket(cmd exchange.MarketCommand) exchange.Future {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Base.RecordSubmitted()
	b := e.bookFor(cmd.Instrument)

	fills, err := b.Fill(cmd.Side, cmd.Size, nil)
	if err != nil {
		return e.fail(cmd.ClientOID, err)
	}
	for _, f := range fills {
		fee := f.Price.Mul(f.Size).Mul(e.cfg.TakerFee)
		e.Base.RecordFill(exchange.Fill{
			At: e.now, OrderID: cmd.ClientOID, Instrument: cmd.Instrument,
			Side: cmd.Side, Price: f.Price, Size: f.Size, Fee: fee,
		}, e.now)
		e.recordCounterpartyEvent(cmd.Instrument, f)
	}
	return e.ok(cmd.ClientOID)
}

// SubmitLimit matches cmd against the book (unless post-only) and rests
// any remainder at cmd.Price, matching the three documented cases.
func (e *Exchange) SubmitLimit(cmd exchange.LimitCommand) exchange.Future {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Base.RecordSubmitted()
	b := e.bookFor(cmd.Instrument)

	crosses := wouldCross(b, cmd.Side, cmd.Price)

	if cmd.PostOnly {
		if crosses {
			e.Base.RecordError(exchange.ExchangeError{At: e.now, OrderID: cmd.ClientOID, Cause: exchange.ErrPostOnlyWouldCross}, e.now)
			return e.fail(cmd.ClientOID, exchange.ErrPostOnlyWouldCross)
		}
		b.Open(cmd.ClientOID, cmd.Price, cmd.Size, cmd.Side)
		e.Base.RecordEvent(exchange.OrderEvent{At: e.now, OrderID: cmd.ClientOID, Instrument: cmd.Instrument, Kind: exchange.EventOpened}, e.now)
		return e.ok(cmd.ClientOID)
	}

	limit := cmd.Price
	fills, err := b.Fill(cmd.Side, cmd.Size, &limit)
	if err != nil {
		return e.fail(cmd.ClientOID, err)
	}

	filled := decimal.Zero
	for _, f := range fills {
		filled = filled.Add(f.Size)
		fee := f.Price.Mul(f.Size).Mul(e.cfg.TakerFee)
		e.Base.RecordFill(exchange.Fill{
			At: e.now, OrderID: cmd.ClientOID, Instrument: cmd.Instrument,
			Side: cmd.Side, Price: f.Price, Size: f.Size, Fee: fee,
		}, e.now)
		e.recordCounterpartyEvent(cmd.Instrument, f)
	}

	remaining := cmd.Size.Sub(filled)
	if remaining.IsPositive() {
		b.Open(cmd.ClientOID, cmd.Price, remaining, cmd.Side)
		e.Base.RecordEvent(exchange.OrderEvent{At: e.now, OrderID: cmd.ClientOID, Instrument: cmd.Instrument, Kind: exchange.EventOpened}, e.now)
	}

	return e.ok(cmd.ClientOID)
}

// Cancel removes a resting order by id, failing with OrderNotFound when
// the id is unknown.
func (e *Exchange) Cancel(cmd exchange.CancelCommand) exchange.Future {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.bookFor(cmd.Instrument)
	if !b.Has(cmd.OrderID) {
		e.Base.RecordError(exchange.ExchangeError{At: e.now, OrderID: cmd.OrderID, Cause: exchange.ErrOrderNotFound}, e.now)
		return e.fail(cmd.OrderID, exchange.ErrOrderNotFound)
	}

	b.Done(cmd.OrderID)
	e.Base.RecordEvent(exchange.OrderEvent{At: e.now, OrderID: cmd.OrderID, Instrument: cmd.Instrument, Kind: exchange.EventDone}, e.now)
	return e.ok(cmd.OrderID)
}

// recordCounterpartyEvent reports the lifecycle transition a match caused
// on the resting (counterparty) side of the book: Done if the match
// consumed the resting order entirely, Changed if it only reduced its
// size, mirroring the book.Delta variant book.Fill applied internally.
func (e *Exchange) recordCounterpartyEvent(instrument exchange.Instrument, f book.FillEvent) {
	kind := exchange.EventChanged
	if f.CounterpartyDone {
		kind = exchange.EventDone
	}
	e.Base.RecordEvent(exchange.OrderEvent{
		At: e.now, OrderID: f.CounterpartyID, Instrument: instrument, Kind: kind,
	}, e.now)
}

// wouldCross reports whether a limit order at price would immediately
// cross the opposite side: price at or through the best ask for a buy,
// price at or through the best bid for a sell. (Scenario S6 is the
// authoritative source for this direction: a buy resting strictly below
// the best ask does not cross and succeeds post-only; raised to meet the
// best ask, it does.)
func wouldCross(b *book.OrderBook, side book.Side, price decimal.Decimal) bool {
	if side == book.Buy {
		ask, ok := b.BestAsk()
		return ok && price.GreaterThanOrEqual(ask)
	}
	bid, ok := b.BestBid()
	return ok && price.LessThanOrEqual(bid)
}

func (e *Exchange) ok(orderID string) exchange.Future {
	return e.Base.ImmediateFuture(exchange.Response{Kind: exchange.RequestOk, OrderID: orderID}, e.now)
}

func (e *Exchange) fail(orderID string, cause error) exchange.Future {
	return e.Base.ImmediateFuture(exchange.Response{Kind: exchange.RequestFailed, OrderID: orderID, Cause: cause}, e.now)
}
