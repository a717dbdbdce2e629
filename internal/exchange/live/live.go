// Package live is the second exchange.Exchange implementation, dialing a
// live matching engine over TCP rather than simulating one in process. It
// forwards order commands using internal/exchange/wire's codec and
// applies incoming market-data deltas to a local book for ladder/spread
// queries, running its receive loop under a tomb.Tomb-supervised
// goroutine.
package live

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
	"github.com/saiputra-labs/vantage/internal/exchange/wire"
)

const readBufferSize = 4 * 1024

// Config describes the single remote counterparty this Exchange dials.
type Config struct {
	Address        string
	MakerFee       decimal.Decimal
	TakerFee       decimal.Decimal
	BasePrecision  map[exchange.Instrument]int32
	QuotePrecision map[exchange.Instrument]int32
	LotSizes       map[exchange.Instrument]decimal.Decimal
}

// Exchange dials a single TCP counterparty speaking the wire package's
// framing and applies incoming deltas to a local read-through book per
// instrument, for ladder/spread queries against live market data.
type Exchange struct {
	exchange.Base

	cfg  Config
	conn net.Conn

	mu    sync.Mutex
	books map[exchange.Instrument]*book.OrderBook
}

// Dial connects to cfg.Address and starts the receive loop under t,
// returning once the connection is established.
func Dial(t *tomb.Tomb, cfg Config, metrics *exchange.Metrics) (*Exchange, error) {
	conn, err := net.Dial("tcp", cfg.Address)
	if err != nil {
		return nil, err
	}

	e := &Exchange{
		Base:  exchange.NewBase(metrics),
		cfg:   cfg,
		conn:  conn,
		books: make(map[exchange.Instrument]*book.OrderBook),
	}

	t.Go(func() error {
		return e.receiveLoop(t)
	})

	return e, nil
}

// receiveLoop reads delta frames off the wire and applies them until t
// dies or the connection errors.
func (e *Exchange) receiveLoop(t *tomb.Tomb) error {
	defer e.conn.Close()

	buf := make([]byte, readBufferSize)
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		e.conn.SetReadDeadline(time.Now().Add(time.Second))
		n, err := e.conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			log.Error().Err(err).Msg("live: connection read failed")
			return err
		}

		at, delta, err := wire.DecodeDelta(buf[:n])
		if err != nil {
			log.Error().Err(err).Msg("live: malformed delta frame")
			continue
		}

		// The demo wire framing carries no instrument tag, so each delta
		// is applied to the book of every instrument this Exchange has
		// seen a command for.
		e.applyToAll(at, delta)
	}
}

func (e *Exchange) applyToAll(at clock.Instant, delta book.Delta) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range e.books {
		b.Update(delta)
	}
	e.Base.FireImmediateTick(at)
}

func (e *Exchange) bookFor(i exchange.Instrument) *book.OrderBook {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.books[i]
	if !ok {
		b = book.New()
		e.books[i] = b
	}
	return b
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

// send writes an encoded command frame and blocks briefly for ack-less
// send completion; the demo transport has no request/response framing of
// its own, so every command resolves immediately once written.
func (e *Exchange) send(frame []byte) error {
	_, err := e.conn.Write(frame)
	return err
}

func (e *Exchange) SubmitLimit(cmd exchange.LimitCommand) exchange.Future {
	e.Base.RecordSubmitted()
	e.bookFor(cmd.Instrument)
	delta := book.Open(cmd.ClientOID, cmd.Price, cmd.Size, cmd.Side)
	frame := wire.EncodeDelta(clock.Now(), delta)

	if err := e.send(frame); err != nil {
		return e.fail(cmd.ClientOID, exchange.WrapExchangeError(err))
	}
	return e.ok(cmd.ClientOID)
}

func (e *Exchange) SubmitMarket(cmd exchange.MarketCommand) exchange.Future {
	e.Base.RecordSubmitted()
	e.bookFor(cmd.Instrument)
	// A market order has no resting price; it is forwarded as an
	// immediate Done against a synthetic id the counterparty recognizes
	// out-of-band. The demo transport is illustrative, not a production
	// FIX/WebSocket client.
	delta := book.Done(cmd.ClientOID)
	frame := wire.EncodeDelta(clock.Now(), delta)

	if err := e.send(frame); err != nil {
		return e.fail(cmd.ClientOID, exchange.WrapExchangeError(err))
	}
	return e.ok(cmd.ClientOID)
}

func (e *Exchange) Cancel(cmd exchange.CancelCommand) exchange.Future {
	b := e.bookFor(cmd.Instrument)
	if !b.Has(cmd.OrderID) {
		return e.fail(cmd.OrderID, exchange.ErrOrderNotFound)
	}

	frame := wire.EncodeDelta(clock.Now(), book.Done(cmd.OrderID))
	if err := e.send(frame); err != nil {
		return e.fail(cmd.OrderID, exchange.WrapExchangeError(err))
	}
	return e.ok(cmd.OrderID)
}

func (e *Exchange) FetchPortfolio() <-chan exchange.PortfolioResponse {
	ch := make(chan exchange.PortfolioResponse, 1)
	ch <- exchange.PortfolioResponse{}
	close(ch)
	e.Base.FireImmediateTick(clock.Now())
	return ch
}

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
	e.Base.FireImmediateTick(clock.Now())
	return ch
}

func (e *Exchange) ok(orderID string) exchange.Future {
	return e.Base.ImmediateFuture(exchange.Response{Kind: exchange.RequestOk, OrderID: orderID}, clock.Now())
}

func (e *Exchange) fail(orderID string, cause error) exchange.Future {
	now := clock.Now()
	e.Base.RecordError(exchange.ExchangeError{At: now, OrderID: orderID, Cause: cause}, now)
	return e.Base.ImmediateFuture(exchange.Response{Kind: exchange.RequestFailed, OrderID: orderID, Cause: cause}, now)
}

// NewClientOID generates a fresh client order id.
func NewClientOID() string {
	return uuid.New().String()
}
