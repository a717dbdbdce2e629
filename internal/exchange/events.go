package exchange

import (
	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
)

// Fill is one matched (price, size) pair produced by an order, carrying
// enough payload for the strategy layer and for fee accounting.
type Fill struct {
	At         clock.Instant
	OrderID    string
	Instrument Instrument
	Side       book.Side
	Price      decimal.Decimal
	Size       decimal.Decimal
	Fee        decimal.Decimal
}

func (f Fill) Instant() clock.Instant { return f.At }

// OrderEventKind tags the lifecycle transition an OrderEvent reports.
type OrderEventKind int

const (
	EventOpened OrderEventKind = iota
	EventDone
	EventChanged
)

// OrderEvent reports a resting-order lifecycle transition: opened, done or
// changed, mirroring the book.Delta variants that produced it.
type OrderEvent struct {
	At         clock.Instant
	OrderID    string
	Instrument Instrument
	Kind       OrderEventKind
}

func (e OrderEvent) Instant() clock.Instant { return e.At }

// ExchangeError is the queued payload for any recoverable error:
// PostOnlyWouldCross, OrderNotFound, ExchangeError(cause) and
// InternalError(cause). Fatal errors (BookInvariantViolation, a corrupted
// snapshot stream) are returned directly rather than queued -- they abort
// the session instead of being forwarded to the strategy.
type ExchangeError struct {
	At      clock.Instant
	OrderID string
	Cause   error
}

func (e ExchangeError) Instant() clock.Instant { return e.At }
func (e ExchangeError) Error() string          { return e.Cause.Error() }
func (e ExchangeError) Unwrap() error          { return e.Cause }
