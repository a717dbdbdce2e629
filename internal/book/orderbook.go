package book

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// ChangePolicy selects how Change repositions an order within its price
// bucket. The source this engine is modelled on always re-appends the
// mutated order to the tail of its bucket, which loses time priority on
// size increases just as much as on decreases -- arguably an exchange bug,
// but required for byte-for-byte replay equivalence. PreserveOnDecrease
// keeps the more conventional "priority survives a decrease" behavior.
type ChangePolicy int

const (
	AlwaysReinsert ChangePolicy = iota
	PreserveOnDecrease
)

// priceLevel is a FIFO queue of orders resting at one price.
type priceLevel struct {
	price  decimal.Decimal
	orders []*Order
}

func (l *priceLevel) total() decimal.Decimal {
	sum := decimal.Zero
	for _, o := range l.orders {
		sum = sum.Add(o.Size)
	}
	return sum
}

func (l *priceLevel) indexOf(id string) int {
	for i, o := range l.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// priceLevels is the per-side btree of price levels, ordered best-first by
// its comparator (descending for bids, ascending for asks).
type priceLevels = btree.BTreeG[*priceLevel]

// Option configures a new OrderBook.
type Option func(*OrderBook)

// WithChangePolicy overrides the default AlwaysReinsert change policy.
func WithChangePolicy(p ChangePolicy) Option {
	return func(b *OrderBook) { b.changePolicy = p }
}

// OrderBook is a price-indexed, double-sided limit order book. Mutations are
// applied in place; the book never exposes a partially-mutated state to
// callers (every exported method runs to completion before returning),
// which satisfies the copy-on-write-semantics requirement without the cost
// of an actual persistent data structure.
type OrderBook struct {
	byID map[string]*Order
	bids *priceLevels // best (highest) bid first
	asks *priceLevels // best (lowest) ask first

	lastUpdate   *Delta
	changePolicy ChangePolicy

	version     uint64
	ladderCache map[int]cachedLadder
}

// New creates an empty order book.
func New(opts ...Option) *OrderBook {
	b := &OrderBook{
		byID: make(map[string]*Order),
		bids: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price.GreaterThan(b.price)
		}),
		asks: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price.LessThan(b.price)
		}),
		ladderCache: make(map[int]cachedLadder),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *OrderBook) levels(side Side) *priceLevels {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) touch() {
	b.version++
}

// Open inserts a new resting order at the tail of its price bucket. The
// caller must not replay an id already present; behavior in that case is
// undefined, matching the source this is modelled on.
func (b *OrderBook) Open(id string, price, size decimal.Decimal, side Side) {
	order := &Order{ID: id, Side: side, Price: price, Size: size}
	b.byID[id] = order

	levels := b.levels(side)
	if lvl, ok := levels.GetMut(&priceLevel{price: price}); ok {
		lvl.orders = append(lvl.orders, order)
	} else {
		levels.Set(&priceLevel{price: price, orders: []*Order{order}})
	}
	b.touch()
}

// Done removes an order completely. Unknown ids are silently ignored.
func (b *OrderBook) Done(id string) {
	order, ok := b.byID[id]
	if !ok {
		return
	}
	delete(b.byID, id)

	levels := b.levels(order.Side)
	lvl, ok := levels.GetMut(&priceLevel{price: order.Price})
	if !ok {
		return
	}
	if i := lvl.indexOf(id); i >= 0 {
		lvl.orders = append(lvl.orders[:i], lvl.orders[i+1:]...)
	}
	if len(lvl.orders) == 0 {
		levels.Delete(lvl)
	}
	b.touch()
}

// Change replaces an order's resting size in place. The order's position
// within its bucket is rewritten per the book's ChangePolicy: by default it
// is removed then re-appended to the tail, matching the source's observable
// (if debatable) semantics.
func (b *OrderBook) Change(id string, newSize decimal.Decimal) error {
	order, ok := b.byID[id]
	if !ok {
		return ErrInvalidDelta
	}

	levels := b.levels(order.Side)
	lvl, ok := levels.GetMut(&priceLevel{price: order.Price})
	if !ok {
		return ErrInvalidDelta
	}

	decreased := newSize.LessThan(order.Size)
	preservePosition := b.changePolicy == PreserveOnDecrease && decreased

	i := lvl.indexOf(id)
	if i < 0 {
		return ErrInvalidDelta
	}

	order.Size = newSize
	if !preservePosition {
		lvl.orders = append(lvl.orders[:i], lvl.orders[i+1:]...)
		lvl.orders = append(lvl.orders, order)
	}
	// else: size mutated in place, position in lvl.orders untouched.

	b.touch()
	return nil
}

// Update applies a Delta, recording it as the book's last applied update.
func (b *OrderBook) Update(d Delta) error {
	var err error
	switch d.Kind {
	case DeltaOpen:
		b.Open(d.ID, d.Price, d.Size, d.Side)
	case DeltaDone:
		b.Done(d.ID)
	case DeltaChange:
		err = b.Change(d.ID, d.Size)
	}
	if err == nil {
		delta := d
		b.lastUpdate = &delta
	}
	return err
}

// LastUpdate returns the most recent Delta applied, if any.
func (b *OrderBook) LastUpdate() (Delta, bool) {
	if b.lastUpdate == nil {
		return Delta{}, false
	}
	return *b.lastUpdate, true
}

// BestBid returns the highest resting bid price, if the bid side is
// non-empty.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	lvl, ok := b.bids.Min()
	if !ok {
		return decimal.Zero, false
	}
	return lvl.price, true
}

// BestAsk returns the lowest resting ask price, if the ask side is
// non-empty.
func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	lvl, ok := b.asks.Min()
	if !ok {
		return decimal.Zero, false
	}
	return lvl.price, true
}

// Spread returns BestAsk - BestBid. If either side is empty it returns
// (zero, false, nil). A crossed book (best bid at or above best ask) is a
// BookInvariantViolation: a well-formed delta stream never produces one,
// since crossing opens should have matched instead of resting.
func (b *OrderBook) Spread() (decimal.Decimal, bool, error) {
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	if !hasBid || !hasAsk {
		return decimal.Zero, false, nil
	}
	if bid.GreaterThanOrEqual(ask) {
		return decimal.Zero, false, ErrBookInvariantViolation
	}
	return ask.Sub(bid), true, nil
}

// FillEvent is one matched (price, size) pair produced by Fill, in match
// order. CounterpartyID and CounterpartyDone identify the resting order on
// the book side of the match and whether that match fully consumed it (a
// Done transition) or only reduced its size (a Change transition).
type FillEvent struct {
	Price            decimal.Decimal
	Size             decimal.Decimal
	CounterpartyID   string
	CounterpartyDone bool
}

// Fill matches quantity against the opposite side of side, walking price
// levels best-first and FIFO within a level. If limit is non-nil, matching
// halts once the best opposite price would violate it (limit < best ask for
// a buy, limit > best bid for a sell). Returns the matched (price, size)
// pairs in match order; running out of opposite-side liquidity before
// quantity is exhausted is not an error.
func (b *OrderBook) Fill(side Side, quantity decimal.Decimal, limit *decimal.Decimal) ([]FillEvent, error) {
	opposite := Sell
	if side == Sell {
		opposite = Buy
	}
	levels := b.levels(opposite)

	var fills []FillEvent
	remaining := quantity

	for remaining.IsPositive() {
		lvl, ok := levels.Min()
		if !ok {
			break
		}
		if limit != nil {
			violates := (side == Buy && limit.LessThan(lvl.price)) ||
				(side == Sell && limit.GreaterThan(lvl.price))
			if violates {
				break
			}
		}
		if len(lvl.orders) == 0 {
			// Defensive: empty buckets are always removed elsewhere, but
			// never trust a stale reference across mutation.
			levels.Delete(lvl)
			continue
		}

		top := lvl.orders[0]
		consumed := decimal.Min(remaining, top.Size)
		done := consumed.Equal(top.Size)
		fills = append(fills, FillEvent{
			Price: lvl.price, Size: consumed,
			CounterpartyID: top.ID, CounterpartyDone: done,
		})
		remaining = remaining.Sub(consumed)

		if done {
			b.Done(top.ID)
		} else {
			if err := b.Change(top.ID, top.Size.Sub(consumed)); err != nil {
				return fills, err
			}
		}
	}

	return fills, nil
}

// Fold replays every order resting in b, in best-first FIFO order, as an
// Open against base, returning the resulting book. Used to rebuild a full
// book from a snapshot layered on top of a base state.
func Fold(base, b *OrderBook) *OrderBook {
	out := base.clone()
	for _, side := range [...]Side{Sell, Buy} {
		for _, lvl := range b.levels(side).Items() {
			for _, o := range lvl.orders {
				out.Open(o.ID, o.Price, o.Size, o.Side)
			}
		}
	}
	return out
}

// Unfold pops one order from b and returns the book without it alongside a
// singleton book containing only that order. Once b has one or zero orders
// remaining, it returns (b, nil, false), terminating the streaming chunk.
func Unfold(b *OrderBook) (rest *OrderBook, popped *OrderBook, ok bool) {
	if len(b.byID) <= 1 {
		return b, nil, false
	}

	var chosen *Order
	for _, side := range [...]Side{Sell, Buy} {
		items := b.levels(side).Items()
		if len(items) == 0 {
			continue
		}
		lvl := items[0]
		if len(lvl.orders) > 0 {
			chosen = lvl.orders[0]
			break
		}
	}
	if chosen == nil {
		return b, nil, false
	}

	rest = b.clone()
	rest.Done(chosen.ID)

	singleton := New(WithChangePolicy(b.changePolicy))
	singleton.Open(chosen.ID, chosen.Price, chosen.Size, chosen.Side)
	return rest, singleton, true
}

// clone returns a deep-enough copy of b: a fresh book containing the same
// resting orders, safe to mutate independently.
func (b *OrderBook) clone() *OrderBook {
	out := New(WithChangePolicy(b.changePolicy))
	for _, side := range [...]Side{Sell, Buy} {
		for _, lvl := range b.levels(side).Items() {
			for _, o := range lvl.orders {
				out.Open(o.ID, o.Price, o.Size, o.Side)
			}
		}
	}
	return out
}

// Len returns the number of resting orders across both sides.
func (b *OrderBook) Len() int {
	return len(b.byID)
}

// Has reports whether id is currently resting in the book.
func (b *OrderBook) Has(id string) bool {
	_, ok := b.byID[id]
	return ok
}

// Get returns the resting order for id, if present.
func (b *OrderBook) Get(id string) (Order, bool) {
	o, ok := b.byID[id]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// OrderIDs returns the ids of every order currently resting in the book,
// in no particular order.
func (b *OrderBook) OrderIDs() []string {
	ids := make([]string, 0, len(b.byID))
	for id := range b.byID {
		ids = append(ids, id)
	}
	return ids
}
