package book

import "github.com/shopspring/decimal"

// LadderLevel is one aggregated (price, size) pair in a Ladder.
type LadderLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// Ladder is a fixed-depth projection of a book: the top Depth price levels
// on each side, with per-level sizes summed across the resting queue.
type Ladder struct {
	Bids []LadderLevel
	Asks []LadderLevel
}

type cachedLadder struct {
	version uint64
	depth   int
	ladder  Ladder
}

// Ladder computes the depth-level aggregated view of the book. It is a pure
// function of the book's current state and is cached keyed by the book's
// version counter, so repeated calls between mutations are free.
func (b *OrderBook) Ladder(depth int) Ladder {
	if cached, ok := b.ladderCache[depth]; ok && cached.version == b.version {
		return cached.ladder
	}

	ladder := Ladder{
		Bids: aggregateTop(b.bids, depth),
		Asks: aggregateTop(b.asks, depth),
	}
	b.ladderCache[depth] = cachedLadder{version: b.version, depth: depth, ladder: ladder}
	return ladder
}

func aggregateTop(levels *priceLevels, depth int) []LadderLevel {
	items := levels.Items()
	if depth < len(items) {
		items = items[:depth]
	}
	out := make([]LadderLevel, len(items))
	for i, lvl := range items {
		out[i] = LadderLevel{Price: lvl.price, Size: lvl.total()}
	}
	return out
}
