package marketdata

import (
	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/book"
)

// SnapshotRecord is one resting order in a seq-ordered book snapshot
// stream, the bounded-chunk unit book.Unfold produces and book.Fold
// consumes.
type SnapshotRecord struct {
	Product string
	Seq     uint64
	Bid     bool
	ID      string
	Price   decimal.Decimal
	Size    decimal.Decimal
}

// EncodeSnapshot drains b one order at a time via book.Unfold, numbering
// each popped order with an increasing seq, until at most one order
// remains. Does not mutate b.
func EncodeSnapshot(product string, b *book.OrderBook) []SnapshotRecord {
	var records []SnapshotRecord
	remaining := b
	var seq uint64
	for {
		rest, popped, ok := book.Unfold(remaining)
		if !ok {
			break
		}
		o, found := singleOrder(popped)
		if !found {
			break
		}
		records = append(records, SnapshotRecord{
			Product: product,
			Seq:     seq,
			Bid:     o.Side == book.Buy,
			ID:      o.ID,
			Price:   o.Price,
			Size:    o.Size,
		})
		seq++
		remaining = rest
	}
	return records
}

func singleOrder(singleton *book.OrderBook) (book.Order, bool) {
	if singleton == nil {
		return book.Order{}, false
	}
	for _, id := range singleton.OrderIDs() {
		o, ok := singleton.Get(id)
		if ok {
			return o, true
		}
	}
	return book.Order{}, false
}

// DecodeSnapshot rebuilds a book from a seq-ordered snapshot stream,
// replaying each record as an Open against base via book.Fold.
func DecodeSnapshot(base *book.OrderBook, records []SnapshotRecord) *book.OrderBook {
	snapshot := book.New()
	for _, r := range records {
		side := book.Sell
		if r.Bid {
			side = book.Buy
		}
		snapshot.Open(r.ID, r.Price, r.Size, side)
	}
	return book.Fold(base, snapshot)
}
