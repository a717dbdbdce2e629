package series

import "github.com/saiputra-labs/vantage/internal/clock"

// Iterator is a pull-based, non-restartable sequence of aggregated values
// with a one-item lookahead, letting a caller peek at the next bucket's
// instant before consuming it (e.g. to decide whether to keep draining a
// live feed or hand control back to the tick loop). Finite unless backed by
// a buffered/re-readable source.
type Iterator[U any] struct {
	pending []U
	pos     int
}

// NewIterator wraps an already-materialized slice of scan output as a lazy
// iterator. Scan itself is not pull-based (it consumes its whole input), so
// this is the seam where a streaming source would instead refill pending
// incrementally.
func NewIterator[U any](items []U) *Iterator[U] {
	return &Iterator[U]{pending: items}
}

// Peek returns the next item without consuming it.
func (it *Iterator[U]) Peek() (U, bool) {
	var zero U
	if it.pos >= len(it.pending) {
		return zero, false
	}
	return it.pending[it.pos], true
}

// Next consumes and returns the next item.
func (it *Iterator[U]) Next() (U, bool) {
	item, ok := it.Peek()
	if ok {
		it.pos++
	}
	return item, ok
}

// Done reports whether the iterator is exhausted.
func (it *Iterator[U]) Done() bool {
	return it.pos >= len(it.pending)
}

// PeekInstant is a convenience for Timestamped U: the instant of the next
// pending item, letting a caller compare market-data timing against other
// sources without consuming it.
func PeekInstant[U Timestamped](it *Iterator[U]) (clock.Instant, bool) {
	item, ok := it.Peek()
	if !ok {
		var zero clock.Instant
		return zero, false
	}
	return item.Instant(), true
}
