// Package session drives the tick loop: a single goroutine that
// merges five timestamp-ordered sources (market data, scheduled timers,
// exchange fills, exchange events, exchange errors) and replays them to a
// strategy callback in strictly non-decreasing session-time order.
package session

import (
	"container/heap"

	"github.com/saiputra-labs/vantage/internal/clock"
)

// sourceKind orders same-instant items deterministically. Market data is
// applied before fills/events/errors derived from it can exist, and
// timers fire last among same-instant items so a strategy sees the
// instant's data before any periodic callback for that instant.
type sourceKind int

const (
	sourceMarketData sourceKind = iota
	sourceFill
	sourceEvent
	sourceError
	sourceTimer
)

// item is one entry in the merge heap: a payload tagged with the instant
// and source it arrived from.
type item struct {
	at      clock.Instant
	kind    sourceKind
	seq     uint64
	payload any
}

// itemHeap implements container/heap.Interface, ordering by (at, kind, seq)
// so that ties break deterministically and FIFO within a (instant, kind)
// pair, independent of Go's map/channel-ordering guarantees.
type itemHeap []item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	if h[i].kind != h[j].kind {
		return h[i].kind < h[j].kind
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(item))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// mergeQueue is a priority queue of pending items plus a monotonically
// increasing sequence counter used to break (instant, kind) ties in FIFO
// order.
type mergeQueue struct {
	h   itemHeap
	seq uint64
}

func newMergeQueue() *mergeQueue {
	q := &mergeQueue{}
	heap.Init(&q.h)
	return q
}

func (q *mergeQueue) push(at clock.Instant, kind sourceKind, payload any) {
	q.seq++
	heap.Push(&q.h, item{at: at, kind: kind, seq: q.seq, payload: payload})
}

func (q *mergeQueue) empty() bool { return q.h.Len() == 0 }

func (q *mergeQueue) len() int { return q.h.Len() }

func (q *mergeQueue) pop() item { return heap.Pop(&q.h).(item) }
