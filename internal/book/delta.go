package book

import "github.com/shopspring/decimal"

// DeltaKind tags the variant carried by a Delta.
type DeltaKind int

const (
	DeltaOpen DeltaKind = iota
	DeltaDone
	DeltaChange
)

// Delta is a minimal incremental change to an order book: Open adds a new
// resting order, Done removes one completely, Change mutates its size in
// place. Field population depends on Kind; wire serialization order is
// tag, id, then [price, size, side] for Open or [new_size] for Change.
type Delta struct {
	Kind DeltaKind
	ID   string

	// Open only.
	Price decimal.Decimal
	Side  Side

	// Open (initial size) and Change (new size).
	Size decimal.Decimal
}

// Open builds a Delta that inserts a new resting order.
func Open(id string, price, size decimal.Decimal, side Side) Delta {
	return Delta{Kind: DeltaOpen, ID: id, Price: price, Size: size, Side: side}
}

// Done builds a Delta that removes an order completely.
func Done(id string) Delta {
	return Delta{Kind: DeltaDone, ID: id}
}

// Change builds a Delta that replaces an order's resting size.
func Change(id string, newSize decimal.Decimal) Delta {
	return Delta{Kind: DeltaChange, ID: id, Size: newSize}
}
