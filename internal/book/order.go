package book

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the direction of a resting order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Order is a single resting order in a book. Every order carried in a book
// has a price; market orders in flight are represented upstream by the
// exchange package and never reach here until they either fill completely or
// rest with a concrete price.
type Order struct {
	ID    string
	Side  Side
	Price decimal.Decimal
	Size  decimal.Decimal
}

func (o Order) String() string {
	return fmt.Sprintf("Order{id=%s side=%s price=%s size=%s}", o.ID, o.Side, o.Price, o.Size)
}
