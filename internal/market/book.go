package market

import (
	"sort"

	"energy-market/internal/model"
)

// OrderBook holds the active, unmatched orders of the round in progress.
type OrderBook struct {
	orders []model.Order
}

// Add admits o if it is valid and reports whether it was admitted.
// Orders with a non-positive price or quantity never enter the book.
func (b *OrderBook) Add(o model.Order) bool {
	if !o.Valid() {
		return false
	}
	b.orders = append(b.orders, o)
	return true
}

// Len is the number of active orders.
func (b *OrderBook) Len() int { return len(b.orders) }

// Orders returns a copy of the active orders in insertion order.
func (b *OrderBook) Orders() []model.Order {
	return append([]model.Order(nil), b.orders...)
}

// Bids returns the active bids sorted by price, highest first.
// Equal prices keep insertion order.
func (b *OrderBook) Bids() []model.Order {
	bids := b.side(model.SideBid)
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	return bids
}

// Asks returns the active asks sorted by price, lowest first.
func (b *OrderBook) Asks() []model.Order {
	asks := b.side(model.SideAsk)
	sort.SliceStable(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })
	return asks
}

// Quantity sums the quantity on one side of the book.
func (b *OrderBook) Quantity(side model.Side) float64 {
	total := 0.0
	for _, o := range b.orders {
		if o.Side == side {
			total += o.Quantity
		}
	}
	return total
}

// Reset empties the book.
func (b *OrderBook) Reset() { b.orders = b.orders[:0] }

func (b *OrderBook) replace(orders []model.Order) {
	b.orders = append(b.orders[:0], orders...)
}

func (b *OrderBook) side(s model.Side) []model.Order {
	out := make([]model.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if o.Side == s {
			out = append(out, o)
		}
	}
	return out
}

// Snapshot is a read-only copy of one round's book, split by side.
type Snapshot struct {
	Bids []model.Order
	Asks []model.Order
}

func (b *OrderBook) Snapshot() Snapshot {
	return Snapshot{Bids: b.Bids(), Asks: b.Asks()}
}
