package market

import (
	"math"

	"energy-market/internal/model"
)

// MatchOrders matches the live book for slot and returns the trades it made.
// Matched orders leave the book; unfilled remainders go back at their price.
func (m *Market) MatchOrders(slot int) []model.Trade {
	bids := m.book.Bids()
	asks := m.book.Asks()

	var (
		trades    []model.Trade
		remaining []model.Order
	)
	if m.cfg.Matching == model.MatchGreedy {
		trades, remaining = m.matchGreedy(slot, bids, asks)
	} else {
		trades, remaining = m.matchRankPaired(slot, bids, asks)
	}

	m.book.replace(remaining)
	m.trades = append(m.trades, trades...)
	return trades
}

// matchRankPaired compares the i-th best bid with the i-th best ask for every
// rank both sides have. A rank that does not cross does not stop later ranks,
// and a remainder is not offered to the next rank.
func (m *Market) matchRankPaired(slot int, bids, asks []model.Order) ([]model.Trade, []model.Order) {
	n := min(len(bids), len(asks))
	var trades []model.Trade
	remaining := make([]model.Order, 0, len(bids)+len(asks))

	for i := 0; i < n; i++ {
		bid, ask := bids[i], asks[i]
		if bid.Price < ask.Price {
			remaining = append(remaining, bid, ask)
			continue
		}
		qty := math.Min(bid.Quantity, ask.Quantity)
		trades = append(trades, m.execute(slot, bid, ask, qty))
		if left := bid.Quantity - qty; left > 0 {
			bid.Quantity = left
			remaining = append(remaining, bid)
		}
		if left := ask.Quantity - qty; left > 0 {
			ask.Quantity = left
			remaining = append(remaining, ask)
		}
	}
	remaining = append(remaining, bids[n:]...)
	remaining = append(remaining, asks[n:]...)
	return trades, remaining
}

// matchGreedy pairs the current best bid and best ask while they cross,
// letting a remainder compete again at the top of its side.
func (m *Market) matchGreedy(slot int, bids, asks []model.Order) ([]model.Trade, []model.Order) {
	bids = append([]model.Order(nil), bids...)
	asks = append([]model.Order(nil), asks...)

	var trades []model.Trade
	for len(bids) > 0 && len(asks) > 0 && bids[0].Price >= asks[0].Price {
		qty := math.Min(bids[0].Quantity, asks[0].Quantity)
		trades = append(trades, m.execute(slot, bids[0], asks[0], qty))

		bids[0].Quantity -= qty
		if bids[0].Quantity <= 0 {
			bids = bids[1:]
		}
		asks[0].Quantity -= qty
		if asks[0].Quantity <= 0 {
			asks = asks[1:]
		}
	}
	remaining := make([]model.Order, 0, len(bids)+len(asks))
	remaining = append(remaining, bids...)
	remaining = append(remaining, asks...)
	return trades, remaining
}

func (m *Market) execute(slot int, bid, ask model.Order, qty float64) model.Trade {
	price := (bid.Price + ask.Price) / 2
	if buyer, ok := m.byID[bid.ParticipantID]; ok {
		buyer.Buy(slot, qty, price)
	}
	if seller, ok := m.byID[ask.ParticipantID]; ok {
		seller.Sell(slot, qty, price)
	}
	return model.Trade{
		SellerID: ask.ParticipantID,
		BuyerID:  bid.ParticipantID,
		Quantity: qty,
		Price:    price,
		Slot:     slot,
		Round:    m.round,
	}
}
