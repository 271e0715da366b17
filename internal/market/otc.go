package market

import (
	"fmt"

	"energy-market/internal/model"
)

// OTCContract is a pre-arranged bilateral trade settled before the auction.
type OTCContract struct {
	BuyerID  string  `json:"buyer"`
	SellerID string  `json:"seller"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// ApplyOTCContracts settles every contract for slot, in list order. A
// contract executes only when the seller still has Quantity to supply and the
// buyer still needs Quantity; otherwise it is skipped without a partial fill.
// Contracts naming an unknown participant abort with ErrUnknownParticipant.
// Calling it twice for the same slot settles nothing the second time.
func (m *Market) ApplyOTCContracts(slot int) error {
	if m.otcApplied[slot] {
		return nil
	}
	for i, c := range m.contracts {
		buyer, ok := m.byID[c.BuyerID]
		if !ok {
			return fmt.Errorf("otc contract %d: buyer %q: %w", i, c.BuyerID, model.ErrUnknownParticipant)
		}
		seller, ok := m.byID[c.SellerID]
		if !ok {
			return fmt.Errorf("otc contract %d: seller %q: %w", i, c.SellerID, model.ErrUnknownParticipant)
		}
		if c.Quantity <= 0 {
			continue
		}
		if seller.Supply(slot) < c.Quantity || buyer.Demand(slot) < c.Quantity {
			continue
		}
		seller.Sell(slot, c.Quantity, c.Price)
		buyer.Buy(slot, c.Quantity, c.Price)
		m.totals.OTCValue += c.Quantity * c.Price
	}
	m.otcApplied[slot] = true
	return nil
}
