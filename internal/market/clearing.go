package market

import "energy-market/internal/model"

// ClearMarket settles every order left in the book against the grid provider
// and empties the book. Unmatched bids buy at MaxPrice. Unmatched asks sell at
// MinPrice; under BatteryAfterAuction the battery takes what it can first and
// only the overflow is sold.
func (m *Market) ClearMarket(policy model.BatteryPolicy) {
	for _, o := range m.book.Orders() {
		p, ok := m.byID[o.ParticipantID]
		if !ok {
			continue
		}
		switch o.Side {
		case model.SideBid:
			p.Buy(o.Slot, o.Quantity, m.cfg.MaxPrice)
			m.totals.ProviderBuy += o.Quantity * m.cfg.MaxPrice
		case model.SideAsk:
			qty := o.Quantity
			if policy == model.BatteryAfterAuction {
				qty = p.StoreSurplus(o.Slot, qty)
			}
			p.Sell(o.Slot, qty, m.cfg.MinPrice)
			m.totals.ProviderSell += qty * m.cfg.MinPrice
		}
	}
	m.book.Reset()
	m.prev = Snapshot{}
	m.visible = Snapshot{}
}

// TraditionalPrices adds the slot's no-market baseline: every exporter sells
// its net surplus at MinPrice, every importer buys its net deficit at MaxPrice.
func (m *Market) TraditionalPrices(slot int) {
	for _, p := range m.participants {
		net := p.Net(slot)
		if net > 0 {
			m.totals.TraditionalSellers += net * m.cfg.MinPrice
		} else {
			m.totals.TraditionalBuyers += -net * m.cfg.MaxPrice
		}
	}
}
