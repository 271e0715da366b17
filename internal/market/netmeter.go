package market

import "energy-market/internal/model"

// BalanceProsumerEnergy nets each prosumer's generation against its own
// demand for the slot, leaving it a pure exporter or a pure importer.
func (m *Market) BalanceProsumerEnergy(slot int) {
	for _, p := range m.participants {
		if !p.IsProsumer {
			continue
		}
		net := p.Net(slot)
		if net > 0 {
			p.EnergySupply[slot] = net
			p.EnergyDemand[slot] = 0
		} else {
			p.EnergyDemand[slot] = -net
			p.EnergySupply[slot] = 0
		}
	}
}

// PrepareBattery runs the pre-auction battery step. Under BatteryBeforeAuction
// surplus is stored first and only the overflow stays tradable. Under either
// battery policy a deficit is reduced by withdrawing stored energy.
func (m *Market) PrepareBattery(slot int, policy model.BatteryPolicy) {
	if !policy.UsesBattery() {
		return
	}
	for _, p := range m.participants {
		if policy == model.BatteryBeforeAuction && p.Supply(slot) > 0 {
			p.StoreSurplus(slot, p.Supply(slot))
		}
		if p.Demand(slot) > 0 {
			p.CoverDeficit(slot)
		}
	}
}
