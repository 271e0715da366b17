package model

import (
	"errors"
	"fmt"
)

// Participant is one actor in the local market.
//
// EnergyDemand and EnergySupply hold one kWh value per time slot and are
// mutated in place as the market settles a slot. Cost and Revenue only grow.
type Participant struct {
	ID         string
	IsProsumer bool

	EnergyDemand []float64
	EnergySupply []float64

	Cost    float64
	Revenue float64

	Battery *Battery
}

// NewParticipant copies the profiles so that a market never mutates the
// caller's arrays. Consumers get a zero supply curve and a zero-capacity battery.
func NewParticipant(id string, demand, pv []float64, prosumer bool, batteryKWh float64) (*Participant, error) {
	if id == "" {
		return nil, errors.New("participant id is required")
	}
	if !prosumer {
		batteryKWh = 0
	}
	batt, err := NewBattery(batteryKWh)
	if err != nil {
		return nil, fmt.Errorf("participant %s: %w", id, err)
	}

	p := &Participant{
		ID:           id,
		IsProsumer:   prosumer,
		EnergyDemand: append([]float64(nil), demand...),
		EnergySupply: make([]float64, len(demand)),
		Battery:      batt,
	}
	if prosumer {
		if len(pv) != len(demand) {
			return nil, fmt.Errorf("participant %s: pv profile has %d slots, demand has %d", id, len(pv), len(demand))
		}
		copy(p.EnergySupply, pv)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Participant) Validate() error {
	for slot, v := range p.EnergyDemand {
		if v < 0 {
			return fmt.Errorf("participant %s: negative demand %.4f at slot %d", p.ID, v, slot)
		}
	}
	for slot, v := range p.EnergySupply {
		if v < 0 {
			return fmt.Errorf("participant %s: negative supply %.4f at slot %d", p.ID, v, slot)
		}
	}
	return nil
}

// Slots is the number of time slots the profiles cover.
func (p *Participant) Slots() int { return len(p.EnergyDemand) }

func (p *Participant) Demand(slot int) float64 { return p.EnergyDemand[slot] }
func (p *Participant) Supply(slot int) float64 { return p.EnergySupply[slot] }

// Buy records energy bought at price: demand shrinks, cost grows.
func (p *Participant) Buy(slot int, qty, price float64) {
	if qty <= 0 {
		return
	}
	p.EnergyDemand[slot] = nonNegative(p.EnergyDemand[slot] - qty)
	p.Cost += qty * price
}

// Sell records energy sold at price: supply shrinks, revenue grows.
func (p *Participant) Sell(slot int, qty, price float64) {
	if qty <= 0 {
		return
	}
	p.EnergySupply[slot] = nonNegative(p.EnergySupply[slot] - qty)
	p.Revenue += qty * price
}

// Net is supply minus demand for the slot.
func (p *Participant) Net(slot int) float64 {
	return p.EnergySupply[slot] - p.EnergyDemand[slot]
}

// nonNegative absorbs float rounding left over from repeated partial fills.
func nonNegative(x float64) float64 {
	if x < 1e-12 {
		return 0
	}
	return x
}

// StoreSurplus moves up to qty of the slot's supply into the battery and
// returns the part the battery rejected, which stays in supply.
func (p *Participant) StoreSurplus(slot int, qty float64) (overflow float64) {
	if qty <= 0 {
		return 0
	}
	overflow = p.Battery.Load(qty)
	p.EnergySupply[slot] = nonNegative(p.EnergySupply[slot] - (qty - overflow))
	return overflow
}

// CoverDeficit draws on the battery to reduce the slot's demand and returns
// the energy withdrawn.
func (p *Participant) CoverDeficit(slot int) (withdrawn float64) {
	withdrawn = p.Battery.Withdraw(p.EnergyDemand[slot])
	p.EnergyDemand[slot] = nonNegative(p.EnergyDemand[slot] - withdrawn)
	return withdrawn
}
