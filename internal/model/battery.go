package model

import (
	"errors"
	"math"
)

// Battery is a prosumer's on-site storage.
// Units: kWh. Stored energy is private; the only mutations are Load and Withdraw,
// both of which clamp so that 0 <= stored <= capacity always holds.
type Battery struct {
	capacity float64
	stored   float64
}

// NewBattery returns an empty battery. A zero capacity is allowed and yields a
// battery that rejects every load (consumers get one of these).
func NewBattery(capacityKWh float64) (*Battery, error) {
	b := &Battery{capacity: capacityKWh}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Battery) Validate() error {
	if math.IsNaN(b.capacity) || math.IsInf(b.capacity, 0) {
		return errors.New("battery capacity must be finite")
	}
	if b.capacity < 0 {
		return errors.New("battery capacity must be >= 0")
	}
	return nil
}

// Load stores as much of amount as fits and returns the overflow, which is
// still available to sell or export.
func (b *Battery) Load(amount float64) (overflow float64) {
	if b == nil {
		return math.Max(0, amount)
	}
	if amount <= 0 {
		return 0
	}
	room := b.capacity - b.stored
	if room <= 0 {
		return amount
	}
	if amount <= room {
		b.stored += amount
		return 0
	}
	b.stored = b.capacity
	return amount - room
}

// Withdraw takes min(demand, stored) out of the battery and returns it.
func (b *Battery) Withdraw(demand float64) (withdrawn float64) {
	if b == nil || demand <= 0 || b.stored <= 0 {
		return 0
	}
	withdrawn = math.Min(demand, b.stored)
	b.stored = clamp(b.stored-withdrawn, 0, b.capacity)
	return withdrawn
}

// Storage returns the energy currently held.
func (b *Battery) Storage() float64 {
	if b == nil {
		return 0
	}
	return b.stored
}

func (b *Battery) Capacity() float64 {
	if b == nil {
		return 0
	}
	return b.capacity
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
