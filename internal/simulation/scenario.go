package simulation

import (
	"errors"
	"fmt"

	"energy-market/internal/data"
	"energy-market/internal/market"
	"energy-market/internal/model"
	"energy-market/internal/strategy"
)

// Scenario is one fully resolved simulation run.
type Scenario struct {
	Market market.Config

	SlotsPerDay   int
	RoundsPerSlot int
	Days          int

	NumConsumers    int
	NumProsumers    int
	BatteryCapacity float64

	Contracts []market.OTCContract
	Strategy  strategy.Strategy
	Policy    model.BatteryPolicy

	// Day d draws from rand.NewSource(Seed + d).
	Seed int64
	// Days simulated in parallel; <= 0 means 1.
	Workers int

	Profiles data.ProfileSource
}

func (s Scenario) Validate() error {
	if err := s.Market.Validate(); err != nil {
		return err
	}
	if s.SlotsPerDay <= 0 {
		return errors.New("slots per day must be > 0")
	}
	if s.RoundsPerSlot <= 0 {
		return errors.New("rounds per slot must be > 0")
	}
	if s.Days <= 0 {
		return errors.New("days must be > 0")
	}
	if s.NumConsumers < 0 || s.NumProsumers < 0 {
		return errors.New("participant counts must be >= 0")
	}
	if s.NumConsumers+s.NumProsumers == 0 {
		return errors.New("at least one participant is required")
	}
	if s.BatteryCapacity < 0 {
		return errors.New("battery capacity must be >= 0")
	}
	if s.Strategy == nil {
		return errors.New("strategy is nil")
	}
	if _, err := model.ParseBatteryPolicy(string(s.Policy)); err != nil {
		return err
	}
	if s.Profiles == nil {
		return errors.New("profile source is nil")
	}
	return nil
}

// ConsumerID and ProsumerID name the i-th (zero-based) generated participant.
func ConsumerID(i int) string { return fmt.Sprintf("C%d", i+1) }
func ProsumerID(i int) string { return fmt.Sprintf("P%d", i+1) }

// buildParticipants creates a fresh population for one day: consumers
// C1..Cn first, then prosumers P1..Pm, each group split across the load curves.
func buildParticipants(s Scenario, profiles model.DayProfiles) ([]*model.Participant, error) {
	ps := make([]*model.Participant, 0, s.NumConsumers+s.NumProsumers)
	for i := 0; i < s.NumConsumers; i++ {
		p, err := model.NewParticipant(ConsumerID(i), profiles.LoadFor(i, s.NumConsumers), nil, false, 0)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	for i := 0; i < s.NumProsumers; i++ {
		p, err := model.NewParticipant(ProsumerID(i), profiles.LoadFor(i, s.NumProsumers), profiles.PV, true, s.BatteryCapacity)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}
