package handlers

import (
	"errors"
	"fmt"

	"energy-market/internal/config"
	"energy-market/internal/simulation"
)

// Limits bound the work a single API request may ask for.
type Limits struct {
	MaxDays         int
	MaxSlots        int
	MaxRounds       int
	MaxParticipants int
	MaxVariations   int // per compare request
}

func DefaultLimits() Limits {
	return Limits{MaxDays: 31, MaxSlots: 288, MaxRounds: 100, MaxParticipants: 500, MaxVariations: 16}
}

var errProfileFile = errors.New("participants.profile_file is not accepted over the API")

// resolveScenario applies defaults, validates and checks the request limits.
// It returns an error code suitable for models.ErrorResponse.
func resolveScenario(cfg config.Config, lim Limits) (simulation.Scenario, string, error) {
	cfg.ApplyDefaults()
	if cfg.Participants.ProfileFile != "" {
		return simulation.Scenario{}, "INVALID_CONFIG", errProfileFile
	}
	if err := cfg.Validate(); err != nil {
		return simulation.Scenario{}, "INVALID_CONFIG", err
	}
	if err := lim.check(cfg); err != nil {
		return simulation.Scenario{}, "LIMIT_EXCEEDED", err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return simulation.Scenario{}, "INVALID_CONFIG", err
	}
	return sc, "", nil
}

func (l Limits) check(cfg config.Config) error {
	if l.MaxDays > 0 && cfg.Market.Days > l.MaxDays {
		return fmt.Errorf("market.days %d exceeds limit %d", cfg.Market.Days, l.MaxDays)
	}
	if l.MaxSlots > 0 && cfg.Market.TimeSlotsPerDay > l.MaxSlots {
		return fmt.Errorf("market.time_slots_per_day %d exceeds limit %d", cfg.Market.TimeSlotsPerDay, l.MaxSlots)
	}
	if l.MaxRounds > 0 && cfg.Market.RoundsPerSlot > l.MaxRounds {
		return fmt.Errorf("market.rounds_per_slot %d exceeds limit %d", cfg.Market.RoundsPerSlot, l.MaxRounds)
	}
	n := cfg.Participants.NumConsumers + cfg.Participants.NumProsumers
	if l.MaxParticipants > 0 && n > l.MaxParticipants {
		return fmt.Errorf("%d participants exceeds limit %d", n, l.MaxParticipants)
	}
	return nil
}

func (l Limits) checkVariations(n int) error {
	if l.MaxVariations > 0 && n > l.MaxVariations {
		return fmt.Errorf("%d variations exceeds limit %d", n, l.MaxVariations)
	}
	return nil
}
