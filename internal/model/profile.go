package model

import (
	"errors"
	"fmt"
)

// DayProfiles is the energy input for one simulated day, in kWh per time slot.
//
// Loads holds one or more load curves; participants of each group are split
// into len(Loads) contiguous blocks, block k using Loads[k]. PV is the
// generation curve shared by every prosumer.
type DayProfiles struct {
	Loads [][]float64 `json:"loads"`
	PV    []float64   `json:"pv"`
}

func (d DayProfiles) Validate(slots int) error {
	if len(d.Loads) == 0 {
		return errors.New("at least one load profile is required")
	}
	for i, l := range d.Loads {
		if len(l) != slots {
			return fmt.Errorf("load profile %d has %d slots, want %d", i, len(l), slots)
		}
	}
	if len(d.PV) != slots {
		return fmt.Errorf("pv profile has %d slots, want %d", len(d.PV), slots)
	}
	return nil
}

// LoadFor returns the load curve of the i-th of n participants in a group.
func (d DayProfiles) LoadFor(i, n int) []float64 {
	if n <= 0 || len(d.Loads) == 0 {
		return nil
	}
	k := i * len(d.Loads) / n
	if k >= len(d.Loads) {
		k = len(d.Loads) - 1
	}
	return d.Loads[k]
}

// Scaled returns a copy of the PV curve multiplied by factor.
func (d DayProfiles) Scaled(factor float64) []float64 {
	out := make([]float64, len(d.PV))
	for i, v := range d.PV {
		out[i] = v * factor
	}
	return out
}
