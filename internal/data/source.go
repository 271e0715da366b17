package data

import (
	"fmt"
	"math"
	"math/rand"

	"energy-market/internal/model"
)

// ProfileSource supplies the load and PV curves of one simulated day.
// rng is the day's generator; sources that are not random ignore it.
type ProfileSource interface {
	DayProfiles(day, slots int, rng *rand.Rand) (model.DayProfiles, error)
}

// Range is a closed [Min, Max] interval in kWh per slot.
type Range struct {
	Min float64
	Max float64
}

func (r Range) draw(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Synthetic draws every slot uniformly from its range. Each day the PV curve
// is also scaled by a weather factor drawn from Weather. With Daylight set the
// PV draw is shaped by a bell peaking at noon, so nights produce nothing.
type Synthetic struct {
	Loads    []Range
	PV       Range
	Weather  Range
	Daylight bool
}

// daylight is exp(-(h-12)^2/8) for the slot's hour of day.
func daylight(slot, slots int) float64 {
	h := 24 * float64(slot) / float64(slots)
	return math.Exp(-(h - 12) * (h - 12) / 8)
}

// DefaultSynthetic returns two load groups (0.2-1.0 and 0.1-0.9 kWh), PV in
// 0.5-1.5 kWh and a weather factor between 0.6 and 1.0.
func DefaultSynthetic() Synthetic {
	return Synthetic{
		Loads:   []Range{{Min: 0.2, Max: 1.0}, {Min: 0.1, Max: 0.9}},
		PV:      Range{Min: 0.5, Max: 1.5},
		Weather: Range{Min: 0.6, Max: 1.0},
	}
}

func (s Synthetic) DayProfiles(day, slots int, rng *rand.Rand) (model.DayProfiles, error) {
	if slots <= 0 {
		return model.DayProfiles{}, fmt.Errorf("day %d: slots must be > 0", day)
	}
	if rng == nil {
		return model.DayProfiles{}, fmt.Errorf("day %d: rng is nil", day)
	}
	if len(s.Loads) == 0 {
		return model.DayProfiles{}, fmt.Errorf("day %d: no load ranges", day)
	}

	out := model.DayProfiles{Loads: make([][]float64, len(s.Loads))}
	for k, r := range s.Loads {
		curve := make([]float64, slots)
		for i := range curve {
			curve[i] = r.draw(rng)
		}
		out.Loads[k] = curve
	}
	out.PV = make([]float64, slots)
	for i := range out.PV {
		out.PV[i] = s.PV.draw(rng)
		if s.Daylight {
			out.PV[i] *= daylight(i, slots)
		}
	}
	weather := 1.0
	if s.Weather.Max > 0 {
		weather = s.Weather.draw(rng)
	}
	out.PV = out.Scaled(weather)
	return out, nil
}

// FileProfiles replays the same profiles every day.
type FileProfiles struct {
	Profiles model.DayProfiles
}

// NewFileProfiles loads a JSON profile file.
func NewFileProfiles(path string) (*FileProfiles, error) {
	p, err := LoadProfilesJSON(path)
	if err != nil {
		return nil, err
	}
	return &FileProfiles{Profiles: *p}, nil
}

func (f *FileProfiles) DayProfiles(day, slots int, _ *rand.Rand) (model.DayProfiles, error) {
	if err := f.Profiles.Validate(slots); err != nil {
		return model.DayProfiles{}, fmt.Errorf("day %d: %w", day, err)
	}
	return f.Profiles, nil
}
