package market

import (
	"testing"

	"energy-market/internal/model"
	"energy-market/internal/strategy"

	"github.com/stretchr/testify/require"
)

// fixedQuotes returns a preset quote per participant id.
type fixedQuotes map[string]strategy.Quote

func (fixedQuotes) Name() string { return "fixed" }

func (f fixedQuotes) Quote(ctx strategy.Context) strategy.Quote {
	return f[ctx.Participant.ID]
}

// seqRand replays fixed draws in order.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// slotProfile returns a profile of n slots with v at slot and zeros elsewhere.
func slotProfile(n, slot int, v float64) []float64 {
	out := make([]float64, n)
	out[slot] = v
	return out
}

func newConsumer(t *testing.T, id string, demand []float64) *model.Participant {
	t.Helper()
	p, err := model.NewParticipant(id, demand, nil, false, 0)
	require.NoError(t, err)
	return p
}

func newProsumer(t *testing.T, id string, demand, pv []float64, battery float64) *model.Participant {
	t.Helper()
	p, err := model.NewParticipant(id, demand, pv, true, battery)
	require.NoError(t, err)
	return p
}

func newMarket(t *testing.T, ps []*model.Participant, contracts []OTCContract, lo, hi float64) *Market {
	t.Helper()
	m, err := New(ps, contracts, Config{MinPrice: lo, MaxPrice: hi})
	require.NoError(t, err)
	return m
}
