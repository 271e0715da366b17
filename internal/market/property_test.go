package market

import (
	"fmt"
	"math/rand"
	"testing"

	"energy-market/internal/model"
	"energy-market/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomPopulation builds n consumers and n prosumers with one random slot.
func randomPopulation(t *testing.T, rng *rand.Rand, n int, battery float64) []*model.Participant {
	t.Helper()
	var ps []*model.Participant
	for i := 0; i < n; i++ {
		ps = append(ps, newConsumer(t, fmt.Sprintf("C%d", i+1), []float64{rng.Float64() * 5}))
	}
	for i := 0; i < n; i++ {
		ps = append(ps, newProsumer(t, fmt.Sprintf("P%d", i+1), []float64{rng.Float64() * 3}, []float64{rng.Float64() * 6}, battery))
	}
	return ps
}

func TestProperties_RoundsAndClearing(t *testing.T) {
	const lo, hi = 0.13, 0.42
	strategies := []strategy.Strategy{strategy.ZeroIntelligence{}, strategy.EyesOnBest{}}
	modes := []model.MatchingMode{model.MatchRankPaired, model.MatchGreedy}
	policies := []model.BatteryPolicy{model.BatteryNone, model.BatteryBeforeAuction, model.BatteryAfterAuction}

	for seed := int64(1); seed <= 20; seed++ {
		for _, strat := range strategies {
			for _, mode := range modes {
				for _, policy := range policies {
					rng := rand.New(rand.NewSource(seed))
					ps := randomPopulation(t, rng, 6, 2)
					m, err := New(ps, nil, Config{MinPrice: lo, MaxPrice: hi, Matching: mode})
					require.NoError(t, err)

					m.BalanceProsumerEnergy(0)
					m.PrepareBattery(0, policy)
					m.StartSlot()
					for round := 0; round < 10; round++ {
						m.CollectOrders(strat, 0, round, 10, rng)
						bidQty := m.book.Quantity(model.SideBid)
						askQty := m.book.Quantity(model.SideAsk)

						matched := 0.0
						for _, tr := range m.MatchOrders(0) {
							matched += tr.Quantity
							assert.GreaterOrEqual(t, tr.Price, lo)
							assert.LessOrEqual(t, tr.Price, hi)
						}
						assert.LessOrEqual(t, matched, min(bidQty, askQty)+1e-9)
					}
					m.ClearMarket(policy)

					assert.Equal(t, 0, m.BookLen())
					for _, p := range ps {
						assert.GreaterOrEqual(t, p.Demand(0), 0.0)
						assert.GreaterOrEqual(t, p.Supply(0), 0.0)
						assert.GreaterOrEqual(t, p.Battery.Storage(), 0.0)
						assert.LessOrEqual(t, p.Battery.Storage(), p.Battery.Capacity())
						assert.InDelta(t, 0.0, p.Demand(0), 1e-9, "every deficit is bought by the end of the slot")
						if policy != model.BatteryAfterAuction {
							assert.InDelta(t, 0.0, p.Supply(0), 1e-9)
						}
					}
				}
			}
		}
	}
}
