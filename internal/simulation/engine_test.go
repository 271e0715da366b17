package simulation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"energy-market/internal/data"
	"energy-market/internal/market"
	"energy-market/internal/model"
	"energy-market/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedPrice quotes full demand at bid and full prosumer supply at ask.
type fixedPrice struct{ bid, ask float64 }

func (fixedPrice) Name() string { return "fixed" }

func (f fixedPrice) Quote(ctx strategy.Context) strategy.Quote {
	q := strategy.Quote{BidPrice: f.bid, AskPrice: f.ask}
	q.BidQuantity = ctx.Participant.Demand(ctx.Slot)
	if ctx.Participant.IsProsumer {
		q.AskQuantity = ctx.Participant.Supply(ctx.Slot)
	}
	return q
}

func tinyScenario() Scenario {
	return Scenario{
		Market:        market.Config{MinPrice: 0.13, MaxPrice: 0.42},
		SlotsPerDay:   1,
		RoundsPerSlot: 3,
		Days:          1,
		NumConsumers:  1,
		NumProsumers:  2,
		Strategy:      fixedPrice{bid: 0.40, ask: 0.20},
		Policy:        model.BatteryNone,
		Profiles: &data.FileProfiles{Profiles: model.DayProfiles{
			Loads: [][]float64{{10}, {0}},
			PV:    []float64{10},
		}},
	}
}

func syntheticScenario(days, workers int) Scenario {
	strat, _ := strategy.New("zi")
	return Scenario{
		Market:          market.Config{MinPrice: 0.37, MaxPrice: 0.5},
		SlotsPerDay:     12,
		RoundsPerSlot:   5,
		Days:            days,
		NumConsumers:    6,
		NumProsumers:    6,
		BatteryCapacity: 2,
		Strategy:        strat,
		Policy:          model.BatteryBeforeAuction,
		Seed:            11,
		Workers:         workers,
		Profiles:        data.DefaultSynthetic(),
	}
}

func TestRun_TwoParticipantCross(t *testing.T) {
	res, err := New().Run(context.Background(), tinyScenario())
	require.NoError(t, err)

	require.Len(t, res.Ledger, 1)
	row := res.Ledger[0]
	assert.Equal(t, "P2", row.SellerID)
	assert.Equal(t, "C1", row.BuyerID)
	assert.Equal(t, 0, row.Round)
	assert.InDelta(t, 10.0, row.Quantity, 1e-9)
	assert.InDelta(t, 0.30, row.Price, 1e-9)
	assert.InDelta(t, 3.0, res.TradeValue, 1e-9)

	assert.InDelta(t, 10*0.42, res.Totals.TraditionalBuyers, 1e-9)
	assert.InDelta(t, 10*0.13, res.Totals.TraditionalSellers, 1e-9)
	assert.Equal(t, 0.0, res.Totals.ProviderBuy)
	assert.Equal(t, 0.0, res.Totals.ProviderSell)

	require.Len(t, res.Participants, 3)
	assert.Equal(t, "C1", res.Participants[0].ID)
	assert.InDelta(t, 3.0, res.Participants[0].Cost, 1e-9)
	assert.InDelta(t, 3.0, res.Participants[2].Revenue, 1e-9)
}

func TestRun_OTCBeforeAuction(t *testing.T) {
	sc := tinyScenario()
	sc.Contracts = []market.OTCContract{{BuyerID: "C1", SellerID: "P2", Quantity: 4, Price: 0.25}}

	res, err := New().Run(context.Background(), sc)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.Totals.OTCValue, 1e-9)
	require.Len(t, res.Ledger, 1)
	assert.InDelta(t, 6.0, res.Ledger[0].Quantity, 1e-9)
	assert.InDelta(t, 1.0+6*0.30, res.Participants[0].Cost, 1e-9)
	// baseline is taken after OTC settlement
	assert.InDelta(t, 6*0.42, res.Totals.TraditionalBuyers, 1e-9)
}

func TestRun_UnknownOTCParticipant(t *testing.T) {
	sc := tinyScenario()
	sc.Contracts = []market.OTCContract{{BuyerID: "C7", SellerID: "P2", Quantity: 1, Price: 0.2}}

	_, err := New().Run(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownParticipant))
}

func TestRun_DeterministicAcrossWorkers(t *testing.T) {
	serial, err := New().Run(context.Background(), syntheticScenario(4, 1))
	require.NoError(t, err)
	parallel, err := New().Run(context.Background(), syntheticScenario(4, 4))
	require.NoError(t, err)

	assert.Equal(t, serial.Ledger, parallel.Ledger)
	assert.Equal(t, serial.Totals, parallel.Totals)
	assert.Equal(t, serial.Participants, parallel.Participants)

	require.Len(t, serial.Days, 4)
	for i, d := range serial.Days {
		assert.Equal(t, i, d.Day)
	}
	for i := 1; i < len(serial.Ledger); i++ {
		assert.LessOrEqual(t, serial.Ledger[i-1].Day, serial.Ledger[i].Day)
	}
}

func TestRun_SeedChangesOutcome(t *testing.T) {
	a, err := New().Run(context.Background(), syntheticScenario(1, 1))
	require.NoError(t, err)
	sc := syntheticScenario(1, 1)
	sc.Seed = 12
	b, err := New().Run(context.Background(), sc)
	require.NoError(t, err)
	assert.NotEqual(t, a.Ledger, b.Ledger)
}

func TestRun_InvariantsOnSyntheticDays(t *testing.T) {
	for _, policy := range model.BatteryPolicies {
		sc := syntheticScenario(2, 2)
		sc.Policy = policy
		res, err := New().Run(context.Background(), sc)
		require.NoError(t, err, policy)

		for _, row := range res.Ledger {
			assert.GreaterOrEqual(t, row.Price, 0.37)
			assert.LessOrEqual(t, row.Price, 0.5)
			assert.Greater(t, row.Quantity, 0.0)
		}
		for _, p := range res.Participants {
			assert.GreaterOrEqual(t, p.Storage, 0.0)
			assert.LessOrEqual(t, p.Storage, p.BatteryCapacity)
			if policy == model.BatteryNone {
				assert.Equal(t, 0.0, p.Storage)
			}
		}
	}
}

func TestRun_SlotObserver(t *testing.T) {
	var reports []SlotReport
	e := New(WithSlotObserver(func(r SlotReport) { reports = append(reports, r) }))

	sc := syntheticScenario(2, 2)
	res, err := e.Run(context.Background(), sc)
	require.NoError(t, err)

	require.Len(t, reports, sc.Days*sc.SlotsPerDay)
	trades := 0
	for _, r := range reports {
		trades += len(r.Trades)
	}
	assert.Equal(t, len(res.Ledger), trades)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Run(ctx, syntheticScenario(3, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScenarioValidate(t *testing.T) {
	base := tinyScenario()
	require.NoError(t, base.Validate())

	cases := map[string]func(*Scenario){
		"bounds":   func(s *Scenario) { s.Market.MinPrice = 0.9 },
		"slots":    func(s *Scenario) { s.SlotsPerDay = 0 },
		"rounds":   func(s *Scenario) { s.RoundsPerSlot = 0 },
		"days":     func(s *Scenario) { s.Days = 0 },
		"nobody":   func(s *Scenario) { s.NumConsumers, s.NumProsumers = 0, 0 },
		"battery":  func(s *Scenario) { s.BatteryCapacity = -1 },
		"strategy": func(s *Scenario) { s.Strategy = nil },
		"policy":   func(s *Scenario) { s.Policy = "later" },
		"profiles": func(s *Scenario) { s.Profiles = nil },
	}
	for name, mutate := range cases {
		sc := tinyScenario()
		mutate(&sc)
		assert.Error(t, sc.Validate(), name)
	}
}

func TestWriteLedger(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLedger(&buf, []LedgerRow{{Day: 1, Slot: 2, Round: 3, SellerID: "P1", BuyerID: "C1", Quantity: 2, Price: 0.4}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "day,slot,round,seller,buyer,quantity_kwh,price,value", lines[0])
	assert.Equal(t, "1,2,3,P1,C1,2.000000,0.400000,0.800000", lines[1])
}

func TestWriteParticipantsCSV(t *testing.T) {
	path := t.TempDir() + "/out/participants.csv"
	err := WriteParticipantsCSV(path, []ParticipantSummary{{ID: "P1", IsProsumer: true, Cost: 1, Revenue: 3, Storage: 0.5, BatteryCapacity: 2}})
	require.NoError(t, err)
}
