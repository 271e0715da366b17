package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"energy-market/internal/config"
	"energy-market/internal/market"
	"energy-market/internal/model"
	"energy-market/internal/simulation"
	"energy-market/internal/strategy"
)

// Demo:
// - Walk one consumer and one prosumer through a slot by hand
// - Then run the configured scenario for a few slots to show how the pieces fit together
func main() {
	cfgPath := flag.String("config", "", "Path to YAML scenario (optional)")
	n := flag.Int("n", 8, "Number of slots to simulate")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/trades.csv)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	if err := walkthrough(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg.Market.Days = 1
	if *n > 0 && *n < cfg.Market.TimeSlotsPerDay {
		cfg.Market.TimeSlotsPerDay = *n
	}
	sc, err := cfg.Scenario()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("\nScenario: %d consumers, %d prosumers, strategy=%s, battery=%s, %d slots x %d rounds\n\n",
		sc.NumConsumers, sc.NumProsumers, sc.Strategy.Name(), sc.Policy, sc.SlotsPerDay, sc.RoundsPerSlot)

	engine := simulation.New(simulation.WithSlotObserver(func(r simulation.SlotReport) {
		qty, value := 0.0, 0.0
		for _, t := range r.Trades {
			qty += t.Quantity
			value += t.Value()
		}
		avg := 0.0
		if qty > 0 {
			avg = value / qty
		}
		fmt.Printf("slot %3d  trades=%3d  kwh=%7.3f  avg=%.4f  provider buy/sell=%8.4f/%8.4f\n",
			r.Slot, len(r.Trades), qty, avg, r.Totals.ProviderBuy, r.Totals.ProviderSell)
	}))
	res, err := engine.Run(context.Background(), sc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *outCSV != "" {
		if err := simulation.WriteLedgerCSV(*outCSV, res.Ledger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
	fmt.Printf("\nDone. %d trades, %.3f kWh, value %.4f\n", len(res.Ledger), res.TradedEnergy, res.TradeValue)
}

// fixedQuotes quotes every participant at the same prices for its full
// remaining demand and surplus.
type fixedQuotes struct{ bid, ask float64 }

func (fixedQuotes) Name() string { return "fixed" }

func (f fixedQuotes) Quote(ctx strategy.Context) strategy.Quote {
	q := strategy.Quote{BidPrice: f.bid, AskPrice: f.ask, BidQuantity: ctx.Participant.Demand(ctx.Slot)}
	if ctx.Participant.IsProsumer {
		q.AskQuantity = ctx.Participant.Supply(ctx.Slot)
	}
	return q
}

func walkthrough() error {
	const lo, hi = 0.13, 0.42
	for _, step := range []struct {
		title    string
		bid, ask float64
		otc      []market.OTCContract
	}{
		{title: "bid 0.40 crosses ask 0.20", bid: 0.40, ask: 0.20},
		{title: "bid 0.14 below ask 0.30, provider clears", bid: 0.14, ask: 0.30},
		{title: "OTC 5 kWh at 0.20 settles before the auction", bid: 0.40, ask: 0.20,
			otc: []market.OTCContract{{BuyerID: "C1", SellerID: "P1", Quantity: 5, Price: 0.2}}},
	} {
		c1, err := model.NewParticipant("C1", []float64{10}, nil, false, 0)
		if err != nil {
			return err
		}
		p1, err := model.NewParticipant("P1", []float64{0}, []float64{10}, true, 0)
		if err != nil {
			return err
		}
		m, err := market.New([]*model.Participant{c1, p1}, step.otc, market.Config{MinPrice: lo, MaxPrice: hi})
		if err != nil {
			return err
		}

		fmt.Printf("== %s\n", step.title)
		if err := m.ApplyOTCContracts(0); err != nil {
			return err
		}
		if len(step.otc) > 0 {
			fmt.Printf("   after OTC: C1 demand=%.1f  P1 supply=%.1f\n", c1.Demand(0), p1.Supply(0))
		}
		m.StartSlot()
		m.CollectOrders(fixedQuotes{bid: step.bid, ask: step.ask}, 0, 0, 1, nil)
		for _, t := range m.MatchOrders(0) {
			fmt.Printf("   trade %s -> %s  %.1f kWh @ %.2f\n", t.SellerID, t.BuyerID, t.Quantity, t.Price)
		}
		m.ClearMarket(model.BatteryNone)
		tot := m.Totals()
		fmt.Printf("   C1 cost=%.2f  P1 revenue=%.2f  provider buy=%.2f sell=%.2f  book=%d\n",
			c1.Cost, p1.Revenue, tot.ProviderBuy, tot.ProviderSell, m.BookLen())
	}
	return nil
}
