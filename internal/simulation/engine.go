// Package simulation drives the market over days, slots and rounds.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"energy-market/internal/market"
	"energy-market/internal/model"
)

type Engine struct {
	logger *slog.Logger

	mu     sync.Mutex
	onSlot func(SlotReport)
}

type Option func(*Engine)

// WithLogger sets the engine's logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSlotObserver registers fn to receive a report after every cleared slot.
// Calls are serialized even when days run in parallel.
func WithSlotObserver(fn func(SlotReport)) Option {
	return func(e *Engine) { e.onSlot = fn }
}

func New(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run simulates every day of the scenario and returns the results in day
// order. Days are independent and run on up to s.Workers goroutines; the
// output does not depend on the worker count.
func (e *Engine) Run(ctx context.Context, s Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > s.Days {
		workers = s.Days
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		day DayResult
		err error
	}

	workCh := make(chan int, s.Days)
	results := make([]outcome, s.Days)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for day := range workCh {
				if ctx.Err() != nil {
					results[day].err = ctx.Err()
					continue
				}
				dr, err := e.RunDay(ctx, s, day)
				if err != nil {
					cancel()
				}
				results[day] = outcome{day: dr, err: err}
			}
		}()
	}
	for day := 0; day < s.Days; day++ {
		workCh <- day
	}
	close(workCh)
	wg.Wait()

	// A failing day cancels the others; report the failure, not the cancellations.
	var firstErr error
	days := make([]DayResult, 0, s.Days)
	for _, r := range results {
		switch {
		case r.err == nil:
			days = append(days, r.day)
		case firstErr == nil:
			firstErr = r.err
		case errors.Is(firstErr, context.Canceled) && !errors.Is(r.err, context.Canceled):
			firstErr = r.err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	res := aggregate(days)

	e.logger.Info("simulation complete",
		"days", s.Days,
		"workers", workers,
		"strategy", s.Strategy.Name(),
		"battery_policy", s.Policy,
		"trades", len(res.Ledger),
		"trade_value", res.TradeValue,
	)
	return res, nil
}

// RunDay simulates a single day on a fresh population and market.
func (e *Engine) RunDay(ctx context.Context, s Scenario, day int) (DayResult, error) {
	rng := rand.New(rand.NewSource(s.Seed + int64(day)))

	profiles, err := s.Profiles.DayProfiles(day, s.SlotsPerDay, rng)
	if err != nil {
		return DayResult{}, fmt.Errorf("day %d profiles: %w", day, err)
	}
	if err := profiles.Validate(s.SlotsPerDay); err != nil {
		return DayResult{}, fmt.Errorf("day %d profiles: %w", day, err)
	}
	participants, err := buildParticipants(s, profiles)
	if err != nil {
		return DayResult{}, fmt.Errorf("day %d: %w", day, err)
	}
	m, err := market.New(participants, s.Contracts, s.Market)
	if err != nil {
		return DayResult{}, fmt.Errorf("day %d: %w", day, err)
	}

	dr := DayResult{Day: day}
	for slot := 0; slot < s.SlotsPerDay; slot++ {
		if err := ctx.Err(); err != nil {
			return DayResult{}, err
		}
		trades, err := settleSlot(m, s, slot, rng)
		if err != nil {
			return DayResult{}, fmt.Errorf("day %d slot %d: %w", day, slot, err)
		}

		rows := make([]LedgerRow, 0, len(trades))
		for _, t := range trades {
			rows = append(rows, rowFromTrade(day, t))
			dr.TradeValue += t.Value()
			dr.TradedEnergy += t.Quantity
		}
		dr.Ledger = append(dr.Ledger, rows...)

		e.logger.Debug("slot cleared",
			"day", day,
			"slot", slot,
			"trades", len(rows),
			"provider_buy", m.Totals().ProviderBuy,
			"provider_sell", m.Totals().ProviderSell,
		)
		e.emit(SlotReport{Day: day, Slot: slot, Trades: rows, Totals: m.Totals()})
	}

	dr.Totals = m.Totals()
	dr.Participants = summarize(participants)

	e.logger.Info("day complete",
		"day", day,
		"trades", len(dr.Ledger),
		"traded_kwh", dr.TradedEnergy,
		"trade_value", dr.TradeValue,
	)
	return dr, nil
}

// settleSlot runs one slot: OTC contracts, net-metering and battery
// pre-adjustment, baseline accounting, the auction rounds, then clearing.
func settleSlot(m *market.Market, s Scenario, slot int, rng *rand.Rand) ([]model.Trade, error) {
	if err := m.ApplyOTCContracts(slot); err != nil {
		return nil, err
	}
	m.BalanceProsumerEnergy(slot)
	m.PrepareBattery(slot, s.Policy)
	m.TraditionalPrices(slot)

	m.StartSlot()
	var trades []model.Trade
	for round := 0; round < s.RoundsPerSlot; round++ {
		m.CollectOrders(s.Strategy, slot, round, s.RoundsPerSlot, rng)
		trades = append(trades, m.MatchOrders(slot)...)
	}
	m.ClearMarket(s.Policy)
	return trades, nil
}

func (e *Engine) emit(r SlotReport) {
	if e.onSlot == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSlot(r)
}
