package simulation

import (
	"energy-market/internal/market"
	"energy-market/internal/model"
)

// LedgerRow is one executed trade. The ledger is the primary artifact for
// "what happened" in a run.
type LedgerRow struct {
	Day      int     `json:"day"`
	Slot     int     `json:"slot"`
	Round    int     `json:"round"`
	SellerID string  `json:"seller"`
	BuyerID  string  `json:"buyer"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

func (r LedgerRow) Value() float64 { return r.Quantity * r.Price }

func rowFromTrade(day int, t model.Trade) LedgerRow {
	return LedgerRow{
		Day:      day,
		Slot:     t.Slot,
		Round:    t.Round,
		SellerID: t.SellerID,
		BuyerID:  t.BuyerID,
		Quantity: t.Quantity,
		Price:    t.Price,
	}
}

// ParticipantSummary is a participant's financial position at the end of a
// day, or summed over all days in Result.Participants.
type ParticipantSummary struct {
	ID              string  `json:"id"`
	IsProsumer      bool    `json:"is_prosumer"`
	Cost            float64 `json:"cost"`
	Revenue         float64 `json:"revenue"`
	Storage         float64 `json:"storage"`
	BatteryCapacity float64 `json:"battery_capacity"`
}

// Net is revenue minus cost.
func (p ParticipantSummary) Net() float64 { return p.Revenue - p.Cost }

func summarize(ps []*model.Participant) []ParticipantSummary {
	out := make([]ParticipantSummary, 0, len(ps))
	for _, p := range ps {
		out = append(out, ParticipantSummary{
			ID:              p.ID,
			IsProsumer:      p.IsProsumer,
			Cost:            p.Cost,
			Revenue:         p.Revenue,
			Storage:         p.Battery.Storage(),
			BatteryCapacity: p.Battery.Capacity(),
		})
	}
	return out
}

// SlotReport is emitted after each slot is cleared.
type SlotReport struct {
	Day    int           `json:"day"`
	Slot   int           `json:"slot"`
	Trades []LedgerRow   `json:"trades"`
	Totals market.Totals `json:"totals"`
}

type DayResult struct {
	Day          int
	Ledger       []LedgerRow
	Totals       market.Totals
	TradeValue   float64
	TradedEnergy float64
	Participants []ParticipantSummary
}

type Result struct {
	Days         []DayResult
	Ledger       []LedgerRow
	Totals       market.Totals
	TradeValue   float64
	TradedEnergy float64
	Participants []ParticipantSummary
}

// aggregate folds day results (already in day order) into a Result.
// Cost and revenue are summed; storage is the last day's.
func aggregate(days []DayResult) *Result {
	res := &Result{Days: days}
	index := map[string]int{}
	for _, d := range days {
		res.Ledger = append(res.Ledger, d.Ledger...)
		res.Totals = res.Totals.Add(d.Totals)
		res.TradeValue += d.TradeValue
		res.TradedEnergy += d.TradedEnergy
		for _, p := range d.Participants {
			i, ok := index[p.ID]
			if !ok {
				index[p.ID] = len(res.Participants)
				res.Participants = append(res.Participants, p)
				continue
			}
			acc := &res.Participants[i]
			acc.Cost += p.Cost
			acc.Revenue += p.Revenue
			acc.Storage = p.Storage
		}
	}
	return res
}
