package analysis

import (
	"math"
	"sort"

	"energy-market/internal/simulation"
)

// Summary is a run-level digest used by the CLI tables and the API.
type Summary struct {
	Trades       int     `json:"trades"`
	TradedEnergy float64 `json:"traded_kwh"`
	TradeValue   float64 `json:"trade_value"`

	MinPrice float64 `json:"min_trade_price"`
	MaxPrice float64 `json:"max_trade_price"`
	P05Price float64 `json:"p05_trade_price"`
	P95Price float64 `json:"p95_trade_price"`

	ProviderBuy        float64 `json:"provider_buy"`
	ProviderSell       float64 `json:"provider_sell"`
	TraditionalBuyers  float64 `json:"traditional_buyers"`
	TraditionalSellers float64 `json:"traditional_sellers"`
	OTCValue           float64 `json:"otc_value"`

	Indexes Indexes `json:"indexes"`
}

func Summarize(res *simulation.Result) Summary {
	if res == nil {
		return Summary{}
	}
	s := Summary{
		Trades:             len(res.Ledger),
		TradedEnergy:       res.TradedEnergy,
		TradeValue:         res.TradeValue,
		ProviderBuy:        res.Totals.ProviderBuy,
		ProviderSell:       res.Totals.ProviderSell,
		TraditionalBuyers:  res.Totals.TraditionalBuyers,
		TraditionalSellers: res.Totals.TraditionalSellers,
		OTCValue:           res.Totals.OTCValue,
		Indexes:            ComputeIndexes(res.Ledger, res.Totals),
	}
	if len(res.Ledger) == 0 {
		return s
	}

	prices := make([]float64, 0, len(res.Ledger))
	s.MinPrice, s.MaxPrice = math.Inf(1), math.Inf(-1)
	for _, r := range res.Ledger {
		prices = append(prices, r.Price)
		s.MinPrice = math.Min(s.MinPrice, r.Price)
		s.MaxPrice = math.Max(s.MaxPrice, r.Price)
	}
	sort.Float64s(prices)
	s.P05Price = percentileSorted(prices, 0.05)
	s.P95Price = percentileSorted(prices, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
