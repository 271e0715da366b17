// Package analysis computes the economic indexes of a finished run.
package analysis

import (
	"math"

	"energy-market/internal/market"
	"energy-market/internal/simulation"
)

// Indexes compare a run against the no-market baseline. Percentages are in
// percent (0-100 scale, unbounded). Every index is 0 when its denominator is.
type Indexes struct {
	AveragePrice     float64 `json:"average_price"`
	PriceDispersion  float64 `json:"price_dispersion"`
	PaymentReduction float64 `json:"payment_reduction_pct"`
	IncomeIncrease   float64 `json:"income_increase_pct"`
	CommunityWelfare float64 `json:"community_welfare_pct"`
}

func ComputeIndexes(ledger []simulation.LedgerRow, totals market.Totals) Indexes {
	avg := AveragePrice(ledger)
	tv := TradeValue(ledger)
	return Indexes{
		AveragePrice:     avg,
		PriceDispersion:  PriceDispersion(ledger, avg),
		PaymentReduction: PaymentReduction(tv, totals.TraditionalBuyers, totals.ProviderBuy),
		IncomeIncrease:   IncomeIncrease(tv, totals.TraditionalSellers, totals.ProviderSell),
		CommunityWelfare: CommunityWelfare(tv, totals),
	}
}

// TradeValue is the sum of quantity*price over the ledger.
func TradeValue(ledger []simulation.LedgerRow) float64 {
	v := 0.0
	for _, r := range ledger {
		v += r.Value()
	}
	return v
}

// AveragePrice is the volume-weighted mean trade price.
func AveragePrice(ledger []simulation.LedgerRow) float64 {
	qty := 0.0
	for _, r := range ledger {
		qty += r.Quantity
	}
	if qty <= 0 {
		return 0
	}
	return TradeValue(ledger) / qty
}

// PriceDispersion is the unweighted standard deviation of trade prices
// around avg.
func PriceDispersion(ledger []simulation.LedgerRow, avg float64) float64 {
	if len(ledger) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range ledger {
		d := r.Price - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(ledger)))
}

// PaymentReduction is how much less buyers paid than at the retail tariff.
func PaymentReduction(tradeValue, traditionalBuyers, providerBuy float64) float64 {
	if traditionalBuyers <= 0 {
		return 0
	}
	after := tradeValue + providerBuy
	return (traditionalBuyers - after) / traditionalBuyers * 100
}

// IncomeIncrease is how much more sellers earned than at the feed-in tariff.
func IncomeIncrease(tradeValue, traditionalSellers, providerSell float64) float64 {
	if traditionalSellers <= 0 {
		return 0
	}
	after := tradeValue + providerSell
	return (after - traditionalSellers) / traditionalSellers * 100
}

// CommunityWelfare is the relative change of the community's net payment to
// the grid provider, as an absolute percentage.
func CommunityWelfare(tradeValue float64, totals market.Totals) float64 {
	originalNet := totals.TraditionalBuyers - totals.TraditionalSellers
	if originalNet == 0 {
		return 0
	}
	afterNet := (tradeValue + totals.ProviderBuy) - (tradeValue + totals.ProviderSell)
	return math.Abs((originalNet-afterNet)/originalNet) * 100
}
