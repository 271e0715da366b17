package strategy

import (
	"fmt"
	"strings"

	"energy-market/internal/model"
)

// Rand is the slice of *math/rand.Rand the strategies need. Every draw goes
// through the value carried in Context so a run is reproducible from its seed.
type Rand interface {
	Float64() float64
}

// Context is everything a strategy may look at when quoting for one round.
// VisibleBids and VisibleAsks are the previous round's book; treat them as read-only.
type Context struct {
	Participant *model.Participant

	MinPrice float64
	MaxPrice float64

	Slot        int
	Round       int
	TotalRounds int

	VisibleBids []model.Order
	VisibleAsks []model.Order

	Rand Rand
}

// Quote is a strategy's answer. A zero quantity suppresses that side.
type Quote struct {
	BidPrice    float64
	BidQuantity float64
	AskPrice    float64
	AskQuantity float64
}

type Strategy interface {
	Name() string
	Quote(ctx Context) Quote
}

// Info describes a registered strategy for listings.
type Info struct {
	Name        string
	Description string
}

var registry = []Info{
	{Name: "zi", Description: "Zero-Intelligence: uniform random prices between feed-in and retail tariff, full remaining quantity."},
	{Name: "eob", Description: "Eyes-on-Best: steps toward the previous round's best quotes, step size shrinking as rounds run out."},
}

// Available lists the strategies New accepts.
func Available() []Info {
	return append([]Info(nil), registry...)
}

// New builds a strategy by name (case-insensitive).
func New(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zi", "zero_intelligence":
		return ZeroIntelligence{}, nil
	case "eob", "eyes_on_best":
		return EyesOnBest{}, nil
	default:
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
}

// demandFor is the energy the participant still has to buy this slot.
func demandFor(ctx Context) float64 {
	if ctx.Participant == nil {
		return 0
	}
	return ctx.Participant.Demand(ctx.Slot)
}

// surplusFor is the energy a prosumer can still export this slot.
func surplusFor(ctx Context) float64 {
	if ctx.Participant == nil || !ctx.Participant.IsProsumer {
		return 0
	}
	return ctx.Participant.Supply(ctx.Slot)
}

func uniform(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

func clampPrice(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
