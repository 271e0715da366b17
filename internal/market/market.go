// Package market is the local energy market engine: order book, round-based
// CDA matching, OTC settlement, net-metering, battery handling and clearing
// against the grid provider's tariffs.
package market

import (
	"fmt"

	"energy-market/internal/model"
	"energy-market/internal/strategy"
)

// Config holds the per-scenario market parameters.
// MinPrice is the feed-in tariff, MaxPrice the retail tariff.
type Config struct {
	MinPrice float64
	MaxPrice float64
	Matching model.MatchingMode
}

func (c Config) Validate() error {
	if c.MinPrice < 0 || c.MaxPrice < 0 {
		return fmt.Errorf("%w: prices must be >= 0", model.ErrInvalidPriceBounds)
	}
	if c.MinPrice > c.MaxPrice {
		return fmt.Errorf("%w: min_price %.4f > max_price %.4f", model.ErrInvalidPriceBounds, c.MinPrice, c.MaxPrice)
	}
	if _, err := model.ParseMatchingMode(string(c.Matching)); err != nil {
		return err
	}
	return nil
}

// Totals are the market's running settlement totals.
//
// ProviderBuy/ProviderSell value the energy cleared against the grid provider.
// TraditionalBuyers/TraditionalSellers value the same slots as if no market
// existed. OTCValue is the value of executed bilateral contracts.
type Totals struct {
	ProviderBuy        float64 `json:"provider_buy"`
	ProviderSell       float64 `json:"provider_sell"`
	TraditionalBuyers  float64 `json:"traditional_buyers"`
	TraditionalSellers float64 `json:"traditional_sellers"`
	OTCValue           float64 `json:"otc_value"`
}

// Add returns the field-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		ProviderBuy:        t.ProviderBuy + o.ProviderBuy,
		ProviderSell:       t.ProviderSell + o.ProviderSell,
		TraditionalBuyers:  t.TraditionalBuyers + o.TraditionalBuyers,
		TraditionalSellers: t.TraditionalSellers + o.TraditionalSellers,
		OTCValue:           t.OTCValue + o.OTCValue,
	}
}

// Market is one scenario's CDA market. It is not safe for concurrent use;
// a simulated day owns its Market exclusively.
type Market struct {
	cfg Config

	participants []*model.Participant
	byID         map[string]*model.Participant
	contracts    []OTCContract
	otcApplied   map[int]bool

	book    OrderBook
	visible Snapshot
	prev    Snapshot
	round   int

	trades []model.Trade
	totals Totals
}

// New builds a market over participants. Participants are used in place:
// the market mutates their profiles, cost, revenue and batteries.
func New(participants []*model.Participant, contracts []OTCContract, cfg Config) (*Market, error) {
	if cfg.Matching == "" {
		cfg.Matching = model.MatchRankPaired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Market{
		cfg:          cfg,
		participants: participants,
		byID:         make(map[string]*model.Participant, len(participants)),
		contracts:    append([]OTCContract(nil), contracts...),
		otcApplied:   map[int]bool{},
	}
	for _, p := range participants {
		if p == nil {
			return nil, fmt.Errorf("nil participant")
		}
		if _, dup := m.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateParticipant, p.ID)
		}
		m.byID[p.ID] = p
	}
	return m, nil
}

func (m *Market) Config() Config { return m.cfg }

func (m *Market) MinPrice() float64 { return m.cfg.MinPrice }
func (m *Market) MaxPrice() float64 { return m.cfg.MaxPrice }

// Participants returns the market's participants in construction order.
func (m *Market) Participants() []*model.Participant { return m.participants }

// Participant looks a participant up by id.
func (m *Market) Participant(id string) (*model.Participant, bool) {
	p, ok := m.byID[id]
	return p, ok
}

// Trades returns a copy of the trade ledger.
func (m *Market) Trades() []model.Trade {
	return append([]model.Trade(nil), m.trades...)
}

func (m *Market) Totals() Totals { return m.totals }

// Book returns a snapshot of the live order book.
func (m *Market) Book() Snapshot { return m.book.Snapshot() }

// BookLen is the number of live orders.
func (m *Market) BookLen() int { return m.book.Len() }

// Visible is the previous round's book as strategies saw it this round.
func (m *Market) Visible() Snapshot { return m.visible }

// StartSlot forgets the previous round's book so the first round of a slot
// quotes without a price signal.
func (m *Market) StartSlot() {
	m.prev = Snapshot{}
	m.visible = Snapshot{}
	m.book.Reset()
}

// CollectOrders replaces the book with fresh quotes from every participant.
// Strategies see the book collected in the previous round of the slot.
// It returns the number of orders admitted.
func (m *Market) CollectOrders(strat strategy.Strategy, slot, round, totalRounds int, rng strategy.Rand) int {
	m.visible = m.prev
	m.round = round
	m.book.Reset()

	admitted := 0
	for _, p := range m.participants {
		q := strat.Quote(strategy.Context{
			Participant: p,
			MinPrice:    m.cfg.MinPrice,
			MaxPrice:    m.cfg.MaxPrice,
			Slot:        slot,
			Round:       round,
			TotalRounds: totalRounds,
			VisibleBids: m.visible.Bids,
			VisibleAsks: m.visible.Asks,
			Rand:        rng,
		})
		if m.book.Add(model.Order{ParticipantID: p.ID, Side: model.SideBid, Price: q.BidPrice, Quantity: q.BidQuantity, Slot: slot}) {
			admitted++
		}
		if m.book.Add(model.Order{ParticipantID: p.ID, Side: model.SideAsk, Price: q.AskPrice, Quantity: q.AskQuantity, Slot: slot}) {
			admitted++
		}
	}
	m.prev = m.book.Snapshot()
	return admitted
}

// Submit admits a single order to the live book; used by callers that
// drive the book without a strategy.
func (m *Market) Submit(o model.Order) bool {
	return m.book.Add(o)
}
