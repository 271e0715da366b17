package strategy

import "energy-market/internal/model"

// EyesOnBest steers quotes toward the previous round's best bid and ask.
//
// delta = ((TotalRounds-Round)/TotalRounds) * (MaxPrice-MinPrice)/100, so the
// step shrinks as the slot's rounds run out. When the visible best bid already
// meets the best ask the new quotes step back toward each other by delta;
// otherwise the bid steps up and the ask steps down. A side with nothing
// visible uses MinPrice (bids) or MaxPrice (asks) as its best. With an empty
// previous book both prices are drawn inside [Min+delta, Max-delta].
type EyesOnBest struct{}

func (EyesOnBest) Name() string { return "eob" }

func (EyesOnBest) Quote(ctx Context) Quote {
	delta := eobDelta(ctx)

	var bidPrice, askPrice float64
	if len(ctx.VisibleBids) == 0 && len(ctx.VisibleAsks) == 0 {
		bidPrice = uniform(ctx.Rand, ctx.MinPrice+delta, ctx.MaxPrice-delta)
		askPrice = uniform(ctx.Rand, ctx.MinPrice+delta, ctx.MaxPrice-delta)
	} else {
		bestBid := BestBid(ctx.VisibleBids, ctx.MinPrice)
		bestAsk := BestAsk(ctx.VisibleAsks, ctx.MaxPrice)
		if bestBid >= bestAsk {
			bidPrice = bestBid - delta
			askPrice = bestAsk + delta
		} else {
			bidPrice = bestBid + delta
			askPrice = bestAsk - delta
		}
	}

	var q Quote
	if d := demandFor(ctx); d > 0 {
		q.BidQuantity = d
		q.BidPrice = clampPrice(bidPrice, ctx.MinPrice, ctx.MaxPrice)
	}
	if s := surplusFor(ctx); s > 0 {
		q.AskQuantity = s
		q.AskPrice = clampPrice(askPrice, ctx.MinPrice, ctx.MaxPrice)
	}
	return q
}

func eobDelta(ctx Context) float64 {
	if ctx.TotalRounds <= 0 {
		return 0
	}
	remaining := float64(ctx.TotalRounds-ctx.Round) / float64(ctx.TotalRounds)
	if remaining < 0 {
		remaining = 0
	}
	return remaining * (ctx.MaxPrice - ctx.MinPrice) / 100
}

// BestBid is the highest bid price, or def when there are no bids.
func BestBid(bids []model.Order, def float64) float64 {
	if len(bids) == 0 {
		return def
	}
	best := bids[0].Price
	for _, o := range bids[1:] {
		if o.Price > best {
			best = o.Price
		}
	}
	return best
}

// BestAsk is the lowest ask price, or def when there are no asks.
func BestAsk(asks []model.Order, def float64) float64 {
	if len(asks) == 0 {
		return def
	}
	best := asks[0].Price
	for _, o := range asks[1:] {
		if o.Price < best {
			best = o.Price
		}
	}
	return best
}
