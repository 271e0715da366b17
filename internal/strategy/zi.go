package strategy

// ZeroIntelligence quotes uniformly random prices inside the tariff band and
// ignores every price signal. The bid price is drawn before the ask price, and
// only for sides with a non-zero quantity.
type ZeroIntelligence struct{}

func (ZeroIntelligence) Name() string { return "zi" }

func (ZeroIntelligence) Quote(ctx Context) Quote {
	var q Quote
	if d := demandFor(ctx); d > 0 {
		q.BidQuantity = d
		q.BidPrice = uniform(ctx.Rand, ctx.MinPrice, ctx.MaxPrice)
	}
	if s := surplusFor(ctx); s > 0 {
		q.AskQuantity = s
		q.AskPrice = uniform(ctx.Rand, ctx.MinPrice, ctx.MaxPrice)
	}
	return q
}
