package model

// Side is the direction of an order.
// Keep these values stable; they are intended for CSV and JSON output.
type Side string

const (
	SideBid Side = "BID"
	SideAsk Side = "ASK"
)

// Order is a quote admitted to the book for one round.
type Order struct {
	ParticipantID string
	Side          Side
	Price         float64
	Quantity      float64
	Slot          int
}

// Valid reports whether the order may enter the book.
func (o Order) Valid() bool {
	if o.Side != SideBid && o.Side != SideAsk {
		return false
	}
	return o.Price > 0 && o.Quantity > 0
}

// Trade is one executed match. Price is the mean of the bid and ask prices.
type Trade struct {
	SellerID string
	BuyerID  string
	Quantity float64
	Price    float64
	Slot     int
	Round    int
}

func (t Trade) Value() float64 { return t.Quantity * t.Price }
