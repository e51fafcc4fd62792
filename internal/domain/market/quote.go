package market

// Unavailable marks a side of a quote with no liquid market
const Unavailable = -1.0

// Quote is the ask (cost to buy) and bid (revenue to sell) of one item at one enhancement level
type Quote struct {
	Ask float64 `json:"ask"`
	Bid float64 `json:"bid"`
}

// UnavailableQuote returns a quote with both sides unavailable
func UnavailableQuote() Quote {
	return Quote{Ask: Unavailable, Bid: Unavailable}
}

// HasAsk reports whether the item can be bought
func (q Quote) HasAsk() bool {
	return q.Ask >= 0
}

// HasBid reports whether the item can be sold
func (q Quote) HasBid() bool {
	return q.Bid >= 0
}

// Side returns the ask or bid price
func (q Quote) Side(side Side) float64 {
	if side == Bid {
		return q.Bid
	}
	return q.Ask
}

// Side selects which price of a quote applies
type Side string

const (
	Ask Side = "ask"
	Bid Side = "bid"
)
