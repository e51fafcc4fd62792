package calculator

import "strconv"

// Entry is one ingredient or product of a single action.
// A zero Rate means the entry is guaranteed.
type Entry struct {
	Hrid         string  `json:"hrid"`
	Level        int     `json:"level"`
	Count        float64 `json:"count"`
	CounterCount float64 `json:"counterCount,omitempty"`
	Rate         float64 `json:"rate,omitempty"`
	MarketPrice  float64 `json:"marketPrice"`
	Manual       bool    `json:"manual,omitempty"`
}

// EffectiveRate returns the drop rate with the guaranteed default applied
func (e Entry) EffectiveRate() float64 {
	if e.Rate == 0 {
		return 1
	}
	return e.Rate
}

// PricedEntry is an entry with its final price and hourly quantities
type PricedEntry struct {
	Entry
	Price          float64 `json:"price"`
	Pinned         bool    `json:"pinned,omitempty"`
	CountPH        float64 `json:"countPH"`
	CounterCountPH float64 `json:"counterCountPH,omitempty"`
}

// Key merges entries of the same item at the same level
func (p PricedEntry) Key() string {
	return mergeKey(p.Hrid, p.Level)
}

func mergeKey(hrid string, level int) string {
	return hrid + "-" + strconv.Itoa(level)
}

// applyPrices resolves the final price of each entry: an immutable price config at the
// same position wins, otherwise the market or manual price carried by the entry.
func applyPrices(entries []Entry, configs []*PriceConfig) []PricedEntry {
	out := make([]PricedEntry, len(entries))
	for i, e := range entries {
		priced := PricedEntry{Entry: e, Price: e.MarketPrice}
		if i < len(configs) && configs[i] != nil && configs[i].Immutable {
			priced.Price = configs[i].Price
			priced.Pinned = true
		}
		out[i] = priced
	}
	return out
}

// hasSentinel reports whether any consumed or produced entry lacks a usable price
func hasSentinel(entries []PricedEntry) bool {
	for _, e := range entries {
		if e.Count > 0 && e.Price < 0 {
			return true
		}
	}
	return false
}

func totalCost(entries []PricedEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Count * e.Price
	}
	return sum
}

func totalIncome(entries []PricedEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Count * e.EffectiveRate() * e.Price
	}
	return sum * (1 - MarketTax)
}
