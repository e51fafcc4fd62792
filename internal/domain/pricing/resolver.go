package pricing

import (
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
)

const (
	// cowbellFallback prices a cowbell when the bag of 10 has no market
	cowbellFallback = 40000.0
	cowbellsPerBag  = 10.0
)

// Resolution is a resolved quote plus which sides came from a manual override
type Resolution struct {
	market.Quote
	ManualAsk bool
	ManualBid bool
}

// Price returns one side of the resolution and whether it was manual
func (r Resolution) Price(side market.Side) (float64, bool) {
	if side == market.Bid {
		return r.Bid, r.ManualBid
	}
	return r.Ask, r.ManualAsk
}

type priceKey struct {
	hrid  string
	level int
}

// Resolver prices items from the market snapshot with derived prices for coins,
// cowbells, loot boxes and shop items, and layers manual overrides on top.
// Market-derived prices are memoized until Reset.
type Resolver struct {
	catalog   gamedata.Catalog
	quotes    *market.Snapshot
	overrides OverrideSource

	mu        sync.Mutex
	memo      map[priceKey]market.Quote
	resolving map[priceKey]bool
}

// NewResolver creates a resolver; a nil override source disables overrides
func NewResolver(catalog gamedata.Catalog, quotes *market.Snapshot, overrides OverrideSource) *Resolver {
	if overrides == nil {
		overrides = NoOverrides{}
	}
	return &Resolver{
		catalog:   catalog,
		quotes:    quotes,
		overrides: overrides,
		memo:      make(map[priceKey]market.Quote),
		resolving: make(map[priceKey]bool),
	}
}

// Resolve returns the price of an item at a level with manual overrides applied
func (r *Resolver) Resolve(hrid string, level int) Resolution {
	res := Resolution{Quote: r.PriceOf(hrid, level)}
	if !r.overrides.Active() {
		return res
	}
	override, ok := r.overrides.Override(hrid, level)
	if !ok {
		return res
	}
	if override.Ask.Manual {
		res.Ask = override.Ask.Price
		res.ManualAsk = true
	}
	if override.Bid.Manual {
		res.Bid = override.Bid.Price
		res.ManualBid = true
	}
	return res
}

// PriceOf returns the market-derived price of an item at a level, ignoring overrides
func (r *Resolver) PriceOf(hrid string, level int) market.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.priceOf(hrid, level)
}

// Reset drops every memoized price
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memo = make(map[priceKey]market.Quote)
	r.resolving = make(map[priceKey]bool)
}

// Overrides returns the override source layered by Resolve
func (r *Resolver) Overrides() OverrideSource {
	return r.overrides
}

func (r *Resolver) priceOf(hrid string, level int) market.Quote {
	key := priceKey{hrid, level}
	if quote, ok := r.memo[key]; ok {
		return quote
	}
	// A loot box that contains itself cannot be priced
	if r.resolving[key] {
		return market.UnavailableQuote()
	}
	r.resolving[key] = true
	quote := r.derive(hrid, level)
	delete(r.resolving, key)
	r.memo[key] = quote
	return quote
}

func (r *Resolver) derive(hrid string, level int) market.Quote {
	switch hrid {
	case gamedata.CoinHrid:
		return market.Quote{Ask: 1, Bid: 1}
	case gamedata.CowbellHrid:
		bag := r.priceOf(gamedata.BagOf10CowbellsHrid, 0)
		return market.Quote{Ask: perCowbell(bag.Ask), Bid: perCowbell(bag.Bid)}
	}

	item, ok := r.catalog.Item(hrid)
	if !ok {
		return market.UnavailableQuote()
	}

	if item.CategoryHrid == gamedata.CategoryLoot && hrid != gamedata.BagOf10CowbellsHrid {
		return r.lootPrice(hrid)
	}

	quote, _ := r.quotes.Quote(item.Name, level)
	if level == 0 {
		if shop, ok := r.catalog.ShopItemFor(hrid); ok {
			if cost, ok := shop.CoinCost(); ok {
				quote.Ask = cost
			}
		}
	}
	return quote
}

// lootPrice is the drop-weighted expectation of an openable item's contents
func (r *Resolver) lootPrice(hrid string) market.Quote {
	drops, ok := r.catalog.LootDrops(hrid)
	if !ok || len(drops) == 0 {
		return market.UnavailableQuote()
	}
	var quote market.Quote
	for _, drop := range drops {
		price := r.priceOf(drop.ItemHrid, 0)
		weight := drop.AverageCount() * drop.DropRate
		if quote.Ask != market.Unavailable {
			if price.HasAsk() {
				quote.Ask += price.Ask * weight
			} else {
				quote.Ask = market.Unavailable
			}
		}
		if quote.Bid != market.Unavailable {
			if price.HasBid() {
				quote.Bid += price.Bid * weight
			} else {
				quote.Bid = market.Unavailable
			}
		}
	}
	return quote
}

func perCowbell(bag float64) float64 {
	if bag <= 0 {
		return cowbellFallback
	}
	return bag / cowbellsPerBag
}
