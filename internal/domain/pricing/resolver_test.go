package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func newResolver(t *testing.T, overrides pricing.OverrideSource) *pricing.Resolver {
	t.Helper()
	return pricing.NewResolver(helpers.NewTestCatalog(t), helpers.NewTestMarket(t), overrides)
}

func TestResolver_CoinIsAlwaysOne(t *testing.T) {
	resolver := newResolver(t, nil)

	assert.Equal(t, market.Quote{Ask: 1, Bid: 1}, resolver.PriceOf(gamedata.CoinHrid, 0))
}

func TestResolver_MarketQuoteByLevel(t *testing.T) {
	resolver := newResolver(t, nil)

	assert.Equal(t, market.Quote{Ask: 400, Bid: 350}, resolver.PriceOf(helpers.CheeseSwordHrid, 0))
	assert.Equal(t, market.Quote{Ask: 1500, Bid: 1300}, resolver.PriceOf(helpers.CheeseSwordHrid, 3))
	assert.Equal(t, market.UnavailableQuote(), resolver.PriceOf(helpers.CheeseSwordHrid, 12))
}

func TestResolver_UnknownAndUnpricedItemsAreUnavailable(t *testing.T) {
	resolver := newResolver(t, nil)

	assert.Equal(t, market.UnavailableQuote(), resolver.PriceOf("/items/does_not_exist", 0))
	assert.Equal(t, market.UnavailableQuote(), resolver.PriceOf(helpers.UnpricedHrid, 0))
}

func TestResolver_ShopCoinCostOverridesAsk(t *testing.T) {
	resolver := newResolver(t, nil)

	quote := resolver.PriceOf(helpers.BrushHrid, 0)

	assert.Equal(t, 500.0, quote.Ask)
	assert.Equal(t, 600.0, quote.Bid)
}

func TestResolver_CowbellDerivedFromBag(t *testing.T) {
	resolver := newResolver(t, nil)

	quote := resolver.PriceOf(gamedata.CowbellHrid, 0)

	assert.Equal(t, 30000.0, quote.Ask)
	assert.Equal(t, 29000.0, quote.Bid)
}

func TestResolver_CowbellFallsBackWhenBagUnpriced(t *testing.T) {
	// Arrange
	quotes := helpers.TestQuotes()
	delete(quotes, "Bag Of 10 Cowbells")
	snapshot, err := market.NewSnapshot(quotes, helpers.FixtureTime)
	require.NoError(t, err)
	resolver := pricing.NewResolver(helpers.NewTestCatalog(t), snapshot, nil)

	// Act
	quote := resolver.PriceOf(gamedata.CowbellHrid, 0)

	// Assert
	assert.Equal(t, 40000.0, quote.Ask)
	assert.Equal(t, 40000.0, quote.Bid)
}

func TestResolver_LootBoxExpectation(t *testing.T) {
	resolver := newResolver(t, nil)

	// 3 cheese on average at 30/25
	small := resolver.PriceOf(gamedata.SmallArtisansCrateHrid, 0)
	assert.InDelta(t, 90, small.Ask, 1e-9)
	assert.InDelta(t, 75, small.Bid, 1e-9)

	// one unpriced drop poisons both sides
	large := resolver.PriceOf(gamedata.LargeArtisansCrateHrid, 0)
	assert.Equal(t, market.UnavailableQuote(), large)
}

func TestResolver_SelfReferentialLootIsUnavailable(t *testing.T) {
	// Arrange
	doc := helpers.TestGameDocument()
	doc.OpenableLootDropMap[gamedata.SmallArtisansCrateHrid] = []gamedata.DropTableItem{
		{ItemHrid: gamedata.SmallArtisansCrateHrid, DropRate: 1, MinCount: 1, MaxCount: 1},
	}
	catalog, err := gamedata.NewSnapshot(doc)
	require.NoError(t, err)
	resolver := pricing.NewResolver(catalog, helpers.NewTestMarket(t), nil)

	// Act
	quote := resolver.PriceOf(gamedata.SmallArtisansCrateHrid, 0)

	// Assert
	assert.Equal(t, market.UnavailableQuote(), quote)
}

func TestResolver_ManualOverrideTakesPrecedence(t *testing.T) {
	// Arrange
	overrides := pricing.NewOverrideSet([]pricing.Override{
		{Hrid: helpers.CheeseHrid, Ask: pricing.ManualPrice{Manual: true, Price: 18}},
		{Hrid: helpers.MilkHrid, Bid: pricing.ManualPrice{Manual: false, Price: 99}},
	})
	resolver := newResolver(t, overrides)

	// Act
	cheese := resolver.Resolve(helpers.CheeseHrid, 0)
	milk := resolver.Resolve(helpers.MilkHrid, 0)

	// Assert
	assert.Equal(t, 18.0, cheese.Ask)
	assert.True(t, cheese.ManualAsk)
	assert.Equal(t, 25.0, cheese.Bid)
	assert.False(t, cheese.ManualBid)
	assert.Equal(t, 10.0, milk.Bid)
	assert.False(t, milk.ManualBid)
}

func TestResolver_InactiveOverridesAreIgnored(t *testing.T) {
	overrides := pricing.NewOverrideSet([]pricing.Override{
		{Hrid: helpers.CheeseHrid, Ask: pricing.ManualPrice{Manual: true, Price: 18}},
	})
	overrides.SetActive(false)
	resolver := newResolver(t, overrides)

	res := resolver.Resolve(helpers.CheeseHrid, 0)

	assert.Equal(t, 30.0, res.Ask)
	assert.False(t, res.ManualAsk)
}

func TestResolver_ResetDropsMemo(t *testing.T) {
	resolver := newResolver(t, nil)
	first := resolver.PriceOf(gamedata.SmallArtisansCrateHrid, 0)

	resolver.Reset()

	assert.Equal(t, first, resolver.PriceOf(gamedata.SmallArtisansCrateHrid, 0))
}

func TestOverrideSet_PutDeleteList(t *testing.T) {
	set := pricing.NewOverrideSet(nil)

	set.Put(pricing.Override{Hrid: "/items/b", Level: 0})
	set.Put(pricing.Override{Hrid: "/items/a", Level: 2})
	set.Put(pricing.Override{Hrid: "/items/a", Level: 1})

	list := set.List()
	require.Len(t, list, 3)
	assert.Equal(t, "/items/a", list[0].Hrid)
	assert.Equal(t, 1, list[0].Level)
	assert.True(t, set.Delete("/items/b", 0))
	assert.False(t, set.Delete("/items/b", 0))
}
