package gamedata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func TestNewSnapshot_RejectsEmptyDocument(t *testing.T) {
	_, err := gamedata.NewSnapshot(gamedata.Document{})

	assert.ErrorIs(t, err, gamedata.ErrEmptySnapshot)
}

func TestNewSnapshot_FillsHridFromKey(t *testing.T) {
	// Arrange
	doc := gamedata.Document{
		ItemDetailMap: map[string]gamedata.Item{"/items/milk": {Name: "Milk"}},
	}

	// Act
	snapshot, err := gamedata.NewSnapshot(doc)

	// Assert
	require.NoError(t, err)
	milk, ok := snapshot.Item("/items/milk")
	require.True(t, ok)
	assert.Equal(t, "/items/milk", milk.Hrid)
	assert.Equal(t, "milk", milk.Key())
}

func TestSnapshot_ItemsAreOrderedBySortIndex(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	items := catalog.Items()

	require.NotEmpty(t, items)
	assert.Equal(t, gamedata.CoinHrid, items[0].Hrid)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].SortIndex, items[i].SortIndex)
	}
}

func TestSnapshot_ProcessingProduct(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	cheese, ok := catalog.ProcessingProduct(helpers.MilkHrid)
	assert.True(t, ok)
	assert.Equal(t, helpers.CheeseHrid, cheese)

	lumber, ok := catalog.ProcessingProduct(helpers.LogHrid)
	assert.True(t, ok)
	assert.Equal(t, helpers.LumberHrid, lumber)

	// Cheese only feeds equipment recipes
	_, ok = catalog.ProcessingProduct(helpers.CheeseHrid)
	assert.False(t, ok)
}

func TestSnapshot_EnhanceSuccessRateBounds(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	rate, ok := catalog.EnhanceSuccessRate(0)
	assert.True(t, ok)
	assert.Equal(t, 0.5, rate)

	_, ok = catalog.EnhanceSuccessRate(-1)
	assert.False(t, ok)
	_, ok = catalog.EnhanceSuccessRate(gamedata.MaxEnhanceLevel)
	assert.False(t, ok)
}

func TestSnapshot_ShopItemCoinCost(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	shop, ok := catalog.ShopItemFor(helpers.BrushHrid)
	require.True(t, ok)

	cost, ok := shop.CoinCost()
	assert.True(t, ok)
	assert.Equal(t, 500.0, cost)
}

func TestItem_Classification(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)

	ring, _ := catalog.Item(helpers.CheeseRingHrid)
	charm, _ := catalog.Item(helpers.LuckyCharmHrid)
	sword, _ := catalog.Item(helpers.CheeseSwordHrid)
	tea, _ := catalog.Item(helpers.CatalyticTeaHrid)

	assert.True(t, ring.IsJewelry())
	assert.False(t, ring.IsCharm())
	assert.True(t, charm.IsCharm())
	assert.True(t, sword.IsEquipment())
	assert.True(t, sword.IsEnhanceable())
	assert.False(t, sword.IsJewelry())
	assert.True(t, tea.UsableIn("alchemy"))
	assert.False(t, tea.UsableIn("milking"))
}

func TestDropBands(t *testing.T) {
	low := &gamedata.Item{ItemLevel: 10}
	mid := &gamedata.Item{ItemLevel: 50}
	high := &gamedata.Item{ItemLevel: 80}
	baseTime := 8 * gamedata.Hour

	small := gamedata.AlchemyRareDropTable(low, baseTime)[0]
	medium := gamedata.AlchemyRareDropTable(mid, baseTime)[0]
	large := gamedata.AlchemyRareDropTable(high, baseTime)[0]

	assert.Equal(t, gamedata.SmallArtisansCrateHrid, small.ItemHrid)
	assert.InDelta(t, 1.1, small.DropRate, 1e-12)
	assert.Equal(t, gamedata.MediumArtisansCrate, medium.ItemHrid)
	assert.InDelta(t, 115.0/150.0, medium.DropRate, 1e-12)
	assert.Equal(t, gamedata.LargeArtisansCrateHrid, large.ItemHrid)
	assert.InDelta(t, 110.0/200.0, large.DropRate, 1e-12)

	essence := gamedata.AlchemyEssenceDropTable(low, 6*gamedata.Minute)[0]
	assert.Equal(t, gamedata.AlchemyEssenceHrid, essence.ItemHrid)
	assert.InDelta(t, 1.1, essence.DropRate, 1e-12)
}

func TestDecomposeEnhancingEssence(t *testing.T) {
	item := &gamedata.Item{ItemLevel: 0}

	assert.Equal(t, 0.0, gamedata.DecomposeEnhancingEssence(item, 0))
	// 2 * (0.5 + 0.1) * 2^3 = 9.6
	assert.Equal(t, 10.0, gamedata.DecomposeEnhancingEssence(item, 3))
}
