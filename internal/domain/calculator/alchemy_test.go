package calculator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func mustNew(t *testing.T, env calculator.Env, cfg calculator.Config) calculator.Calculator {
	t.Helper()
	c, err := calculator.New(env, cfg)
	require.NoError(t, err)
	return c
}

func TestCoinify_EndToEnd(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, nil)

	// Act
	c := mustNew(t, env, calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid})

	// Assert
	require.True(t, c.Available())
	assert.InDelta(t, 0.7, c.SuccessRate(), 1e-12)

	ingredients := c.PricedIngredients()
	require.Len(t, ingredients, 1)
	assert.Equal(t, helpers.HolyCheeseHrid, ingredients[0].Hrid)
	assert.Equal(t, 1.0, ingredients[0].Count)
	assert.Equal(t, 2000.0, ingredients[0].Price)

	products := c.PricedProducts()
	require.NotEmpty(t, products)
	assert.Equal(t, gamedata.CoinHrid, products[0].Hrid)
	assert.Equal(t, 1.0, products[0].Count)
	assert.Equal(t, 5000.0, products[0].Price)
}

func TestDecompose_CatalystAndTeaRaiseSuccess(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, helpers.ProfileWithTeas(player.Alchemy, helpers.CatalyticTeaHrid))
	cfg := calculator.Config{Kind: calculator.KindDecompose, Hrid: helpers.CheeseSwordHrid, CatalystRank: 2}

	// Act
	c := mustNew(t, env, cfg)

	// Assert
	require.True(t, c.Available())
	assert.InDelta(t, 0.78, c.SuccessRate(), 1e-9)

	ingredients := c.Ingredients()
	require.Len(t, ingredients, 4)
	assert.Equal(t, gamedata.PrimeCatalystHrid, ingredients[2].Hrid)
	assert.InDelta(t, 0.78, ingredients[2].Count, 1e-9)
	assert.Equal(t, helpers.CatalyticTeaHrid, ingredients[3].Hrid)
}

func TestDecompose_SuccessIsClampedToOne(t *testing.T) {
	// Arrange
	cfg := player.DefaultActionConfig()
	cfg.Equipment.Success = 0.5
	profile := player.DefaultProfile().WithActionConfig(player.Alchemy, cfg)
	env := helpers.NewTestEnv(t, profile)

	// Act
	c := mustNew(t, env, calculator.Config{Kind: calculator.KindDecompose, Hrid: helpers.CheeseSwordHrid, CatalystRank: 2})

	// Assert
	assert.Equal(t, 1.0, c.SuccessRate())
}

func TestDecompose_EnhancedItemYieldsEssence(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	c := mustNew(t, env, calculator.Config{Kind: calculator.KindDecompose, Hrid: helpers.CheeseSwordHrid, EnhanceLevel: 3})

	ingredients := c.Ingredients()
	require.NotEmpty(t, ingredients)
	assert.Equal(t, 3, ingredients[0].Level)
	assert.Equal(t, 1500.0, ingredients[0].MarketPrice)
	assert.Equal(t, 55.0, ingredients[1].MarketPrice)

	products := c.Products()
	require.NotEmpty(t, products)
	assert.Equal(t, gamedata.EnhancingEssenceHrid, products[0].Hrid)
	assert.Equal(t, gamedata.DecomposeEnhancingEssence(mustItem(t, env, helpers.CheeseSwordHrid), 3), products[0].Count)
}

func TestTransmute_SelfDropIsCountered(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	c := mustNew(t, env, calculator.Config{Kind: calculator.KindTransmute, Hrid: helpers.BlueberryHrid})

	require.True(t, c.Available())
	assert.InDelta(t, 0.5, c.SuccessRate(), 1e-12)

	ingredients := c.Ingredients()
	require.GreaterOrEqual(t, len(ingredients), 2)
	assert.InDelta(t, 4.75, ingredients[0].Count, 1e-9)
	assert.InDelta(t, 0.25, ingredients[0].CounterCount, 1e-9)
	assert.Equal(t, gamedata.CoinHrid, ingredients[1].Hrid)
	assert.Equal(t, 50.0, ingredients[1].MarketPrice)
	assert.Equal(t, 5.0, ingredients[1].Count)

	products := c.Products()
	require.GreaterOrEqual(t, len(products), 2)
	assert.Equal(t, 0.0, products[0].Count)
	assert.Equal(t, 5.0, products[0].CounterCount)
	assert.Equal(t, helpers.BlackberryHrid, products[1].Hrid)
	assert.Equal(t, 5.0, products[1].Count)
	assert.Equal(t, 0.9, products[1].Rate)
}

func TestAlchemy_HighLevelItemIsPenalized(t *testing.T) {
	cfg := player.DefaultActionConfig()
	cfg.PlayerLevel = 25
	env := helpers.NewTestEnv(t, player.DefaultProfile().WithActionConfig(player.Alchemy, cfg))

	c := mustNew(t, env, calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid})

	// 0.7 * (1 - 0.9 * (1 - 25/50))
	assert.InDelta(t, 0.385, c.SuccessRate(), 1e-9)
}

func TestCalculator_UnknownItemIsUnavailable(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	c := mustNew(t, env, calculator.Config{Kind: calculator.KindCoinify, Hrid: "/items/does_not_exist"})

	assert.False(t, c.Available())
	assert.Nil(t, c.Ingredients())
	assert.Nil(t, c.Products())
	assert.Equal(t, 0.0, c.SuccessRate())

	result := c.Run()
	assert.False(t, result.Available)
	assert.Equal(t, calculator.Hourly{}, result.Hourly)
}

func TestCalculator_MissingEnvironmentIsUnavailable(t *testing.T) {
	c := mustNew(t, calculator.Env{}, calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid})

	assert.False(t, c.Available())
	assert.Equal(t, calculator.Hourly{}, c.Hourly())
}

func TestCalculator_SuccessRateStaysInUnitInterval(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	catalog := helpers.NewTestCatalog(t)

	for _, item := range catalog.Items() {
		for _, kind := range []calculator.Kind{calculator.KindTransmute, calculator.KindDecompose, calculator.KindCoinify} {
			for rank := 0; rank <= 2; rank++ {
				c := mustNew(t, env, calculator.Config{Kind: kind, Hrid: item.Hrid, CatalystRank: rank})
				rate := c.SuccessRate()
				assert.GreaterOrEqual(t, rate, 0.0, c.ID())
				assert.LessOrEqual(t, rate, 1.0, c.ID())
			}
		}
	}
}

func TestCalculator_ProfitRateIdentity(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	c := mustNew(t, env, calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid})
	h := c.Hourly()

	require.NotZero(t, h.CostPH)
	assert.InDelta(t, h.ProfitPH/h.CostPH, h.ProfitRate, 1e-12)
	assert.InDelta(t, h.IncomePH-h.CostPH, h.ProfitPH, 1e-9)
}

func TestCalculator_ImmutableNegativePriceMakesUnavailable(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	cfg := calculator.Config{
		Kind:             calculator.KindCoinify,
		Hrid:             helpers.HolyCheeseHrid,
		IngredientPrices: []*calculator.PriceConfig{{Hrid: helpers.HolyCheeseHrid, Immutable: true, Price: -1}},
	}

	c := mustNew(t, env, cfg)

	assert.False(t, c.Available())
	assert.Equal(t, calculator.Hourly{}, c.Hourly())
}

func TestCalculator_ImmutablePriceWins(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	cfg := calculator.Config{
		Kind:             calculator.KindCoinify,
		Hrid:             helpers.HolyCheeseHrid,
		IngredientPrices: []*calculator.PriceConfig{calculator.ZeroPrice(helpers.HolyCheeseHrid)},
	}

	c := mustNew(t, env, cfg)

	ingredients := c.PricedIngredients()
	require.Len(t, ingredients, 1)
	assert.Equal(t, 0.0, ingredients[0].Price)
	assert.True(t, ingredients[0].Pinned)
	assert.Equal(t, 0.0, c.Hourly().CostPH)
	assert.Equal(t, 0.0, c.Hourly().ProfitRate)
}

func TestCalculator_RunIsMemoized(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	c := mustNew(t, env, calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid})

	first := c.Run()
	second := c.Run()

	assert.Equal(t, first, second)
	assert.Equal(t, helpers.HolyCheeseHrid+"-Coinify-alchemy", first.ID)
	assert.Equal(t, "Holy Cheese", first.Name)
}

func TestNew_RejectsInvalidConfigs(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	_, err := calculator.New(env, calculator.Config{Kind: calculator.KindWorkflow, Hrid: helpers.MilkHrid})
	assert.ErrorIs(t, err, calculator.ErrUnsupportedKind)

	_, err = calculator.New(env, calculator.Config{Kind: calculator.KindManufacture, Hrid: helpers.CheeseHrid})
	assert.Error(t, err)

	_, err = calculator.New(env, calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid, CatalystRank: 3})
	assert.Error(t, err)
}

func mustItem(t *testing.T, env calculator.Env, hrid string) *gamedata.Item {
	t.Helper()
	item, ok := env.Catalog.Item(hrid)
	require.True(t, ok)
	return item
}
