package calculator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func mustEnhance(t *testing.T, env calculator.Env, cfg calculator.Config) *calculator.Enhance {
	t.Helper()
	c := mustNew(t, env, cfg)
	enh, ok := c.(*calculator.Enhance)
	require.True(t, ok)
	return enh
}

func TestEnhance_AmortizesOverExpectedAttempts(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, nil)
	cfg := calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 3, 2, 0)

	// Act
	enh := mustEnhance(t, env, cfg)

	// Assert
	require.True(t, enh.Available())
	result, err := enh.Enhancelate()
	require.NoError(t, err)
	assert.Greater(t, result.Actions, 3.0)
	assert.Greater(t, result.Protects, 0.0)

	ingredients := enh.Ingredients()
	require.GreaterOrEqual(t, len(ingredients), 4)
	assert.Equal(t, helpers.CheeseSwordHrid, ingredients[0].Hrid)
	assert.InDelta(t, 1/result.Actions, ingredients[0].Count, 1e-12)
	assert.Equal(t, helpers.CheeseSwordHrid, ingredients[1].Hrid, "the plain item is the cheapest protection")
	assert.Equal(t, 400.0, ingredients[1].MarketPrice)
	assert.InDelta(t, result.Protects/result.Actions, ingredients[1].Count, 1e-12)
	assert.Equal(t, helpers.CheeseHrid, ingredients[2].Hrid)
	assert.Equal(t, 3.0, ingredients[2].Count)
	assert.Equal(t, gamedata.CoinHrid, ingredients[3].Hrid)

	products := enh.Products()
	require.NotEmpty(t, products)
	assert.Equal(t, 3, products[0].Level)
	assert.Equal(t, 1300.0, products[0].MarketPrice)
	assert.InDelta(t, 1/result.Actions, products[0].Count, 1e-12)
}

func TestEnhance_SpeedAndEfficiency(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	enh := mustEnhance(t, env, calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 3, 2, 0))

	// house level 4 adds 4% speed, 99 levels above the item add 99%
	assert.InDelta(t, 12*gamedata.Second/2.03, enh.TimeCost(), 1e-3)
	assert.Equal(t, 1.0, enh.Efficiency())
	assert.Equal(t, 1.0, enh.SuccessRate())
}

func TestEnhance_PrunedConfigSkipsTheMarkovSolve(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, nil)
	enh := mustEnhance(t, env, calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 1, 1, 0))

	// Act
	available := enh.Available()
	result := enh.Run()

	// Assert
	assert.False(t, available)
	assert.False(t, result.Available)
	assert.Equal(t, 0, env.Markov.Solves())
	assert.Equal(t, 0, env.Markov.Len())
}

func TestEnhance_PrunedByMaxProfitApproximate(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	enh := mustEnhance(t, env, calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 1, 1, 0))

	// max(450, salvage) - 400 - (3*30 + 50)
	assert.InDelta(t, -90, enh.MaxProfitApproximate(), 1e-9)
	assert.False(t, enh.Available())

	result, err := enh.Enhancelate()
	require.NoError(t, err)
	assert.InDelta(t, 1/(0.5*(1+99*0.0005+4*0.0005)), result.Actions, 1e-9)
}

func TestEnhance_UnprofitableChainHasInfiniteRisk(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	enh := mustEnhance(t, env, calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 3, 2, 0))

	require.True(t, enh.Available())
	require.Less(t, enh.Hourly().ProfitPH, 0.0)
	assert.True(t, math.IsInf(enh.Risk(), 1))
	assert.Greater(t, enh.ProtectionCostPerHour(), 0.0)
}

func TestEnhance_EscapedItemsAreSold(t *testing.T) {
	// Arrange
	env := helpers.NewTestEnv(t, nil)
	cfg := calculator.NewEnhanceConfig(helpers.VerdantCheeseSwordHrid, 5, 2, 3)
	cfg.EscapeLevel = 2

	// Act
	enh := mustEnhance(t, env, cfg)

	// Assert
	require.True(t, enh.Available())
	result, err := enh.Enhancelate()
	require.NoError(t, err)
	assert.Greater(t, result.EscapesAtLevel, 0.0)
	assert.Equal(t, 0.0, result.EscapesAtFloor)

	ingredients := enh.Ingredients()
	assert.InDelta(t, (1+result.Escapes())/result.Actions, ingredients[0].Count, 1e-12)
	assert.Equal(t, helpers.CheeseSwordHrid, ingredients[1].Hrid, "declared protection is cheaper than the item")

	products := enh.Products()
	require.GreaterOrEqual(t, len(products), 2)
	assert.Equal(t, helpers.VerdantCheeseSwordHrid, products[1].Hrid)
	assert.Equal(t, 2, products[1].Level)
	assert.InDelta(t, result.EscapesAtLevel/result.Actions, products[1].Count, 1e-12)

	assert.Greater(t, enh.EscapeIncomePerHour(), 0.0)
	require.Greater(t, enh.Hourly().ProfitPH, 0.0)
	risk := enh.Risk()
	assert.False(t, math.IsInf(risk, 0))
	assert.InDelta(t, (enh.Hourly().CostPH-enh.EscapeIncomePerHour())/enh.Hourly().ProfitPH, risk, 1e-9)
}

func TestEnhance_InvalidShapesAreUnavailable(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)

	tests := []struct {
		name string
		cfg  calculator.Config
	}{
		{name: "target not above origin", cfg: calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 2, 2, 2)},
		{name: "not enhanceable", cfg: calculator.NewEnhanceConfig(helpers.CheeseHrid, 3, 2, 0)},
		{name: "unknown item", cfg: calculator.NewEnhanceConfig("/items/nope", 3, 2, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enh := mustEnhance(t, env, tt.cfg)

			assert.False(t, enh.Available())
			_, err := enh.Enhancelate()
			assert.ErrorIs(t, err, calculator.ErrInvalidEnhancement)
		})
	}
}

func TestEnhance_SharedCacheAvoidsResolving(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	cfg := calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 3, 2, 0)

	first := mustEnhance(t, env, cfg)
	second := mustEnhance(t, env, cfg)
	first.Run()
	second.Run()

	assert.Equal(t, 1, env.Markov.Solves())
}

func TestEnhance_RunReportsProfitPerFinishedItem(t *testing.T) {
	env := helpers.NewTestEnv(t, nil)
	enh := mustEnhance(t, env, calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 3, 2, 0))

	result := enh.Run()

	expected, err := enh.Enhancelate()
	require.NoError(t, err)
	assert.InDelta(t, result.ProfitPH/result.ActionsPH*expected.Actions, result.ProfitPerAction, 1e-9)
	assert.Equal(t, calculator.KindEnhance, result.Kind)
}
