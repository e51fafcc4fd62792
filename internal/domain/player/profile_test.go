package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func TestDefaultProfile_HouseOnlyBuffs(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)
	profile := player.DefaultProfile()

	buffs := profile.Buffs(player.Cheesesmithing, catalog)

	assert.Equal(t, 100.0, buffs.PlayerLevel)
	assert.InDelta(t, 0.06, buffs.Efficiency, 1e-12)
	assert.InDelta(t, 0.008, buffs.RareFind, 1e-12)
	assert.Empty(t, buffs.Teas)
}

func TestProfile_EnhancingHouseGrantsSpeedAndSuccess(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)
	profile := player.DefaultProfile()

	buffs := profile.Buffs(player.Enhancing, catalog)

	assert.InDelta(t, 0.04, buffs.Speed, 1e-12)
	assert.InDelta(t, 0.002, buffs.Success, 1e-12)
	assert.Equal(t, 0.0, buffs.Efficiency)
}

func TestProfile_TeasScaleWithDrinkConcentration(t *testing.T) {
	// Arrange
	catalog := helpers.NewTestCatalog(t)
	profile, err := player.NewProfile(map[player.ActionType]player.ActionConfig{
		player.Cheesesmithing: {
			PlayerLevel: 50,
			Teas:        []string{helpers.ArtisanTeaHrid, helpers.EfficiencyTeaHrid, helpers.CatalyticTeaHrid},
		},
	}, player.Equipment{}, 0.1)
	require.NoError(t, err)

	// Act
	buffs := profile.Buffs(player.Cheesesmithing, catalog)

	// Assert
	assert.InDelta(t, 0.11, buffs.Artisan, 1e-12)
	assert.InDelta(t, 0.11, buffs.Efficiency, 1e-12)
	// artisan tea lowers the effective level by its flat boost, unscaled
	assert.Equal(t, 45.0, buffs.PlayerLevel)
	// catalytic tea is not usable while cheesesmithing
	assert.Equal(t, []string{helpers.ArtisanTeaHrid, helpers.EfficiencyTeaHrid}, buffs.Teas)
	assert.InDelta(t, 13.2, buffs.TeasPerHour(), 1e-12)
}

func TestProfile_SkillingBonusAppliesEverywhere(t *testing.T) {
	catalog := helpers.NewTestCatalog(t)
	profile, err := player.NewProfile(nil, player.Equipment{EssenceFind: 0.2}, 0)
	require.NoError(t, err)

	for _, action := range player.AllActionTypes {
		assert.InDelta(t, 0.2, profile.Buffs(action, catalog).EssenceFind, 1e-12, string(action))
	}
}

func TestNewProfile_Validation(t *testing.T) {
	_, err := player.NewProfile(nil, player.Equipment{}, -0.1)
	assert.ErrorIs(t, err, player.ErrInvalidDrinkConcentration)

	_, err = player.NewProfile(map[player.ActionType]player.ActionConfig{
		player.Alchemy: {PlayerLevel: -1},
	}, player.Equipment{}, 0)
	assert.ErrorIs(t, err, player.ErrInvalidLevel)
}

func TestBuffs_AlchemySuccessRatio(t *testing.T) {
	buffs := player.Buffs{PlayerLevel: 40}

	assert.Equal(t, 0.0, buffs.AlchemySuccessRatio(40))
	assert.InDelta(t, -0.9*0.2, buffs.AlchemySuccessRatio(50), 1e-12)
}

func TestBuffs_EnhanceSuccessRatio(t *testing.T) {
	buffs := player.Buffs{PlayerLevel: 100, Success: 0.05}

	assert.InDelta(t, 90*0.0005+0.05, buffs.EnhanceSuccessRatio(10), 1e-12)

	low := player.Buffs{PlayerLevel: 50}
	assert.InDelta(t, -0.5*(1-50.0/100.0), low.EnhanceSuccessRatio(100), 1e-12)
}

func TestParseActionType(t *testing.T) {
	action, err := player.ParseActionType("alchemy")
	require.NoError(t, err)
	assert.Equal(t, player.Alchemy, action)

	_, err = player.ParseActionType("fishing")
	assert.ErrorIs(t, err, player.ErrUnknownActionType)
}
