package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/application/pricing/commands"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
	domainPricing "github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func cheeseAsk(price float64) domainPricing.Override {
	return domainPricing.Override{Hrid: helpers.CheeseHrid, Ask: domainPricing.ManualPrice{Manual: true, Price: price}}
}

func TestSetPriceOverride_PersistsAndApplies(t *testing.T) {
	// Arrange
	repo := helpers.NewMockPriceOverrideRepository()
	ws := helpers.NewTestWorkspace(t, nil)
	before := ws.Generation()
	handler := commands.NewSetPriceOverrideHandler(repo, ws)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.SetPriceOverrideCommand{Override: cheeseAsk(77)})

	// Assert
	require.NoError(t, err)
	out := resp.(*commands.SetPriceOverrideResponse)
	assert.Greater(t, out.Generation, before)

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domainPricing.Override{cheeseAsk(77)}, stored)

	env, err := ws.Env()
	require.NoError(t, err)
	ask, manual := env.Prices.Resolve(helpers.CheeseHrid, 0).Price(market.Ask)
	assert.Equal(t, 77.0, ask)
	assert.True(t, manual)
}

func TestSetPriceOverride_Rejects(t *testing.T) {
	repo := helpers.NewMockPriceOverrideRepository()
	handler := commands.NewSetPriceOverrideHandler(repo, helpers.NewTestWorkspace(t, nil))

	tests := []struct {
		name     string
		override domainPricing.Override
	}{
		{"no manual side", domainPricing.Override{Hrid: helpers.CheeseHrid}},
		{"no item", domainPricing.Override{Ask: domainPricing.ManualPrice{Manual: true, Price: 1}}},
		{"unknown item", domainPricing.Override{Hrid: "/items/nope", Ask: domainPricing.ManualPrice{Manual: true, Price: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), &commands.SetPriceOverrideCommand{Override: tt.override})
			assert.ErrorIs(t, err, domainPricing.ErrInvalidOverride)
		})
	}

	stored, _ := repo.List(context.Background())
	assert.Empty(t, stored)
}

func TestSetPriceOverride_StorageFailureLeavesWorkspaceUntouched(t *testing.T) {
	repo := helpers.NewMockPriceOverrideRepository()
	repo.SaveErr = errors.New("disk full")
	ws := helpers.NewTestWorkspace(t, nil)
	before := ws.Generation()

	_, err := commands.NewSetPriceOverrideHandler(repo, ws).Handle(context.Background(), &commands.SetPriceOverrideCommand{Override: cheeseAsk(1)})

	assert.Error(t, err)
	assert.Equal(t, before, ws.Generation())
	assert.Empty(t, ws.Overrides())
}

func TestDeletePriceOverride(t *testing.T) {
	// Arrange
	repo := helpers.NewMockPriceOverrideRepository()
	ws := helpers.NewTestWorkspace(t, nil)
	ctx := context.Background()
	_, err := commands.NewSetPriceOverrideHandler(repo, ws).Handle(ctx, &commands.SetPriceOverrideCommand{Override: cheeseAsk(5)})
	require.NoError(t, err)
	handler := commands.NewDeletePriceOverrideHandler(repo, ws)

	// Act
	_, err = handler.Handle(ctx, &commands.DeletePriceOverrideCommand{Hrid: helpers.CheeseHrid})
	require.NoError(t, err)
	_, missing := handler.Handle(ctx, &commands.DeletePriceOverrideCommand{Hrid: helpers.CheeseHrid})

	// Assert
	assert.ErrorIs(t, missing, domainPricing.ErrOverrideNotFound)
	assert.Empty(t, ws.Overrides())
}

func TestLoadPriceOverrides(t *testing.T) {
	repo := helpers.NewMockPriceOverrideRepository()
	require.NoError(t, repo.Save(context.Background(), cheeseAsk(3)))
	ws := helpers.NewTestWorkspace(t, nil)

	resp, err := commands.NewLoadPriceOverridesHandler(repo, ws).Handle(context.Background(), &commands.LoadPriceOverridesCommand{})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.(*commands.LoadPriceOverridesResponse).Count)
	assert.Equal(t, []domainPricing.Override{cheeseAsk(3)}, ws.Overrides())
}

func TestSetOverridesActive(t *testing.T) {
	ws := helpers.NewTestWorkspace(t, nil)

	_, err := commands.NewSetOverridesActiveHandler(ws).Handle(context.Background(), &commands.SetOverridesActiveCommand{Active: false})

	require.NoError(t, err)
	assert.False(t, ws.OverridesActive())
}
