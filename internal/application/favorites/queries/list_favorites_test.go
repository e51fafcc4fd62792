package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/application/favorites/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
	domainPricing "github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func addFavorite(t *testing.T, repo favorite.Repository, id string, item calculator.StorageItem) {
	t.Helper()
	f, err := favorite.NewFavorite(id, item, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Add(context.Background(), f))
}

func TestListFavorites_RecomputesAgainstCurrentPrices(t *testing.T) {
	// Arrange
	repo := helpers.NewMockFavoriteRepository()
	ws := helpers.NewTestWorkspace(t, nil)
	cfg := calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid, EscapeLevel: calculator.NoEscape}
	addFavorite(t, repo, "coinify", calculator.StorageItem{ID: "holy", Config: &cfg})
	addFavorite(t, repo, "cheese", calculator.StorageItem{ID: "cheese", Stages: []calculator.Config{
		{Kind: calculator.KindGather, Hrid: helpers.MilkHrid, Action: "milking", EscapeLevel: calculator.NoEscape},
		{Kind: calculator.KindManufacture, Hrid: helpers.CheeseHrid, Action: "cheesesmithing", EscapeLevel: calculator.NoEscape},
	}, Project: "Cheese"})
	handler := queries.NewListFavoritesHandler(repo, ws)

	// Act
	first, err := handler.Handle(context.Background(), &queries.ListFavoritesQuery{})
	require.NoError(t, err)
	ws.SetOverride(domainPricing.Override{Hrid: helpers.HolyCheeseHrid, Ask: domainPricing.ManualPrice{Manual: true, Price: 100}})
	second, err := handler.Handle(context.Background(), &queries.ListFavoritesQuery{})
	require.NoError(t, err)

	// Assert
	before := first.(*queries.ListFavoritesResponse).Favorites
	after := second.(*queries.ListFavoritesResponse).Favorites
	require.Len(t, before, 2)
	require.Len(t, after, 2)
	assert.Equal(t, "coinify", before[0].ID)
	assert.True(t, before[0].Result.Available)
	assert.Greater(t, after[0].Result.ProfitPH, before[0].Result.ProfitPH)
	assert.True(t, after[0].Result.HasManualPrice)
	assert.Equal(t, calculator.KindWorkflow, before[1].Result.Kind)
	assert.Empty(t, before[1].Error)
}

func TestListFavorites_ReportsBrokenFavorites(t *testing.T) {
	repo := helpers.NewMockFavoriteRepository()
	bad := calculator.Config{Kind: "fishing", Hrid: helpers.MilkHrid}
	addFavorite(t, repo, "bad", calculator.StorageItem{ID: "bad", Config: &bad})

	resp, err := queries.NewListFavoritesHandler(repo, helpers.NewTestWorkspace(t, nil)).Handle(context.Background(), &queries.ListFavoritesQuery{})

	require.NoError(t, err)
	rows := resp.(*queries.ListFavoritesResponse).Favorites
	require.Len(t, rows, 1)
	assert.NotEmpty(t, rows[0].Error)
}

func TestListFavorites_RequiresLoadedWorkspace(t *testing.T) {
	_, err := queries.NewListFavoritesHandler(helpers.NewMockFavoriteRepository(), workspace.New(nil)).Handle(context.Background(), &queries.ListFavoritesQuery{})

	assert.ErrorIs(t, err, workspace.ErrNotLoaded)
}
