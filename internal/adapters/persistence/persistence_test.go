package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/adapters/persistence"
	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func newFavorite(t *testing.T, id string, cfg calculator.Config, createdAt time.Time) *favorite.Favorite {
	t.Helper()
	fav, err := favorite.NewFavorite(id, calculator.StorageItem{ID: id, Config: &cfg}, createdAt)
	require.NoError(t, err)
	return fav
}

func TestFavoriteRepository_AddAndList(t *testing.T) {
	// Arrange
	repo := persistence.NewGormFavoriteRepository(helpers.NewTestDB(t))
	ctx := context.Background()
	first := newFavorite(t, "a", calculator.NewEnhanceConfig(helpers.CheeseSwordHrid, 3, 2, 0), helpers.FixtureTime)
	second := newFavorite(t, "b", calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid}, helpers.FixtureTime.Add(time.Minute))

	// Act
	require.NoError(t, repo.Add(ctx, second))
	require.NoError(t, repo.Add(ctx, first))
	favorites, err := repo.List(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "a", favorites[0].ID())
	assert.Equal(t, first.Key(), favorites[0].Key())
	assert.Equal(t, 3, favorites[0].Item().Config.EnhanceLevel)
	assert.True(t, helpers.FixtureTime.Equal(favorites[0].CreatedAt()))
	assert.Equal(t, "b", favorites[1].ID())
}

func TestFavoriteRepository_RejectsDuplicateConfiguration(t *testing.T) {
	repo := persistence.NewGormFavoriteRepository(helpers.NewTestDB(t))
	ctx := context.Background()
	cfg := calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.HolyCheeseHrid}
	require.NoError(t, repo.Add(ctx, newFavorite(t, "a", cfg, helpers.FixtureTime)))

	err := repo.Add(ctx, newFavorite(t, "b", cfg, helpers.FixtureTime))

	assert.ErrorIs(t, err, favorite.ErrDuplicateFavorite)
}

func TestFavoriteRepository_Delete(t *testing.T) {
	repo := persistence.NewGormFavoriteRepository(helpers.NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Add(ctx, newFavorite(t, "a", calculator.Config{Kind: calculator.KindCoinify, Hrid: helpers.CheeseHrid}, helpers.FixtureTime)))

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), favorite.ErrFavoriteNotFound)

	favorites, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestPriceOverrideRepository_SaveUpsertsAndLists(t *testing.T) {
	// Arrange
	repo := persistence.NewGormPriceOverrideRepository(helpers.NewTestDB(t), shared.NewMockClock(helpers.FixtureTime))
	ctx := context.Background()
	sword := pricing.Override{Hrid: helpers.CheeseSwordHrid, Level: 3, Bid: pricing.ManualPrice{Manual: true, Price: 2000}}
	cheese := pricing.Override{Hrid: helpers.CheeseHrid, Ask: pricing.ManualPrice{Manual: true, Price: 20}}

	// Act
	require.NoError(t, repo.Save(ctx, sword))
	require.NoError(t, repo.Save(ctx, cheese))
	sword.Bid.Price = 2500
	require.NoError(t, repo.Save(ctx, sword))
	overrides, err := repo.List(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []pricing.Override{cheese, sword}, overrides)
}

func TestPriceOverrideRepository_Delete(t *testing.T) {
	repo := persistence.NewGormPriceOverrideRepository(helpers.NewTestDB(t), nil)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, pricing.Override{Hrid: helpers.CheeseHrid, Ask: pricing.ManualPrice{Manual: true, Price: 20}}))

	assert.ErrorIs(t, repo.Delete(ctx, helpers.CheeseHrid, 1), pricing.ErrOverrideNotFound)
	require.NoError(t, repo.Delete(ctx, helpers.CheeseHrid, 0))
	assert.ErrorIs(t, repo.Delete(ctx, helpers.CheeseHrid, 0), pricing.ErrOverrideNotFound)
}

func TestSnapshotRepository_KeepsLatestPerFeed(t *testing.T) {
	// Arrange
	repo := persistence.NewGormSnapshotRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	// Act
	_, err := repo.Latest(ctx, common.SnapshotMarket)
	require.ErrorIs(t, err, common.ErrSnapshotNotFound)

	require.NoError(t, repo.Save(ctx, &common.StoredSnapshot{Kind: common.SnapshotMarket, Payload: []byte(`{"v":1}`), FetchedAt: helpers.FixtureTime}))
	require.NoError(t, repo.Save(ctx, &common.StoredSnapshot{Kind: common.SnapshotMarket, Payload: []byte(`{"v":2}`), FetchedAt: helpers.FixtureTime.Add(time.Hour)}))
	require.NoError(t, repo.Save(ctx, &common.StoredSnapshot{Kind: common.SnapshotGameData, Payload: []byte(`{}`), FetchedAt: helpers.FixtureTime}))
	latest, err := repo.Latest(ctx, common.SnapshotMarket)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), latest.Payload)
	assert.True(t, helpers.FixtureTime.Add(time.Hour).Equal(latest.FetchedAt))
}
