package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/adapters/api"
	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/refdata/commands"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func newRefreshHandler(feeds *helpers.MockFeedClient, repo *helpers.MockSnapshotRepository, ws *workspace.Workspace) *commands.RefreshSnapshotsHandler {
	clock := shared.NewMockClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	return commands.NewRefreshSnapshotsHandler(feeds, repo, api.NewDecoder(), ws, clock)
}

func TestRefreshSnapshots_FromFeeds(t *testing.T) {
	// Arrange
	feeds := helpers.NewMockFeedClient(t)
	repo := helpers.NewMockSnapshotRepository()
	ws := workspace.New(nil)
	handler := newRefreshHandler(feeds, repo, ws)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.RefreshSnapshotsCommand{})

	// Assert
	require.NoError(t, err)
	result := resp.(*commands.RefreshSnapshotsResponse)
	assert.Equal(t, commands.SourceFeed, result.GameDataSource)
	assert.Equal(t, commands.SourceFeed, result.MarketSource)
	assert.Equal(t, "test", result.GameVersion)
	assert.Equal(t, len(helpers.TestQuotes()), result.MarketItems)
	assert.Equal(t, helpers.FixtureTime.Unix(), result.MarketUpdatedAt.Unix())
	assert.Equal(t, 2, repo.Saves)

	_, err = ws.Env()
	assert.NoError(t, err)
	assert.Equal(t, result.Generation, ws.Generation())
}

func TestRefreshSnapshots_FallsBackToStoredPayloads(t *testing.T) {
	// Arrange
	feeds := helpers.NewMockFeedClient(t)
	repo := helpers.NewMockSnapshotRepository()
	ws := workspace.New(nil)
	handler := newRefreshHandler(feeds, repo, ws)
	_, err := handler.Handle(context.Background(), &commands.RefreshSnapshotsCommand{})
	require.NoError(t, err)
	feeds.Err = errors.New("connection refused")

	// Act
	resp, err := handler.Handle(context.Background(), &commands.RefreshSnapshotsCommand{})

	// Assert
	require.NoError(t, err)
	result := resp.(*commands.RefreshSnapshotsResponse)
	assert.Equal(t, commands.SourceCache, result.GameDataSource)
	assert.Equal(t, commands.SourceCache, result.MarketSource)
	assert.Equal(t, 2, repo.Saves)
}

func TestRefreshSnapshots_CorruptDownloadKeepsStoredCopy(t *testing.T) {
	feeds := helpers.NewMockFeedClient(t)
	repo := helpers.NewMockSnapshotRepository()
	handler := newRefreshHandler(feeds, repo, workspace.New(nil))
	_, err := handler.Handle(context.Background(), &commands.RefreshSnapshotsCommand{})
	require.NoError(t, err)
	feeds.Market = []byte(`{"market": `)

	resp, err := handler.Handle(context.Background(), &commands.RefreshSnapshotsCommand{})

	require.NoError(t, err)
	result := resp.(*commands.RefreshSnapshotsResponse)
	assert.Equal(t, commands.SourceFeed, result.GameDataSource)
	assert.Equal(t, commands.SourceCache, result.MarketSource)
	stored, err := repo.Latest(context.Background(), common.SnapshotMarket)
	require.NoError(t, err)
	assert.Equal(t, helpers.TestMarketPayload(t), stored.Payload)
}

func TestRefreshSnapshots_OfflineSkipsNetwork(t *testing.T) {
	feeds := helpers.NewMockFeedClient(t)
	repo := helpers.NewMockSnapshotRepository()
	require.NoError(t, repo.Save(context.Background(), &common.StoredSnapshot{
		Kind: common.SnapshotGameData, Payload: helpers.TestGameDataPayload(t), FetchedAt: helpers.FixtureTime,
	}))
	require.NoError(t, repo.Save(context.Background(), &common.StoredSnapshot{
		Kind: common.SnapshotMarket, Payload: helpers.TestMarketPayload(t), FetchedAt: helpers.FixtureTime,
	}))
	handler := newRefreshHandler(feeds, repo, workspace.New(nil))

	_, err := handler.Handle(context.Background(), &commands.RefreshSnapshotsCommand{Offline: true})

	require.NoError(t, err)
	assert.Equal(t, 0, feeds.GameDataCalls)
	assert.Equal(t, 0, feeds.MarketCalls)
}

func TestRefreshSnapshots_NothingAvailable(t *testing.T) {
	// Arrange
	feeds := helpers.NewMockFeedClient(t)
	feeds.Err = errors.New("dns failure")
	ws := helpers.NewTestWorkspace(t, nil)
	generation := ws.Generation()
	handler := newRefreshHandler(feeds, helpers.NewMockSnapshotRepository(), ws)

	// Act
	_, err := handler.Handle(context.Background(), &commands.RefreshSnapshotsCommand{})

	// Assert
	assert.ErrorIs(t, err, common.ErrSnapshotNotFound)
	assert.Equal(t, generation, ws.Generation(), "previous snapshots stay installed")
}
