package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/application/refdata/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

func findItems(t *testing.T, ws *workspace.Workspace, term string, limit int) []queries.ItemMatch {
	t.Helper()
	resp, err := queries.NewFindItemsHandler(ws).Handle(context.Background(), &queries.FindItemsQuery{Term: term, Limit: limit})
	require.NoError(t, err)
	return resp.(*queries.FindItemsResponse).Matches
}

func TestFindItems_FuzzyName(t *testing.T) {
	ws := helpers.NewTestWorkspace(t, nil)

	matches := findItems(t, ws, "hly chse", 5)

	require.NotEmpty(t, matches)
	assert.Equal(t, helpers.HolyCheeseHrid, matches[0].Hrid)
}

func TestFindItems_ExactMatchesRankFirst(t *testing.T) {
	ws := helpers.NewTestWorkspace(t, nil)

	tests := []struct {
		name string
		term string
	}{
		{name: "hrid", term: helpers.CheeseHrid},
		{name: "key", term: "cheese"},
		{name: "name any case", term: "CHEESE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := findItems(t, ws, tt.term, 10)

			require.NotEmpty(t, matches)
			assert.Equal(t, helpers.CheeseHrid, matches[0].Hrid)
			hrids := make(map[string]int)
			for _, m := range matches {
				hrids[m.Hrid]++
			}
			assert.Equal(t, 1, hrids[helpers.CheeseHrid], "no duplicate of the exact hit")
		})
	}
}

func TestFindItems_Limit(t *testing.T) {
	ws := helpers.NewTestWorkspace(t, nil)

	matches := findItems(t, ws, "e", 3)

	assert.Len(t, matches, 3)
	assert.Empty(t, findItems(t, ws, "   ", 3))
}

func TestFindItems_RequiresCatalog(t *testing.T) {
	_, err := queries.NewFindItemsHandler(workspace.New(nil)).Handle(context.Background(), &queries.FindItemsQuery{Term: "milk"})

	assert.ErrorIs(t, err, workspace.ErrNotLoaded)
}

func TestGetDataStatus(t *testing.T) {
	// Arrange
	ws := helpers.NewTestWorkspace(t, nil)
	clock := shared.NewMockClock(helpers.FixtureTime.Add(2 * time.Hour))
	handler := queries.NewGetDataStatusHandler(ws, clock)

	// Act
	resp, err := handler.Handle(context.Background(), &queries.GetDataStatusQuery{MaxMarketAge: time.Hour})

	// Assert
	require.NoError(t, err)
	status := resp.(*queries.DataStatusResponse)
	assert.True(t, status.Loaded)
	assert.Equal(t, "test", status.GameVersion)
	assert.Equal(t, len(helpers.TestQuotes()), status.MarketItems)
	assert.True(t, status.MarketStale)
	assert.True(t, status.OverridesActive)
	assert.Equal(t, ws.Generation(), status.Generation)
}

func TestGetDataStatus_Empty(t *testing.T) {
	resp, err := queries.NewGetDataStatusHandler(workspace.New(nil), nil).Handle(context.Background(), &queries.GetDataStatusQuery{})

	require.NoError(t, err)
	status := resp.(*queries.DataStatusResponse)
	assert.False(t, status.Loaded)
	assert.Zero(t, status.Items)
}
