package market_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
)

func TestNewSnapshot_Validation(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := market.NewSnapshot(nil, now)
	assert.ErrorIs(t, err, market.ErrEmptyMarket)

	_, err = market.NewSnapshot(map[string]map[int]market.Quote{"Cheese": {0: {Ask: 1, Bid: 1}}}, time.Time{})
	assert.ErrorIs(t, err, market.ErrInvalidTimestamp)

	_, err = market.NewSnapshot(map[string]map[int]market.Quote{"": {0: {Ask: 1, Bid: 1}}}, now)
	assert.ErrorIs(t, err, market.ErrInvalidItemName)

	_, err = market.NewSnapshot(map[string]map[int]market.Quote{"Cheese": {-1: {Ask: 1, Bid: 1}}}, now)
	assert.ErrorIs(t, err, market.ErrInvalidLevel)
}

func TestSnapshot_QuoteLookup(t *testing.T) {
	// Arrange
	quotes := map[string]map[int]market.Quote{
		"Cheese Sword": {0: {Ask: 400, Bid: 350}, 5: {Ask: 9000, Bid: market.Unavailable}},
	}
	snapshot, err := market.NewSnapshot(quotes, time.Now())
	require.NoError(t, err)

	// Act
	base, ok := snapshot.Quote("Cheese Sword", 0)
	enhanced, okEnhanced := snapshot.Quote("Cheese Sword", 5)
	missing, okMissing := snapshot.Quote("Cheese Sword", 3)

	// Assert
	assert.True(t, ok)
	assert.Equal(t, 400.0, base.Ask)
	assert.True(t, okEnhanced)
	assert.True(t, enhanced.HasAsk())
	assert.False(t, enhanced.HasBid())
	assert.False(t, okMissing)
	assert.Equal(t, market.UnavailableQuote(), missing)
	assert.Equal(t, []int{0, 5}, snapshot.Levels("Cheese Sword"))
}

func TestSnapshot_IsImmutable(t *testing.T) {
	// Arrange
	quotes := map[string]map[int]market.Quote{"Milk": {0: {Ask: 12, Bid: 10}}}
	snapshot, err := market.NewSnapshot(quotes, time.Now())
	require.NoError(t, err)

	// Act
	quotes["Milk"][0] = market.Quote{Ask: 999, Bid: 999}
	all := snapshot.All()
	all["Milk"][0] = market.Quote{Ask: 555, Bid: 555}

	// Assert
	quote, _ := snapshot.Quote("Milk", 0)
	assert.Equal(t, 12.0, quote.Ask)
}

func TestSnapshot_IsStale(t *testing.T) {
	updated := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	snapshot, err := market.NewSnapshot(map[string]map[int]market.Quote{"Milk": {0: {Ask: 12, Bid: 10}}}, updated)
	require.NoError(t, err)

	assert.False(t, snapshot.IsStale(updated.Add(10*time.Minute), 30*time.Minute))
	assert.True(t, snapshot.IsStale(updated.Add(31*time.Minute), 30*time.Minute))
}
