package helpers

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
)

// MockFeedClient serves canned feed payloads and counts fetches
type MockFeedClient struct {
	mu            sync.Mutex
	GameData      []byte
	Market        []byte
	Err           error
	GameDataCalls int
	MarketCalls   int
}

// NewMockFeedClient serves the fixture game data and market
func NewMockFeedClient(t testing.TB) *MockFeedClient {
	t.Helper()
	return &MockFeedClient{GameData: TestGameDataPayload(t), Market: TestMarketPayload(t)}
}

func (m *MockFeedClient) FetchGameData(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GameDataCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.GameData, nil
}

func (m *MockFeedClient) FetchMarket(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarketCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Market, nil
}

// TestGameDataPayload encodes TestGameDocument as the game-rules feed
func TestGameDataPayload(t testing.TB) []byte {
	t.Helper()
	data, err := json.Marshal(TestGameDocument())
	if err != nil {
		t.Fatalf("failed to encode game data: %v", err)
	}
	return data
}

type levelSide struct {
	Price float64 `json:"price"`
	Time  int64   `json:"time"`
}

type levelQuote struct {
	Ask levelSide `json:"ask"`
	Bid levelSide `json:"bid"`
}

// TestMarketPayload encodes TestQuotes in the level-keyed market feed layout
func TestMarketPayload(t testing.TB) []byte {
	t.Helper()
	stamp := FixtureTime.Unix()
	levels := make(map[string]map[string]levelQuote)
	for name, byLevel := range TestQuotes() {
		levels[name] = make(map[string]levelQuote, len(byLevel))
		for level, quote := range byLevel {
			levels[name][strconv.Itoa(level)] = levelQuote{
				Ask: levelSide{Price: quote.Ask, Time: stamp},
				Bid: levelSide{Price: quote.Bid, Time: stamp},
			}
		}
	}
	data, err := json.Marshal(map[string]interface{}{"time": stamp, "levels": levels})
	if err != nil {
		t.Fatalf("failed to encode market: %v", err)
	}
	return data
}
