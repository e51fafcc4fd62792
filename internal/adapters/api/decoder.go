package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
)

// ErrMalformedFeed is returned when a payload is not valid JSON or has no recognizable layout
var ErrMalformedFeed = errors.New("malformed feed payload")

// Decoder turns feed payloads into domain snapshots.
//
// The market feed comes in two layouts:
//
//	{"market": {"Cheese": {"ask": 30, "bid": 25}}, "time": 1700000000}
//	{"time": 1700000000, "levels": {"Cheese Sword": {"0": {"ask": {"price": 400, "time": 1700000000}, "bid": {...}}}}}
//
// The level-keyed layout may also arrive without the "levels" envelope.
type Decoder struct{}

var _ common.SnapshotDecoder = Decoder{}

// NewDecoder creates a feed decoder
func NewDecoder() Decoder {
	return Decoder{}
}

// DecodeGameData decodes and indexes the game-rules feed
func (Decoder) DecodeGameData(payload []byte) (*gamedata.Snapshot, error) {
	var doc gamedata.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}
	snapshot, err := gamedata.NewSnapshot(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to index game data: %w", err)
	}
	return snapshot, nil
}

// DecodeMarket decodes either market layout. fetchedAt stamps payloads that carry no time.
func (Decoder) DecodeMarket(payload []byte, fetchedAt time.Time) (*market.Snapshot, error) {
	if !gjson.ValidBytes(payload) {
		return nil, ErrMalformedFeed
	}
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrMalformedFeed)
	}

	updatedAt := fetchedAt
	if stamp := root.Get("time"); stamp.Exists() && stamp.Int() > 0 {
		updatedAt = time.Unix(stamp.Int(), 0).UTC()
	}

	var quotes map[string]map[int]market.Quote
	var err error
	switch {
	case root.Get("market").IsObject():
		quotes = decodeFlatMarket(root.Get("market"))
	case root.Get("levels").IsObject():
		quotes, err = decodeLevelMarket(root.Get("levels"))
	default:
		quotes, err = decodeLevelMarket(root)
	}
	if err != nil {
		return nil, err
	}

	snapshot, err := market.NewSnapshot(quotes, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to build market snapshot: %w", err)
	}
	return snapshot, nil
}

// decodeFlatMarket reads base-level quotes keyed by item name
func decodeFlatMarket(node gjson.Result) map[string]map[int]market.Quote {
	quotes := make(map[string]map[int]market.Quote)
	node.ForEach(func(name, quote gjson.Result) bool {
		if !quote.IsObject() {
			return true
		}
		quotes[name.String()] = map[int]market.Quote{0: {
			Ask: price(quote.Get("ask")),
			Bid: price(quote.Get("bid")),
		}}
		return true
	})
	return quotes
}

// decodeLevelMarket reads quotes keyed by item name, then enhancement level
func decodeLevelMarket(node gjson.Result) (map[string]map[int]market.Quote, error) {
	quotes := make(map[string]map[int]market.Quote)
	var decodeErr error
	node.ForEach(func(name, levels gjson.Result) bool {
		if name.String() == "time" {
			return true
		}
		if !levels.IsObject() {
			decodeErr = fmt.Errorf("%w: item %q has no level map", ErrMalformedFeed, name.String())
			return false
		}
		byLevel := make(map[int]market.Quote)
		levels.ForEach(func(levelKey, quote gjson.Result) bool {
			level, err := strconv.Atoi(levelKey.String())
			if err != nil || level < 0 {
				decodeErr = fmt.Errorf("%w: item %q has invalid level %q", ErrMalformedFeed, name.String(), levelKey.String())
				return false
			}
			byLevel[level] = market.Quote{
				Ask: price(quote.Get("ask.price")),
				Bid: price(quote.Get("bid.price")),
			}
			return true
		})
		if decodeErr != nil {
			return false
		}
		quotes[name.String()] = byLevel
		return true
	})
	return quotes, decodeErr
}

// price maps missing or negative prices to market.Unavailable
func price(v gjson.Result) float64 {
	if v.Type != gjson.Number || v.Float() < 0 {
		return market.Unavailable
	}
	return v.Float()
}
