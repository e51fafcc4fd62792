package common

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
)

// SnapshotKind names one of the two reference feeds
type SnapshotKind string

const (
	SnapshotGameData SnapshotKind = "game_data"
	SnapshotMarket   SnapshotKind = "market"
)

// ErrSnapshotNotFound is returned when no snapshot of a kind was ever stored
var ErrSnapshotNotFound = errors.New("snapshot not found")

// StoredSnapshot is a raw feed payload as it was fetched
type StoredSnapshot struct {
	Kind      SnapshotKind
	Payload   []byte
	FetchedAt time.Time
}

// FeedClient fetches the raw reference feeds
type FeedClient interface {
	FetchGameData(ctx context.Context) ([]byte, error)
	FetchMarket(ctx context.Context) ([]byte, error)
}

// SnapshotDecoder turns raw feed payloads into domain snapshots
type SnapshotDecoder interface {
	DecodeGameData(payload []byte) (*gamedata.Snapshot, error)
	DecodeMarket(payload []byte, fetchedAt time.Time) (*market.Snapshot, error)
}

// SnapshotRepository keeps the latest payload of each feed so the tool works offline
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *StoredSnapshot) error

	// Latest returns the most recent payload of a kind, or ErrSnapshotNotFound
	Latest(ctx context.Context, kind SnapshotKind) (*StoredSnapshot, error)
}
