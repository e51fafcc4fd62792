package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// Snapshot sources reported by RefreshSnapshotsResponse
const (
	SourceFeed  = "feed"
	SourceCache = "cache"
)

// RefreshSnapshotsCommand loads the game-rules and market snapshots into the workspace.
// Offline skips the network and uses the stored payloads only.
type RefreshSnapshotsCommand struct {
	Offline bool
}

// RefreshSnapshotsResponse describes what was loaded
type RefreshSnapshotsResponse struct {
	GameDataSource  string
	MarketSource    string
	GameVersion     string
	Items           int
	MarketItems     int
	MarketUpdatedAt time.Time
	Generation      uint64
}

// RefreshSnapshotsHandler fetches, persists and installs reference snapshots
type RefreshSnapshotsHandler struct {
	feeds     common.FeedClient
	repo      common.SnapshotRepository
	decoder   common.SnapshotDecoder
	workspace *workspace.Workspace
	clock     shared.Clock
}

// NewRefreshSnapshotsHandler creates a new handler; a nil clock uses the real clock
func NewRefreshSnapshotsHandler(
	feeds common.FeedClient,
	repo common.SnapshotRepository,
	decoder common.SnapshotDecoder,
	ws *workspace.Workspace,
	clock shared.Clock,
) *RefreshSnapshotsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RefreshSnapshotsHandler{feeds: feeds, repo: repo, decoder: decoder, workspace: ws, clock: clock}
}

// Handle executes the command. A feed that cannot be fetched or decoded falls
// back to its last stored payload; with neither available the command fails
// and the workspace keeps its previous snapshots.
func (h *RefreshSnapshotsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RefreshSnapshotsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RefreshSnapshotsCommand")
	}

	var catalog *gamedata.Snapshot
	gameDataSource, err := h.load(ctx, common.SnapshotGameData, cmd.Offline, h.feeds.FetchGameData,
		func(payload []byte, _ time.Time) error {
			var err error
			catalog, err = h.decoder.DecodeGameData(payload)
			return err
		})
	if err != nil {
		return nil, err
	}

	var quotes *market.Snapshot
	marketSource, err := h.load(ctx, common.SnapshotMarket, cmd.Offline, h.feeds.FetchMarket,
		func(payload []byte, fetchedAt time.Time) error {
			var err error
			quotes, err = h.decoder.DecodeMarket(payload, fetchedAt)
			return err
		})
	if err != nil {
		return nil, err
	}

	h.workspace.SetSnapshots(catalog, quotes)

	response := &RefreshSnapshotsResponse{
		GameDataSource:  gameDataSource,
		MarketSource:    marketSource,
		GameVersion:     catalog.Version(),
		Items:           catalog.Len(),
		MarketItems:     quotes.Len(),
		MarketUpdatedAt: quotes.UpdatedAt(),
		Generation:      h.workspace.Generation(),
	}
	common.LoggerFromContext(ctx).Log("INFO", "Reference data loaded", map[string]interface{}{
		"game_data_source": gameDataSource,
		"market_source":    marketSource,
		"game_version":     response.GameVersion,
		"items":            response.Items,
		"market_items":     response.MarketItems,
	})
	return response, nil
}

func (h *RefreshSnapshotsHandler) load(
	ctx context.Context,
	kind common.SnapshotKind,
	offline bool,
	fetch func(context.Context) ([]byte, error),
	decode func(payload []byte, fetchedAt time.Time) error,
) (string, error) {
	logger := common.LoggerFromContext(ctx)

	if !offline {
		fetchErr := h.fetchAndStore(ctx, kind, fetch, decode)
		if fetchErr == nil {
			return SourceFeed, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Log("WARNING", "Feed unavailable, falling back to stored snapshot", map[string]interface{}{
			"feed":  string(kind),
			"error": fetchErr.Error(),
		})
	}

	stored, err := h.repo.Latest(ctx, kind)
	if err != nil {
		if errors.Is(err, common.ErrSnapshotNotFound) {
			return "", fmt.Errorf("no %s available: %w", kind, err)
		}
		return "", fmt.Errorf("failed to load stored %s: %w", kind, err)
	}
	if err := decode(stored.Payload, stored.FetchedAt); err != nil {
		return "", fmt.Errorf("stored %s is unreadable: %w", kind, err)
	}
	return SourceCache, nil
}

// fetchAndStore only persists payloads that decode, so a corrupt download never replaces a good copy
func (h *RefreshSnapshotsHandler) fetchAndStore(
	ctx context.Context,
	kind common.SnapshotKind,
	fetch func(context.Context) ([]byte, error),
	decode func(payload []byte, fetchedAt time.Time) error,
) error {
	payload, err := fetch(ctx)
	if err != nil {
		return err
	}
	fetchedAt := h.clock.Now()
	if err := decode(payload, fetchedAt); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, &common.StoredSnapshot{Kind: kind, Payload: payload, FetchedAt: fetchedAt}); err != nil {
		common.LoggerFromContext(ctx).Log("WARNING", "Failed to store snapshot", map[string]interface{}{
			"feed":  string(kind),
			"error": err.Error(),
		})
	}
	return nil
}
