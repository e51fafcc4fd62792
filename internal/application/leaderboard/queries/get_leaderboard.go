package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
	"github.com/andrescamacho/idleprofit-go/pkg/utils"
)

// GetLeaderboardQuery ranks every candidate of one leaderboard
type GetLeaderboardQuery struct {
	Kind   services.SweepKind
	Filter services.Filter
	Sort   services.Sort
	Page   services.Page
}

// LeaderboardResponse is one page of ranked rows
type LeaderboardResponse struct {
	Rows       []services.Row
	Total      int
	RunID      string
	Generation uint64
	Cached     bool
}

// GetLeaderboardHandler sweeps a leaderboard, or reuses the rows of the last sweep
// over the same workspace generation, then filters, sorts and pages them
type GetLeaderboardHandler struct {
	workspace *workspace.Workspace
	sweeper   *services.Sweeper
	cache     *services.ResultCache
	favorites favorite.Repository
}

// NewGetLeaderboardHandler creates a new handler; favorites may be nil
func NewGetLeaderboardHandler(
	ws *workspace.Workspace,
	sweeper *services.Sweeper,
	cache *services.ResultCache,
	favorites favorite.Repository,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		workspace: ws,
		sweeper:   sweeper,
		cache:     cache,
		favorites: favorites,
	}
}

// Handle executes the query
func (h *GetLeaderboardHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetLeaderboardQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetLeaderboardQuery")
	}
	if _, err := services.ParseSweepKind(string(query.Kind)); err != nil {
		return nil, err
	}

	rows, generation, cached, err := h.rows(ctx, query.Kind)
	if err != nil {
		return nil, err
	}

	filtered, err := services.Search(rows, query.Filter)
	if err != nil {
		return nil, err
	}
	if err := services.SortRows(filtered, query.Sort); err != nil {
		return nil, err
	}
	page, total := services.Paginate(filtered, query.Page)

	if err := h.markFavorites(ctx, page); err != nil {
		return nil, err
	}

	return &LeaderboardResponse{
		Rows:       page,
		Total:      total,
		RunID:      utils.GenerateRunID(string(query.Kind)),
		Generation: generation,
		Cached:     cached,
	}, nil
}

func (h *GetLeaderboardHandler) rows(ctx context.Context, kind services.SweepKind) ([]services.Row, uint64, bool, error) {
	generation := h.workspace.Generation()
	env, err := h.workspace.Env()
	if err != nil {
		return nil, 0, false, err
	}

	if h.cache != nil {
		if rows, ok := h.cache.Get(kind, generation); ok {
			return rows, generation, true, nil
		}
	}

	rows, err := h.sweeper.Sweep(ctx, kind, env)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to sweep %s leaderboard: %w", kind, err)
	}
	if h.cache != nil {
		h.cache.Put(kind, generation, rows)
	}
	return rows, generation, false, nil
}

func (h *GetLeaderboardHandler) markFavorites(ctx context.Context, rows []services.Row) error {
	if h.favorites == nil || len(rows) == 0 {
		return nil
	}
	favorites, err := h.favorites.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}
	keys := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		keys[f.Key()] = true
	}
	for i := range rows {
		rows[i].Favorite = keys[rows[i].Storage.Key()]
	}
	return nil
}
