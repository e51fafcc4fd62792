package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
)

// ListFavoritesQuery recomputes every favorite against the current prices
type ListFavoritesQuery struct{}

// FavoriteRow is one recomputed favorite. Error is set when the stored
// configuration no longer builds.
type FavoriteRow struct {
	ID        string
	CreatedAt time.Time
	Storage   calculator.StorageItem
	Result    calculator.Result
	Error     string
}

type ListFavoritesResponse struct {
	Favorites []FavoriteRow
}

// ListFavoritesHandler rebuilds each favorite from its flat config
type ListFavoritesHandler struct {
	repo      favorite.Repository
	workspace *workspace.Workspace
}

// NewListFavoritesHandler creates a new handler
func NewListFavoritesHandler(repo favorite.Repository, ws *workspace.Workspace) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo, workspace: ws}
}

// Handle executes the query
func (h *ListFavoritesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListFavoritesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListFavoritesQuery")
	}

	env, err := h.workspace.Env()
	if err != nil {
		return nil, err
	}
	favorites, err := h.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	logger := common.LoggerFromContext(ctx)
	resp := &ListFavoritesResponse{Favorites: make([]FavoriteRow, 0, len(favorites))}
	for _, f := range favorites {
		row := FavoriteRow{ID: f.ID(), CreatedAt: f.CreatedAt(), Storage: f.Item()}
		c, err := calculator.FromStorage(env, f.Item())
		if err != nil {
			row.Error = err.Error()
			logger.Log("WARNING", "Favorite no longer builds", map[string]interface{}{
				"favorite_id": f.ID(),
				"error":       err.Error(),
			})
		} else {
			row.Result = c.Run()
		}
		resp.Favorites = append(resp.Favorites, row)
	}
	return resp, nil
}
