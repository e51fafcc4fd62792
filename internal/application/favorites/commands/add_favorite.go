package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// AddFavoriteCommand bookmarks a flattened calculator or workflow
type AddFavoriteCommand struct {
	Item calculator.StorageItem
}

// AddFavoriteResponse returns the id of the new favorite
type AddFavoriteResponse struct {
	ID string
}

// AddFavoriteHandler validates and stores a favorite
type AddFavoriteHandler struct {
	repo      favorite.Repository
	workspace *workspace.Workspace
	clock     shared.Clock
}

// NewAddFavoriteHandler creates a new handler; a nil clock uses the real clock
func NewAddFavoriteHandler(repo favorite.Repository, ws *workspace.Workspace, clock shared.Clock) *AddFavoriteHandler {
	if clock == nil {
		clock = &shared.RealClock{}
	}
	return &AddFavoriteHandler{repo: repo, workspace: ws, clock: clock}
}

// Handle executes the command. Storing the same configuration twice yields ErrDuplicateFavorite.
func (h *AddFavoriteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddFavoriteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddFavoriteCommand")
	}

	// the configuration must rebuild before it is worth keeping
	env, _ := h.workspace.Env()
	if _, err := calculator.FromStorage(env, cmd.Item); err != nil {
		return nil, fmt.Errorf("%w: %v", favorite.ErrInvalidFavorite, err)
	}

	fav, err := favorite.NewFavorite(uuid.New().String(), cmd.Item, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.repo.Add(ctx, fav); err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", "Favorite added", map[string]interface{}{
		"favorite_id": fav.ID(),
		"calculator":  cmd.Item.ID,
	})
	return &AddFavoriteResponse{ID: fav.ID()}, nil
}
