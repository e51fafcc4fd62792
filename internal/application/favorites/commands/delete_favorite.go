package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
)

// DeleteFavoriteCommand removes a favorite by id
type DeleteFavoriteCommand struct {
	ID string
}

type DeleteFavoriteHandler struct {
	repo favorite.Repository
}

// NewDeleteFavoriteHandler creates a new handler
func NewDeleteFavoriteHandler(repo favorite.Repository) *DeleteFavoriteHandler {
	return &DeleteFavoriteHandler{repo: repo}
}

// Handle executes the command; a missing favorite yields ErrFavoriteNotFound
func (h *DeleteFavoriteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeleteFavoriteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteFavoriteCommand")
	}
	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return nil, err
	}
	common.LoggerFromContext(ctx).Log("INFO", "Favorite deleted", map[string]interface{}{
		"favorite_id": cmd.ID,
	})
	return nil, nil
}
