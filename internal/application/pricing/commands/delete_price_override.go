package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	domainPricing "github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

// DeletePriceOverrideCommand removes the manual price of an item at a level
type DeletePriceOverrideCommand struct {
	Hrid  string
	Level int
}

// DeletePriceOverrideHandler removes an override from storage and from the workspace
type DeletePriceOverrideHandler struct {
	repo      domainPricing.OverrideRepository
	workspace *workspace.Workspace
}

// NewDeletePriceOverrideHandler creates a new handler
func NewDeletePriceOverrideHandler(repo domainPricing.OverrideRepository, ws *workspace.Workspace) *DeletePriceOverrideHandler {
	return &DeletePriceOverrideHandler{repo: repo, workspace: ws}
}

// Handle executes the command; a missing override yields ErrOverrideNotFound
func (h *DeletePriceOverrideHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeletePriceOverrideCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeletePriceOverrideCommand")
	}

	if err := h.repo.Delete(ctx, cmd.Hrid, cmd.Level); err != nil {
		return nil, fmt.Errorf("failed to delete price override: %w", err)
	}
	h.workspace.DeleteOverride(cmd.Hrid, cmd.Level)

	common.LoggerFromContext(ctx).Log("INFO", "Price override deleted", map[string]interface{}{
		"hrid":  cmd.Hrid,
		"level": cmd.Level,
	})
	return nil, nil
}
