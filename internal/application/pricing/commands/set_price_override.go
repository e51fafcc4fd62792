package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	domainPricing "github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

// SetPriceOverrideCommand stores a manual price for an item at a level
type SetPriceOverrideCommand struct {
	Override domainPricing.Override
}

// SetPriceOverrideResponse echoes the stored override
type SetPriceOverrideResponse struct {
	Override   domainPricing.Override
	Generation uint64
}

// SetPriceOverrideHandler persists an override and applies it to the workspace
type SetPriceOverrideHandler struct {
	repo      domainPricing.OverrideRepository
	workspace *workspace.Workspace
}

// NewSetPriceOverrideHandler creates a new handler
func NewSetPriceOverrideHandler(repo domainPricing.OverrideRepository, ws *workspace.Workspace) *SetPriceOverrideHandler {
	return &SetPriceOverrideHandler{repo: repo, workspace: ws}
}

// Handle executes the command
func (h *SetPriceOverrideHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetPriceOverrideCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetPriceOverrideCommand")
	}
	if err := cmd.Override.Validate(); err != nil {
		return nil, err
	}
	if catalog := h.workspace.Catalog(); catalog != nil {
		if _, found := catalog.Item(cmd.Override.Hrid); !found {
			return nil, fmt.Errorf("%w: unknown item %s", domainPricing.ErrInvalidOverride, cmd.Override.Hrid)
		}
	}

	if err := h.repo.Save(ctx, cmd.Override); err != nil {
		return nil, fmt.Errorf("failed to save price override: %w", err)
	}
	h.workspace.SetOverride(cmd.Override)

	common.LoggerFromContext(ctx).Log("INFO", "Price override saved", map[string]interface{}{
		"hrid":  cmd.Override.Hrid,
		"level": cmd.Override.Level,
	})
	return &SetPriceOverrideResponse{Override: cmd.Override, Generation: h.workspace.Generation()}, nil
}
