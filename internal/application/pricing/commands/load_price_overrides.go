package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	domainPricing "github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

// LoadPriceOverridesCommand replaces the workspace overrides with the stored ones
type LoadPriceOverridesCommand struct{}

// LoadPriceOverridesResponse reports how many overrides were loaded
type LoadPriceOverridesResponse struct {
	Count int
}

type LoadPriceOverridesHandler struct {
	repo      domainPricing.OverrideRepository
	workspace *workspace.Workspace
}

// NewLoadPriceOverridesHandler creates a new handler
func NewLoadPriceOverridesHandler(repo domainPricing.OverrideRepository, ws *workspace.Workspace) *LoadPriceOverridesHandler {
	return &LoadPriceOverridesHandler{repo: repo, workspace: ws}
}

// Handle executes the command
func (h *LoadPriceOverridesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*LoadPriceOverridesCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *LoadPriceOverridesCommand")
	}
	overrides, err := h.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price overrides: %w", err)
	}
	h.workspace.LoadOverrides(overrides)
	return &LoadPriceOverridesResponse{Count: len(overrides)}, nil
}
