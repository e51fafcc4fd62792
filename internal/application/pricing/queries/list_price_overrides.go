package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	domainPricing "github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

// ListPriceOverridesQuery lists every stored manual price
type ListPriceOverridesQuery struct{}

// ListPriceOverridesResponse holds the overrides ordered by item and level
type ListPriceOverridesResponse struct {
	Overrides []domainPricing.Override
}

type ListPriceOverridesHandler struct {
	repo domainPricing.OverrideRepository
}

// NewListPriceOverridesHandler creates a new handler
func NewListPriceOverridesHandler(repo domainPricing.OverrideRepository) *ListPriceOverridesHandler {
	return &ListPriceOverridesHandler{repo: repo}
}

// Handle executes the query
func (h *ListPriceOverridesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListPriceOverridesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPriceOverridesQuery")
	}
	overrides, err := h.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list price overrides: %w", err)
	}
	return &ListPriceOverridesResponse{Overrides: overrides}, nil
}
