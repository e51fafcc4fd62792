package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

// CalculateQuery evaluates a single calculator config
type CalculateQuery struct {
	Config calculator.Config
}

// CalculationResponse is a calculator result with its priced entry lists
type CalculationResponse struct {
	Result      calculator.Result
	Ingredients []calculator.PricedEntry
	Products    []calculator.PricedEntry
	Storage     calculator.StorageItem
}

// CalculateHandler builds and runs one calculator against the current workspace
type CalculateHandler struct {
	workspace *workspace.Workspace
}

// NewCalculateHandler creates a new handler
func NewCalculateHandler(ws *workspace.Workspace) *CalculateHandler {
	return &CalculateHandler{workspace: ws}
}

// Handle executes the query
func (h *CalculateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CalculateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CalculateQuery")
	}

	env, err := h.workspace.Env()
	if err != nil {
		return nil, err
	}
	c, err := calculator.New(env, calculator.InferAction(env.Catalog, query.Config))
	if err != nil {
		return nil, fmt.Errorf("invalid calculator config: %w", err)
	}
	return NewCalculationResponse(c), nil
}

// NewCalculationResponse runs c and collects its priced lists
func NewCalculationResponse(c calculator.Calculator) *CalculationResponse {
	return &CalculationResponse{
		Result:      c.Run(),
		Ingredients: c.PricedIngredients(),
		Products:    c.PricedProducts(),
		Storage:     calculator.ToStorage(c),
	}
}
