package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

// WorkflowQuery evaluates a chain of calculators, optionally ending in parallel branches
type WorkflowQuery struct {
	Stages   []calculator.Config
	Branches []calculator.Config
	Project  string
}

// WorkflowResponse carries the netted workflow figures and each stage on its own
type WorkflowResponse struct {
	CalculationResponse
	Multipliers []float64
	Stages      []calculator.Result
}

// WorkflowHandler composes and runs a workflow
type WorkflowHandler struct {
	workspace *workspace.Workspace
}

// NewWorkflowHandler creates a new handler
func NewWorkflowHandler(ws *workspace.Workspace) *WorkflowHandler {
	return &WorkflowHandler{workspace: ws}
}

// Handle executes the query
func (h *WorkflowHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*WorkflowQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *WorkflowQuery")
	}

	env, err := h.workspace.Env()
	if err != nil {
		return nil, err
	}
	stages := make([]calculator.Config, len(query.Stages))
	for i, stage := range query.Stages {
		stages[i] = calculator.InferAction(env.Catalog, stage)
	}
	w, err := calculator.NewBranchedWorkflow(env, stages, query.Branches, query.Project)
	if err != nil {
		return nil, fmt.Errorf("invalid workflow: %w", err)
	}

	resp := &WorkflowResponse{
		CalculationResponse: *NewCalculationResponse(w),
		Multipliers:         w.Multipliers(),
	}
	for _, stage := range w.Stages() {
		resp.Stages = append(resp.Stages, stage.Run())
	}
	return resp, nil
}
