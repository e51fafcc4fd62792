package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// EnhanceQuery evaluates one enhancement chain. A nil Escape disables escaping.
type EnhanceQuery struct {
	Hrid    string
	Target  int
	Protect int
	Origin  int
	Escape  *int
}

// EnhanceResponse adds the Markov expectations of the chain to the calculation
type EnhanceResponse struct {
	CalculationResponse
	Enhancement          calculator.Enhancement
	MaxProfitApproximate float64
	ProtectionCostPH     float64
	EscapeIncomePH       float64
	Risk                 float64
}

// EnhanceHandler solves and prices an enhancement chain
type EnhanceHandler struct {
	workspace *workspace.Workspace
}

// NewEnhanceHandler creates a new handler
func NewEnhanceHandler(ws *workspace.Workspace) *EnhanceHandler {
	return &EnhanceHandler{workspace: ws}
}

// Handle executes the query
func (h *EnhanceHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*EnhanceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *EnhanceQuery")
	}

	env, err := h.workspace.Env()
	if err != nil {
		return nil, err
	}

	if _, ok := env.Catalog.Item(query.Hrid); !ok {
		return nil, shared.NewNotFoundError("item", query.Hrid)
	}

	cfg := calculator.NewEnhanceConfig(query.Hrid, query.Target, query.Protect, query.Origin)
	if query.Escape != nil {
		cfg.EscapeLevel = *query.Escape
	}
	c, err := calculator.New(env, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid enhancement: %w", err)
	}
	enh, ok := c.(*calculator.Enhance)
	if !ok {
		return nil, fmt.Errorf("unexpected calculator %T for an enhancement", c)
	}

	expectation, err := enh.Enhancelate()
	if err != nil && !errors.Is(err, calculator.ErrUnreachableLevel) {
		return nil, err
	}

	resp := &EnhanceResponse{
		CalculationResponse:  *NewCalculationResponse(enh),
		Enhancement:          expectation,
		MaxProfitApproximate: enh.MaxProfitApproximate(),
		ProtectionCostPH:     enh.ProtectionCostPerHour(),
		EscapeIncomePH:       enh.EscapeIncomePerHour(),
	}
	resp.Risk = resp.Result.Risk
	return resp, nil
}
