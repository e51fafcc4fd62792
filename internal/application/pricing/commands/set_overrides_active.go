package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
)

// SetOverridesActiveCommand switches every manual price on or off without deleting them
type SetOverridesActiveCommand struct {
	Active bool
}

type SetOverridesActiveHandler struct {
	workspace *workspace.Workspace
}

func NewSetOverridesActiveHandler(ws *workspace.Workspace) *SetOverridesActiveHandler {
	return &SetOverridesActiveHandler{workspace: ws}
}

// Handle executes the command
func (h *SetOverridesActiveHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetOverridesActiveCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetOverridesActiveCommand")
	}
	h.workspace.SetOverridesActive(cmd.Active)
	return nil, nil
}
