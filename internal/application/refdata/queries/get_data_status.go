package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// GetDataStatusQuery reports what reference data the workspace holds
type GetDataStatusQuery struct {
	// MaxMarketAge marks the market stale when exceeded; zero disables the check
	MaxMarketAge time.Duration
}

// DataStatusResponse summarizes the loaded snapshots
type DataStatusResponse struct {
	Loaded          bool
	GameVersion     string
	Items           int
	MarketItems     int
	MarketUpdatedAt time.Time
	MarketStale     bool
	Overrides       int
	OverridesActive bool
	MarkovEntries   int
	Generation      uint64
}

type GetDataStatusHandler struct {
	workspace *workspace.Workspace
	clock     shared.Clock
}

func NewGetDataStatusHandler(ws *workspace.Workspace, clock shared.Clock) *GetDataStatusHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GetDataStatusHandler{workspace: ws, clock: clock}
}

func (h *GetDataStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetDataStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetDataStatusQuery")
	}

	status := &DataStatusResponse{
		Overrides:       len(h.workspace.Overrides()),
		OverridesActive: h.workspace.OverridesActive(),
		MarkovEntries:   h.workspace.MarkovCache().Len(),
		Generation:      h.workspace.Generation(),
	}
	catalog := h.workspace.Catalog()
	quotes := h.workspace.Market()
	status.Loaded = catalog != nil && quotes != nil
	if catalog != nil {
		status.GameVersion = catalog.Version()
		status.Items = catalog.Len()
	}
	if quotes != nil {
		status.MarketItems = quotes.Len()
		status.MarketUpdatedAt = quotes.UpdatedAt()
		status.MarketStale = query.MaxMarketAge > 0 && quotes.IsStale(h.clock.Now(), query.MaxMarketAge)
	}
	return status, nil
}
