package helpers

import (
	"testing"

	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
)

// NewTestWorkspace returns a workspace loaded with the fixture catalog and market
func NewTestWorkspace(t testing.TB, profile *player.Profile) *workspace.Workspace {
	t.Helper()
	ws := workspace.New(profile)
	ws.SetSnapshots(NewTestCatalog(t), NewTestMarket(t))
	return ws
}
