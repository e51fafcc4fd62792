package helpers

import (
	"testing"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

// NewTestEnv wires the fixture catalog and market into a calculator environment.
// A nil profile uses the default player.
func NewTestEnv(t testing.TB, profile *player.Profile) calculator.Env {
	t.Helper()
	return NewTestEnvWithOverrides(t, profile, nil)
}

// NewTestEnvWithOverrides is NewTestEnv with manual price overrides layered over the market
func NewTestEnvWithOverrides(t testing.TB, profile *player.Profile, overrides pricing.OverrideSource) calculator.Env {
	t.Helper()
	catalog := NewTestCatalog(t)
	if profile == nil {
		profile = player.DefaultProfile()
	}
	return calculator.Env{
		Catalog: catalog,
		Prices:  pricing.NewResolver(catalog, NewTestMarket(t), overrides),
		Player:  profile,
		Markov:  calculator.NewMarkovCache(),
	}
}

// ProfileWithTeas returns the default profile drinking teas during one action type
func ProfileWithTeas(action player.ActionType, teas ...string) *player.Profile {
	cfg := player.DefaultActionConfig()
	cfg.Teas = teas
	return player.DefaultProfile().WithActionConfig(action, cfg)
}
