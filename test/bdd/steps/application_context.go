package steps

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/idleprofit-go/internal/adapters/api"
	"github.com/andrescamacho/idleprofit-go/internal/adapters/persistence"
	calculationQueries "github.com/andrescamacho/idleprofit-go/internal/application/calculation/queries"
	favoriteQueries "github.com/andrescamacho/idleprofit-go/internal/application/favorites/queries"
	leaderboardQueries "github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	pricingCommands "github.com/andrescamacho/idleprofit-go/internal/application/pricing/commands"
	refdataCommands "github.com/andrescamacho/idleprofit-go/internal/application/refdata/commands"
	"github.com/andrescamacho/idleprofit-go/internal/application/setup"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
	"github.com/andrescamacho/idleprofit-go/test/helpers"
)

// applicationContext drives the fully wired mediator over the shared test database.
// Restarting rebuilds the workspace and handlers while keeping the stored rows.
type applicationContext struct {
	t         testing.TB
	ctx       context.Context
	mediator  mediator.Mediator
	workspace *workspace.Workspace
	cache     *services.ResultCache
	feeds     *helpers.MockFeedClient

	refresh     *refdataCommands.RefreshSnapshotsResponse
	calculation *calculationQueries.CalculationResponse
	leaderboard *leaderboardQueries.LeaderboardResponse
	favorites   []favoriteQueries.FavoriteRow
	favoriteIDs []string
	err         error

	previousProfitPH float64
}

func (ac *applicationContext) reset() {
	ac.ctx = context.Background()
	ac.mediator = nil
	ac.workspace = nil
	ac.cache = nil
	ac.feeds = nil
	ac.refresh = nil
	ac.calculation = nil
	ac.leaderboard = nil
	ac.favorites = nil
	ac.favoriteIDs = nil
	ac.err = nil
	ac.previousProfitPH = 0
}

// InitializeApplicationScenario registers the steps that run against the wired application
func InitializeApplicationScenario(sc *godog.ScenarioContext, t testing.TB) {
	ac := &applicationContext{t: t}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		ac.reset()
		return ctx, helpers.TruncateAllTables()
	})

	sc.Step(`^the application is wired to the test database$`, ac.theApplicationIsWired)
	sc.Step(`^the snapshots are refreshed$`, ac.theSnapshotsAreRefreshed)
	sc.Step(`^I try to refresh the snapshots$`, ac.iTryToRefreshTheSnapshots)
	sc.Step(`^the feeds are unreachable$`, ac.theFeedsAreUnreachable)
	sc.Step(`^the application is restarted$`, ac.theApplicationIsRestarted)
	sc.Step(`^the snapshots should come from the "([^"]*)"$`, ac.theSnapshotsShouldComeFrom)
	sc.Step(`^the request should fail$`, ac.theRequestShouldFail)
	sc.Step(`^the request should succeed$`, ac.theRequestShouldSucceed)

	registerCalculationSteps(sc, ac)
	registerPricingSteps(sc, ac)
	registerLeaderboardSteps(sc, ac)
	registerFavoriteSteps(sc, ac)
}

func (ac *applicationContext) theApplicationIsWired() error {
	if helpers.SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	if ac.feeds == nil {
		ac.feeds = helpers.NewMockFeedClient(ac.t)
	}

	cache, err := services.NewResultCache(8)
	if err != nil {
		return err
	}
	clock := shared.NewMockClock(helpers.FixtureTime)
	ws := workspace.New(nil)

	registry := setup.NewHandlerRegistry(setup.Dependencies{
		Workspace: ws,
		Favorites: persistence.NewGormFavoriteRepository(helpers.SharedTestDB),
		Overrides: persistence.NewGormPriceOverrideRepository(helpers.SharedTestDB, clock),
		Snapshots: persistence.NewGormSnapshotRepository(helpers.SharedTestDB),
		Feeds:     ac.feeds,
		Decoder:   api.NewDecoder(),
		Cache:     cache,
		Clock:     clock,
	})
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		return err
	}

	ac.mediator, ac.workspace, ac.cache = m, ws, cache
	_, err = ac.mediator.Send(ac.ctx, &pricingCommands.LoadPriceOverridesCommand{})
	return err
}

func (ac *applicationContext) theSnapshotsAreRefreshed() error {
	response, err := ac.mediator.Send(ac.ctx, &refdataCommands.RefreshSnapshotsCommand{})
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	ac.refresh = response.(*refdataCommands.RefreshSnapshotsResponse)
	if !ac.workspace.Loaded() {
		return fmt.Errorf("workspace not loaded after refresh")
	}
	return nil
}

func (ac *applicationContext) iTryToRefreshTheSnapshots() error {
	_, ac.err = ac.mediator.Send(ac.ctx, &refdataCommands.RefreshSnapshotsCommand{})
	return nil
}

func (ac *applicationContext) theFeedsAreUnreachable() error {
	ac.feeds.Err = fmt.Errorf("connection refused")
	return nil
}

func (ac *applicationContext) theApplicationIsRestarted() error {
	if err := ac.theApplicationIsWired(); err != nil {
		return err
	}
	return ac.theSnapshotsAreRefreshed()
}

func (ac *applicationContext) theSnapshotsShouldComeFrom(source string) error {
	if ac.refresh == nil {
		return fmt.Errorf("no refresh ran")
	}
	want := source
	if ac.refresh.GameDataSource != want || ac.refresh.MarketSource != want {
		return fmt.Errorf("expected both feeds from %s, got game data %s and market %s",
			source, ac.refresh.GameDataSource, ac.refresh.MarketSource)
	}
	return nil
}

func (ac *applicationContext) theRequestShouldFail() error {
	if ac.err == nil {
		return fmt.Errorf("expected the request to fail")
	}
	return nil
}

func (ac *applicationContext) theRequestShouldSucceed() error {
	if ac.err != nil {
		return fmt.Errorf("expected success, got: %w", ac.err)
	}
	return nil
}

func itemHrid(name string) string {
	if strings.HasPrefix(name, "/items/") {
		return name
	}
	return "/items/" + name
}
