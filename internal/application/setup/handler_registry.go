package setup

import (
	"reflect"

	calculationQueries "github.com/andrescamacho/idleprofit-go/internal/application/calculation/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	favoriteCommands "github.com/andrescamacho/idleprofit-go/internal/application/favorites/commands"
	favoriteQueries "github.com/andrescamacho/idleprofit-go/internal/application/favorites/queries"
	leaderboardQueries "github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	pricingCommands "github.com/andrescamacho/idleprofit-go/internal/application/pricing/commands"
	pricingQueries "github.com/andrescamacho/idleprofit-go/internal/application/pricing/queries"
	refdataCommands "github.com/andrescamacho/idleprofit-go/internal/application/refdata/commands"
	refdataQueries "github.com/andrescamacho/idleprofit-go/internal/application/refdata/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// Dependencies are the adapters the application handlers are built from
type Dependencies struct {
	Workspace *workspace.Workspace
	Favorites favorite.Repository
	Overrides pricing.OverrideRepository
	Snapshots common.SnapshotRepository
	Feeds     common.FeedClient
	Decoder   common.SnapshotDecoder
	Sweeper   *services.Sweeper
	Cache     *services.ResultCache
	Clock     shared.Clock
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	workspace *workspace.Workspace
	favorites favorite.Repository
	overrides pricing.OverrideRepository
	snapshots common.SnapshotRepository
	feeds     common.FeedClient
	decoder   common.SnapshotDecoder
	sweeper   *services.Sweeper
	cache     *services.ResultCache
	clock     shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// Every workspace change purges the leaderboard cache.
func NewHandlerRegistry(deps Dependencies) *HandlerRegistry {
	// Default to real clock if not provided
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	if deps.Sweeper == nil {
		deps.Sweeper = services.NewSweeper(nil, deps.Clock)
	}

	r := &HandlerRegistry{
		workspace: deps.Workspace,
		favorites: deps.Favorites,
		overrides: deps.Overrides,
		snapshots: deps.Snapshots,
		feeds:     deps.Feeds,
		decoder:   deps.Decoder,
		sweeper:   deps.Sweeper,
		cache:     deps.Cache,
		clock:     deps.Clock,
	}
	if r.cache != nil && r.workspace != nil {
		cache := r.cache
		r.workspace.OnInvalidate(func(uint64) { cache.Purge() })
	}
	return r
}

type registration struct {
	request mediator.Request
	handler mediator.RequestHandler
}

func register(m mediator.Mediator, registrations ...registration) error {
	for _, reg := range registrations {
		if err := m.Register(reflect.TypeOf(reg.request), reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCalculationHandlers registers the single calculator, enhancement
// and workflow queries
func (r *HandlerRegistry) RegisterCalculationHandlers(m mediator.Mediator) error {
	return register(m,
		registration{&calculationQueries.CalculateQuery{}, calculationQueries.NewCalculateHandler(r.workspace)},
		registration{&calculationQueries.EnhanceQuery{}, calculationQueries.NewEnhanceHandler(r.workspace)},
		registration{&calculationQueries.WorkflowQuery{}, calculationQueries.NewWorkflowHandler(r.workspace)},
	)
}

// RegisterLeaderboardHandlers registers the leaderboard query.
// Favorites are marked on rows when a favorite repository is configured.
func (r *HandlerRegistry) RegisterLeaderboardHandlers(m mediator.Mediator) error {
	handler := leaderboardQueries.NewGetLeaderboardHandler(r.workspace, r.sweeper, r.cache, r.favorites)
	return register(m, registration{&leaderboardQueries.GetLeaderboardQuery{}, handler})
}

// RegisterPricingHandlers registers the manual price commands and queries
func (r *HandlerRegistry) RegisterPricingHandlers(m mediator.Mediator) error {
	return register(m,
		registration{&pricingCommands.SetPriceOverrideCommand{}, pricingCommands.NewSetPriceOverrideHandler(r.overrides, r.workspace)},
		registration{&pricingCommands.DeletePriceOverrideCommand{}, pricingCommands.NewDeletePriceOverrideHandler(r.overrides, r.workspace)},
		registration{&pricingCommands.LoadPriceOverridesCommand{}, pricingCommands.NewLoadPriceOverridesHandler(r.overrides, r.workspace)},
		registration{&pricingCommands.SetOverridesActiveCommand{}, pricingCommands.NewSetOverridesActiveHandler(r.workspace)},
		registration{&pricingQueries.ListPriceOverridesQuery{}, pricingQueries.NewListPriceOverridesHandler(r.overrides)},
	)
}

// RegisterFavoriteHandlers registers the favorite commands and queries
func (r *HandlerRegistry) RegisterFavoriteHandlers(m mediator.Mediator) error {
	return register(m,
		registration{&favoriteCommands.AddFavoriteCommand{}, favoriteCommands.NewAddFavoriteHandler(r.favorites, r.workspace, r.clock)},
		registration{&favoriteCommands.DeleteFavoriteCommand{}, favoriteCommands.NewDeleteFavoriteHandler(r.favorites)},
		registration{&favoriteQueries.ListFavoritesQuery{}, favoriteQueries.NewListFavoritesHandler(r.favorites, r.workspace)},
	)
}

// RegisterRefdataHandlers registers snapshot refresh, item search and data status
func (r *HandlerRegistry) RegisterRefdataHandlers(m mediator.Mediator) error {
	return register(m,
		registration{&refdataCommands.RefreshSnapshotsCommand{}, refdataCommands.NewRefreshSnapshotsHandler(r.feeds, r.snapshots, r.decoder, r.workspace, r.clock)},
		registration{&refdataQueries.FindItemsQuery{}, refdataQueries.NewFindItemsHandler(r.workspace)},
		registration{&refdataQueries.GetDataStatusQuery{}, refdataQueries.NewGetDataStatusHandler(r.workspace, r.clock)},
	)
}

// CreateConfiguredMediator creates a mediator with every handler registered.
// Middlewares run in the order given, outermost first.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}

	registrations := []func(mediator.Mediator) error{
		r.RegisterCalculationHandlers,
		r.RegisterLeaderboardHandlers,
		r.RegisterPricingHandlers,
		r.RegisterFavoriteHandlers,
		r.RegisterRefdataHandlers,
	}
	for _, registerHandlers := range registrations {
		if err := registerHandlers(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}
