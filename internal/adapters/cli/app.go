package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/andrescamacho/idleprofit-go/internal/adapters/api"
	"github.com/andrescamacho/idleprofit-go/internal/adapters/metrics"
	"github.com/andrescamacho/idleprofit-go/internal/adapters/persistence"
	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	pricingCommands "github.com/andrescamacho/idleprofit-go/internal/application/pricing/commands"
	refdataCommands "github.com/andrescamacho/idleprofit-go/internal/application/refdata/commands"
	"github.com/andrescamacho/idleprofit-go/internal/application/setup"
	"github.com/andrescamacho/idleprofit-go/internal/application/workspace"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/database"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/logging"
)

// App is the wired application a command runs against
type App struct {
	Config    *config.Config
	Mediator  mediator.Mediator
	Workspace *workspace.Workspace
	Logger    common.Logger
	Feeds     *api.FeedClient

	// Offline is set when the feeds are never contacted
	Offline bool

	closers []io.Closer
}

// AppOptions tune how much of the application is loaded up front
type AppOptions struct {
	// Offline serves stored snapshots without contacting the feeds
	Offline bool

	// SkipRefresh leaves the workspace empty; used by commands that only touch storage
	SkipRefresh bool

	// OverridesDisabled prices everything at market while keeping manual prices stored
	OverridesDisabled bool
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewApp connects storage, builds every handler and loads the reference data
func NewApp(ctx context.Context, cfg *config.Config, opts AppOptions) (app *App, err error) {
	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	app = &App{Config: cfg, Logger: logger, Offline: opts.Offline, closers: []io.Closer{logCloser}}
	defer func() {
		if err != nil {
			_ = app.Close()
			app = nil
		}
	}()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.closers = append(app.closers, closerFunc(func() error { return database.Close(db) }))
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	profile, err := cfg.Player.Profile()
	if err != nil {
		return nil, fmt.Errorf("invalid player profile: %w", err)
	}
	app.Workspace = workspace.New(profile)

	clock := shared.NewRealClock()
	obs, err := newObservers(cfg.Metrics.Enabled)
	if err != nil {
		return nil, err
	}

	app.Feeds = api.NewFeedClient(feedConfig(cfg.Feeds), clock, obs.fetch)
	app.Mediator, err = buildMediator(db, app.Workspace, app.Feeds, clock, cfg, logger, obs)
	if err != nil {
		return nil, err
	}

	ctx = common.WithLogger(ctx, logger)
	if _, err := app.Mediator.Send(ctx, &pricingCommands.LoadPriceOverridesCommand{}); err != nil {
		return nil, err
	}
	if opts.OverridesDisabled {
		if _, err := app.Mediator.Send(ctx, &pricingCommands.SetOverridesActiveCommand{Active: false}); err != nil {
			return nil, err
		}
	}
	if opts.SkipRefresh {
		return app, nil
	}
	if _, err := app.Mediator.Send(ctx, &refdataCommands.RefreshSnapshotsCommand{Offline: opts.Offline}); err != nil {
		return nil, err
	}
	return app, nil
}

// Context attaches the application logger to ctx
func (a *App) Context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, a.Logger)
}

// Close releases storage and log outputs in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// observers are the metric sinks handed to the adapters; all nil while metrics are disabled
type observers struct {
	fetch    api.FetchObserver
	sweeps   *metrics.SweepMetricsCollector
	commands *metrics.CommandMetricsCollector
}

func newObservers(enabled bool) (*observers, error) {
	if !enabled {
		return &observers{}, nil
	}
	if !metrics.IsEnabled() {
		metrics.InitRegistry()
	}

	feeds := metrics.NewFeedMetricsCollector()
	sweeps := metrics.NewSweepMetricsCollector()
	commands := metrics.NewCommandMetricsCollector()
	for _, register := range []func() error{feeds.Register, sweeps.Register, commands.Register} {
		if err := register(); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return &observers{fetch: feeds, sweeps: sweeps, commands: commands}, nil
}

func feedConfig(cfg config.FeedsConfig) api.FeedConfig {
	return api.FeedConfig{
		GameDataURL:       cfg.GameDataURL,
		MarketURL:         cfg.MarketURL,
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.Retry.MaxAttempts,
		BackoffBase:       cfg.Retry.BackoffBase,
		RequestsPerSecond: cfg.RateLimit.Requests,
		Burst:             cfg.RateLimit.Burst,
		BreakerFailures:   cfg.Breaker.Failures,
		BreakerCoolDown:   cfg.Breaker.CoolDown,
	}
}

func buildMediator(
	db *gorm.DB,
	ws *workspace.Workspace,
	feeds common.FeedClient,
	clock shared.Clock,
	cfg *config.Config,
	logger common.Logger,
	obs *observers,
) (mediator.Mediator, error) {
	cache, err := services.NewResultCache(cfg.Leaderboard.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard cache: %w", err)
	}

	var sweepObserver services.SweepObserver
	if obs.sweeps != nil {
		sweepObserver = obs.sweeps
		cache.SetObserver(obs.sweeps)
		ws.MarkovCache().SetObserver(obs.sweeps)
	}

	registry := setup.NewHandlerRegistry(setup.Dependencies{
		Workspace: ws,
		Favorites: persistence.NewGormFavoriteRepository(db),
		Overrides: persistence.NewGormPriceOverrideRepository(db, clock),
		Snapshots: persistence.NewGormSnapshotRepository(db),
		Feeds:     feeds,
		Decoder:   api.NewDecoder(),
		Sweeper:   services.NewSweeper(sweepObserver, clock),
		Cache:     cache,
		Clock:     clock,
	})

	middlewares := []mediator.Middleware{mediator.LoggingMiddleware(logger)}
	if obs.commands != nil {
		middlewares = append(middlewares, metrics.PrometheusMiddleware(obs.commands))
	}
	return registry.CreateConfiguredMediator(middlewares...)
}
