package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/idleprofit-go/internal/adapters/api"
	grpcAdapter "github.com/andrescamacho/idleprofit-go/internal/adapters/grpc"
	"github.com/andrescamacho/idleprofit-go/internal/adapters/metrics"
	"github.com/andrescamacho/idleprofit-go/internal/application/common"
	leaderboardQueries "github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	refdataCommands "github.com/andrescamacho/idleprofit-go/internal/application/refdata/commands"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var (
		force    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Keep the snapshots fresh and expose health and metrics endpoints",
		Long: `Run in the foreground, refreshing the game data and market snapshots on a
schedule. After every refresh the configured leaderboards are swept so their
first query is answered from cache.

A gRPC health service (grpc.health.v1) reports whether snapshots are loaded and
whether the feeds are reachable. Prometheus metrics are served when enabled.

Examples:
  idleprofit serve
  idleprofit serve --interval 5m
  idleprofit serve --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			pf := pidfile.New(cfg.Server.PIDFile)
			if err := pf.Acquire(); err != nil {
				if !force || !errors.Is(err, pidfile.ErrAlreadyRunning) {
					return fmt.Errorf("%w\nUse --force to stop the running server", err)
				}
				if err := pf.Takeover(cfg.Server.ShutdownTimeout); err != nil {
					return fmt.Errorf("failed to take over PID file: %w", err)
				}
			}
			defer pf.Release()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := loadApp(ctx, AppOptions{SkipRefresh: true})
			if err != nil {
				return err
			}
			defer app.Close()

			if cmd.Flags().Changed("interval") {
				app.Config.Feeds.RefreshInterval = interval
			}
			return runServer(app.Context(ctx), app, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Stop a running server and take its place")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default: feeds.refresh_interval)")

	return cmd
}

// runServer refreshes on every tick until ctx is cancelled, then shuts the endpoints down
func runServer(ctx context.Context, app *App, out io.Writer) error {
	cfg := app.Config
	logger := common.LoggerFromContext(ctx)

	prewarm := make([]services.SweepKind, 0, len(cfg.Server.Prewarm))
	for _, name := range cfg.Server.Prewarm {
		kind, err := services.ParseSweepKind(name)
		if err != nil {
			return err
		}
		prewarm = append(prewarm, kind)
	}

	health, err := grpcAdapter.NewHealthServer(cfg.Server.GRPCAddress, healthProbes(app))
	if err != nil {
		return err
	}
	healthErrs := health.Start()
	fmt.Fprintf(out, "Health service listening on %s\n", health.Addr())

	var metricsServer *metrics.Server
	metricsErrs := make(chan error, 1)
	if cfg.Metrics.Enabled {
		metricsServer, err = metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			_ = health.Shutdown(context.Background())
			return err
		}
		go func() { metricsErrs <- metricsServer.Start() }()
		fmt.Fprintf(out, "Metrics served on http://%s%s\n", metricsServer.Addr(), cfg.Metrics.Path)
	}

	refresh := func() {
		refreshAndPrewarm(ctx, app, prewarm)
		if failing := health.Update(); len(failing) > 0 {
			logger.Log("WARNING", "Health checks failing", map[string]interface{}{"services": failing})
		}
	}
	refresh()

	interval := cfg.Feeds.RefreshInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	fmt.Fprintf(out, "Refreshing every %s; press Ctrl+C to stop\n", interval)

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			refresh()
		case err := <-healthErrs:
			healthErrs = nil
			if err != nil {
				runErr = err
				break loop
			}
		case err := <-metricsErrs:
			metricsErrs = nil
			if err != nil {
				runErr = err
				break loop
			}
		}
	}

	fmt.Fprintln(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	errs := []error{runErr, health.Shutdown(shutdownCtx)}
	if metricsServer != nil {
		errs = append(errs, metricsServer.Shutdown(shutdownCtx))
	}
	return errors.Join(errs...)
}

// refreshAndPrewarm reloads the snapshots and sweeps the prewarmed leaderboards.
// Failures are logged; the previous snapshots stay in service.
func refreshAndPrewarm(ctx context.Context, app *App, prewarm []services.SweepKind) {
	logger := common.LoggerFromContext(ctx)

	if _, err := app.Mediator.Send(ctx, &refdataCommands.RefreshSnapshotsCommand{Offline: app.Offline}); err != nil {
		logger.Log("ERROR", "Snapshot refresh failed", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, kind := range prewarm {
		query := &leaderboardQueries.GetLeaderboardQuery{Kind: kind, Page: services.Page{Number: 1, Size: 1}}
		response, err := app.Mediator.Send(ctx, query)
		if err != nil {
			logger.Log("WARNING", "Leaderboard prewarm failed", map[string]interface{}{
				"kind":  string(kind),
				"error": err.Error(),
			})
			continue
		}
		if result, ok := response.(*leaderboardQueries.LeaderboardResponse); ok {
			logger.Log("INFO", "Leaderboard prewarmed", map[string]interface{}{
				"kind":       string(kind),
				"rows":       result.Total,
				"generation": result.Generation,
			})
		}
	}
}

func healthProbes(app *App) map[string]grpcAdapter.Probe {
	return map[string]grpcAdapter.Probe{
		grpcAdapter.ServiceWorkspace: func() bool {
			return app.Workspace != nil && app.Workspace.Loaded()
		},
		grpcAdapter.ServiceFeeds: func() bool {
			return app.Feeds == nil || app.Feeds.Breaker().State() != api.CircuitOpen
		},
	}
}
