package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	refdataCommands "github.com/andrescamacho/idleprofit-go/internal/application/refdata/commands"
	refdataQueries "github.com/andrescamacho/idleprofit-go/internal/application/refdata/queries"
)

// NewDataCommand creates the data command with subcommands
func NewDataCommand(load AppLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the game data and market snapshots",
		Long: `Game data (items, recipes, drop tables) and market quotes are downloaded
from public feeds and stored locally. When a download fails the last stored
snapshot is used instead.

Examples:
  idleprofit data refresh
  idleprofit data status`,
	}

	// Add subcommands
	cmd.AddCommand(newDataRefreshCommand(load))
	cmd.AddCommand(newDataStatusCommand(load))

	return cmd
}

// newDataRefreshCommand creates the data refresh subcommand
func newDataRefreshCommand(load AppLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download both feeds and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, AppOptions{SkipRefresh: true}, func(ctx context.Context, app *App) error {
				response, err := app.Mediator.Send(ctx, &refdataCommands.RefreshSnapshotsCommand{Offline: offline})
				if err != nil {
					return fmt.Errorf("failed to refresh data: %w", err)
				}
				result, ok := response.(*refdataCommands.RefreshSnapshotsResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result)
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Game data:\tversion %s, %d items (%s)\n", result.GameVersion, result.Items, result.GameDataSource)
				fmt.Fprintf(w, "Market:\t%d items, updated %s (%s)\n",
					result.MarketItems, result.MarketUpdatedAt.Format(time.RFC3339), result.MarketSource)
				w.Flush()

				if result.GameDataSource == refdataCommands.SourceCache || result.MarketSource == refdataCommands.SourceCache {
					fmt.Fprintln(out, "\nSome feeds could not be downloaded; stored snapshots are in use.")
				}
				return nil
			})
		},
	}
}

// newDataStatusCommand creates the data status subcommand
func newDataStatusCommand(load AppLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored snapshots without downloading",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, AppOptions{Offline: true}, func(ctx context.Context, app *App) error {
				query := &refdataQueries.GetDataStatusQuery{}
				if app.Config != nil {
					query.MaxMarketAge = app.Config.Feeds.MaxMarketAge
				}
				response, err := app.Mediator.Send(ctx, query)
				if err != nil {
					return fmt.Errorf("failed to get data status: %w", err)
				}
				result, ok := response.(*refdataQueries.DataStatusResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result)
				}
				if !result.Loaded {
					fmt.Fprintln(out, "No data loaded; run 'idleprofit data refresh'")
					return nil
				}

				stale := ""
				if result.MarketStale {
					stale = " (stale)"
				}
				overrides := "active"
				if !result.OverridesActive {
					overrides = "disabled"
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Game version:\t%s\n", result.GameVersion)
				fmt.Fprintf(w, "Items:\t%d\n", result.Items)
				fmt.Fprintf(w, "Market items:\t%d\n", result.MarketItems)
				fmt.Fprintf(w, "Market updated:\t%s%s\n", result.MarketUpdatedAt.Format(time.RFC3339), stale)
				fmt.Fprintf(w, "Manual prices:\t%d (%s)\n", result.Overrides, overrides)
				fmt.Fprintf(w, "Cached solutions:\t%d\n", result.MarkovEntries)
				fmt.Fprintf(w, "Generation:\t%d\n", result.Generation)
				w.Flush()
				return nil
			})
		},
	}
}
