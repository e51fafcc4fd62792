package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	calculationQueries "github.com/andrescamacho/idleprofit-go/internal/application/calculation/queries"
	favoriteCommands "github.com/andrescamacho/idleprofit-go/internal/application/favorites/commands"
	favoriteQueries "github.com/andrescamacho/idleprofit-go/internal/application/favorites/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/mediator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

// NewFavoriteCommand creates the favorite command with subcommands
func NewFavoriteCommand(load AppLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite",
		Short: "Bookmark calculations and recompute them against the current market",
		Long: `Favorites store a calculation or workflow configuration. Listing them
recomputes each one against the latest prices.

Examples:
  idleprofit favorite add coinify:holy_cheese
  idleprofit favorite add gather:milk manufacture:cheese --project "Milk to cheese"
  idleprofit favorite list
  idleprofit favorite delete 6f1c...`,
	}

	// Add subcommands
	cmd.AddCommand(newFavoriteAddCommand(load))
	cmd.AddCommand(newFavoriteListCommand(load))
	cmd.AddCommand(newFavoriteDeleteCommand(load))

	return cmd
}

// newFavoriteAddCommand creates the favorite add subcommand
func newFavoriteAddCommand(load AppLoader) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "add <stage> [stage...]",
		Short: "Bookmark a calculation, or a workflow when several stages are given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := parseStages(args)
			if err != nil {
				return err
			}

			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				item, err := storageItemFor(ctx, app.Mediator, stages, project)
				if err != nil {
					return err
				}
				response, err := app.Mediator.Send(ctx, &favoriteCommands.AddFavoriteCommand{Item: item})
				if err != nil {
					return fmt.Errorf("failed to add favorite: %w", err)
				}
				result, ok := response.(*favoriteCommands.AddFavoriteResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Favorite added: %s\n", result.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Display name of a workflow favorite")

	return cmd
}

// storageItemFor flattens one stage, or a workflow of several, through the calculation queries
func storageItemFor(ctx context.Context, m mediator.Mediator, stages []calculator.Config, project string) (calculator.StorageItem, error) {
	var request mediator.Request = &calculationQueries.CalculateQuery{Config: stages[0]}
	if len(stages) > 1 {
		request = &calculationQueries.WorkflowQuery{Stages: stages, Project: project}
	}

	response, err := m.Send(ctx, request)
	if err != nil {
		return calculator.StorageItem{}, fmt.Errorf("failed to calculate favorite: %w", err)
	}
	switch result := response.(type) {
	case *calculationQueries.CalculationResponse:
		return result.Storage, nil
	case *calculationQueries.WorkflowResponse:
		return result.Storage, nil
	default:
		return calculator.StorageItem{}, fmt.Errorf("unexpected response type")
	}
}

// newFavoriteListCommand creates the favorite list subcommand
func newFavoriteListCommand(load AppLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Recompute every favorite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				response, err := app.Mediator.Send(ctx, &favoriteQueries.ListFavoritesQuery{})
				if err != nil {
					return fmt.Errorf("failed to list favorites: %w", err)
				}
				result, ok := response.(*favoriteQueries.ListFavoritesResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result.Favorites)
				}
				printFavorites(out, result.Favorites)
				return nil
			})
		},
	}
}

func printFavorites(out io.Writer, favorites []favoriteQueries.FavoriteRow) {
	if len(favorites) == 0 {
		fmt.Fprintln(out, "No favorites")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROJECT\tPROFIT/H\tRATE\tADDED")
	fmt.Fprintln(w, "--\t----\t-------\t--------\t----\t-----")
	for _, f := range favorites {
		if f.Error != "" {
			fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t%s\n", f.ID, "error: "+f.Error, f.CreatedAt.Format("2006-01-02"))
			continue
		}
		name := f.Result.Name
		if !f.Result.Available {
			name += " (unavailable)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID,
			name,
			f.Result.Project,
			formatAmount(f.Result.ProfitPH),
			formatPercent(f.Result.ProfitRate),
			f.CreatedAt.Format("2006-01-02"),
		)
	}
	w.Flush()
}

// newFavoriteDeleteCommand creates the favorite delete subcommand
func newFavoriteDeleteCommand(load AppLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, AppOptions{SkipRefresh: true}, func(ctx context.Context, app *App) error {
				if _, err := app.Mediator.Send(ctx, &favoriteCommands.DeleteFavoriteCommand{ID: args[0]}); err != nil {
					return fmt.Errorf("failed to delete favorite: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Favorite %s deleted\n", args[0])
				return nil
			})
		},
	}
}
