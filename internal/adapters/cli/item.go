package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	refdataQueries "github.com/andrescamacho/idleprofit-go/internal/application/refdata/queries"
)

// NewItemCommand creates the item command with subcommands
func NewItemCommand(load AppLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Look up items of the game data",
	}

	cmd.AddCommand(newItemFindCommand(load))

	return cmd
}

// newItemFindCommand creates the item find subcommand
func newItemFindCommand(load AppLoader) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Find items by approximate name",
		Long: `Find items whose name approximately matches the search term. The hrid
shown can be used wherever a command takes an item.

Examples:
  idleprofit item find "holy cheese"
  idleprofit item find hlychs --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				response, err := app.Mediator.Send(ctx, &refdataQueries.FindItemsQuery{Term: term, Limit: limit})
				if err != nil {
					return fmt.Errorf("failed to find items: %w", err)
				}
				result, ok := response.(*refdataQueries.FindItemsResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result.Matches)
				}
				if len(result.Matches) == 0 {
					fmt.Fprintf(out, "No item matches %q\n", term)
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tITEM")
				fmt.Fprintln(w, "----\t----")
				for _, match := range result.Matches {
					fmt.Fprintf(w, "%s\t%s\n", match.Name, shortHrid(match.Hrid))
				}
				w.Flush()
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of matches")

	return cmd
}
