package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	leaderboardQueries "github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/queries"
	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
)

// NewLeaderboardCommand creates the leaderboard command
func NewLeaderboardCommand(load AppLoader) *cobra.Command {
	var (
		filter     services.Filter
		sortField  string
		ascending  bool
		pageNumber int
		pageSize   int
	)

	kinds := make([]string, 0, len(services.SweepKinds))
	for _, kind := range services.SweepKinds {
		kinds = append(kinds, string(kind))
	}

	cmd := &cobra.Command{
		Use:   "leaderboard [kind]",
		Short: "Rank every candidate of a leaderboard by profit per hour",
		Long: fmt.Sprintf(`Sweep every candidate of a leaderboard and rank them by profit per hour.

Kinds: %s

Rows are sorted by profit per hour first; --sort adds a secondary order.
Sortable fields: %s

Examples:
  idleprofit leaderboard alchemy
  idleprofit leaderboard manufacture --project Cooking --min-profit-rate 10
  idleprofit leaderboard enhance --max-risk 2 --ban-charm --page 2`,
			strings.Join(kinds, ", "), strings.Join(services.SortFields(), ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := loadPreferences()

			name := prefs.DefaultKind
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				name = string(services.SweepAlchemy)
			}
			kind, err := services.ParseSweepKind(name)
			if err != nil {
				return err
			}

			if pageSize <= 0 {
				pageSize = prefs.PageSize
			}

			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				if pageSize <= 0 && app.Config != nil {
					pageSize = app.Config.Leaderboard.PageSize
				}
				query := &leaderboardQueries.GetLeaderboardQuery{
					Kind:   kind,
					Filter: filter,
					Sort:   services.Sort{Field: sortField, Order: sortOrder(ascending)},
					Page:   services.Page{Number: pageNumber, Size: pageSize},
				}

				response, err := app.Mediator.Send(ctx, query)
				if err != nil {
					return fmt.Errorf("failed to rank %s leaderboard: %w", kind, err)
				}
				result, ok := response.(*leaderboardQueries.LeaderboardResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result)
				}
				printLeaderboard(out, kind, query.Page, result)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter.Name, "name", "", "Keep rows whose name matches this regular expression")
	cmd.Flags().StringVar(&filter.Project, "project", "", "Keep rows of one project (e.g. Cooking)")
	cmd.Flags().Float64Var(&filter.MinProfitRate, "min-profit-rate", 0, "Minimum profit rate in percent")
	cmd.Flags().Float64Var(&filter.MaxRisk, "max-risk", 0, "Maximum risk")
	cmd.Flags().BoolVar(&filter.BanEquipment, "ban-equipment", false, "Hide equipment")
	cmd.Flags().BoolVar(&filter.BanJewelry, "ban-jewelry", false, "Hide rings and necklaces")
	cmd.Flags().BoolVar(&filter.BanCharm, "ban-charm", false, "Hide charms")
	cmd.Flags().StringVar(&sortField, "sort", "", "Secondary sort field")
	cmd.Flags().BoolVar(&ascending, "asc", false, "Sort the secondary field ascending")
	cmd.Flags().IntVar(&pageNumber, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "size", 0, "Rows per page")

	return cmd
}

func sortOrder(ascending bool) services.SortOrder {
	if ascending {
		return services.Ascending
	}
	return services.Descending
}

func printLeaderboard(out io.Writer, kind services.SweepKind, page services.Page, result *leaderboardQueries.LeaderboardResponse) {
	cached := ""
	if result.Cached {
		cached = ", cached"
	}
	fmt.Fprintf(out, "\n=== %s leaderboard (%d rows%s) ===\n\n", titleCase(string(kind)), result.Total, cached)

	if len(result.Rows) == 0 {
		fmt.Fprintln(out, "No profitable candidates match the filters")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tPROJECT\tPROFIT/H\tPROFIT/D\tRATE\tACTIONS/H\tRISK\tFAV")
	fmt.Fprintln(w, "-\t----\t-------\t--------\t--------\t----\t---------\t----\t---")

	offset := 0
	if page.Number > 1 && page.Size > 0 {
		offset = (page.Number - 1) * page.Size
	}
	for i, row := range result.Rows {
		name := row.Name
		if row.HasManualPrice {
			name += " *"
		}
		favorite := ""
		if row.Favorite {
			favorite = "★"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			offset+i+1,
			name,
			row.Project,
			formatAmount(row.ProfitPH),
			formatAmount(row.ProfitPerDay()),
			formatPercent(row.ProfitRate),
			formatAmount(row.ActionsPH),
			formatRisk(row.Risk),
			favorite,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nRun %s, generation %d. Rows marked * use a manual price.\n", result.RunID, result.Generation)
}
