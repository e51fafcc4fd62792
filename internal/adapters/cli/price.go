package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	pricingCommands "github.com/andrescamacho/idleprofit-go/internal/application/pricing/commands"
	pricingQueries "github.com/andrescamacho/idleprofit-go/internal/application/pricing/queries"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
)

// NewPriceCommand creates the price command with subcommands
func NewPriceCommand(load AppLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Manage manual price overrides",
		Long: `Manual prices replace the market ask or bid of an item at an enhancement
level in every calculation. Rows priced manually are marked with *.

Examples:
  idleprofit price set cheese --ask 20
  idleprofit price set cheese_sword --level 5 --bid 150000
  idleprofit price list
  idleprofit price delete cheese
  idleprofit price disable`,
	}

	// Add subcommands
	cmd.AddCommand(newPriceSetCommand(load))
	cmd.AddCommand(newPriceDeleteCommand(load))
	cmd.AddCommand(newPriceListCommand(load))
	cmd.AddCommand(newPriceToggleCommand(true))
	cmd.AddCommand(newPriceToggleCommand(false))

	return cmd
}

// newPriceSetCommand creates the price set subcommand
func newPriceSetCommand(load AppLoader) *cobra.Command {
	var (
		level int
		ask   float64
		bid   float64
	)

	cmd := &cobra.Command{
		Use:   "set <item>",
		Short: "Set the manual ask and/or bid of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override := pricing.Override{Hrid: normalizeHrid(args[0]), Level: level}
			if cmd.Flags().Changed("ask") {
				override.Ask = pricing.ManualPrice{Manual: true, Price: ask}
			}
			if cmd.Flags().Changed("bid") {
				override.Bid = pricing.ManualPrice{Manual: true, Price: bid}
			}
			if !override.Ask.Manual && !override.Bid.Manual {
				return fmt.Errorf("at least one of --ask or --bid is required")
			}

			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				if _, err := app.Mediator.Send(ctx, &pricingCommands.SetPriceOverrideCommand{Override: override}); err != nil {
					return fmt.Errorf("failed to set price: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Manual price set for %s +%d\n", shortHrid(override.Hrid), override.Level)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&level, "level", 0, "Enhancement level")
	cmd.Flags().Float64Var(&ask, "ask", 0, "Manual ask (buy) price")
	cmd.Flags().Float64Var(&bid, "bid", 0, "Manual bid (sell) price")

	return cmd
}

// newPriceDeleteCommand creates the price delete subcommand
func newPriceDeleteCommand(load AppLoader) *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "delete <item>",
		Short: "Remove the manual price of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hrid := normalizeHrid(args[0])
			return withApp(cmd, load, AppOptions{SkipRefresh: true}, func(ctx context.Context, app *App) error {
				if _, err := app.Mediator.Send(ctx, &pricingCommands.DeletePriceOverrideCommand{Hrid: hrid, Level: level}); err != nil {
					return fmt.Errorf("failed to delete price: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Manual price removed for %s +%d\n", shortHrid(hrid), level)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&level, "level", 0, "Enhancement level")

	return cmd
}

// newPriceListCommand creates the price list subcommand
func newPriceListCommand(load AppLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every manual price",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, AppOptions{SkipRefresh: true}, func(ctx context.Context, app *App) error {
				response, err := app.Mediator.Send(ctx, &pricingQueries.ListPriceOverridesQuery{})
				if err != nil {
					return fmt.Errorf("failed to list prices: %w", err)
				}
				result, ok := response.(*pricingQueries.ListPriceOverridesResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result.Overrides)
				}
				if len(result.Overrides) == 0 {
					fmt.Fprintln(out, "No manual prices")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ITEM\tLEVEL\tASK\tBID")
				fmt.Fprintln(w, "----\t-----\t---\t---")
				for _, o := range result.Overrides {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", shortHrid(o.Hrid), o.Level, manualPriceText(o.Ask), manualPriceText(o.Bid))
				}
				w.Flush()

				if loadPreferences().OverridesDisabled {
					fmt.Fprintln(out, "\nManual prices are disabled; run 'idleprofit price enable' to apply them.")
				}
				return nil
			})
		},
	}
}

// newPriceToggleCommand creates the price enable or disable subcommand.
// The switch is stored in the user preferences and applied on every run.
func newPriceToggleCommand(enable bool) *cobra.Command {
	use, short := "disable", "Price everything at market, keeping manual prices stored"
	if enable {
		use, short = "enable", "Apply stored manual prices again"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.Update(func(prefs *config.UserConfig) { prefs.OverridesDisabled = !enable }); err != nil {
				return fmt.Errorf("failed to save preferences: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Manual prices %sd\n", use)
			return nil
		},
	}
}

func manualPriceText(p pricing.ManualPrice) string {
	if !p.Manual {
		return "market"
	}
	return formatAmount(p.Price)
}
