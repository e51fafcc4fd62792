package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	calculationQueries "github.com/andrescamacho/idleprofit-go/internal/application/calculation/queries"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

// NewCalcCommand creates the calc command
func NewCalcCommand(load AppLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <kind:item[,option=value...]>",
		Short: "Price a single production action",
		Long: `Price one action against the current market and print its hourly economics
with every ingredient and product.

Kinds: transmute, decompose, coinify, manufacture, gather, enhance
Options: action, project, catalyst, target, protect, origin, escape

Examples:
  idleprofit calc coinify:holy_cheese
  idleprofit calc transmute:milk,catalyst=1
  idleprofit calc manufacture:cheese,action=cheesesmithing
  idleprofit calc enhance:cheese_sword,target=5,protect=3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseStage(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				response, err := app.Mediator.Send(ctx, &calculationQueries.CalculateQuery{Config: cfg})
				if err != nil {
					return fmt.Errorf("failed to calculate: %w", err)
				}
				result, ok := response.(*calculationQueries.CalculationResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result)
				}
				printCalculation(out, result, nil)
				return nil
			})
		},
	}

	return cmd
}

// NewEnhanceCommand creates the enhance command
func NewEnhanceCommand(load AppLoader) *cobra.Command {
	var (
		target  int
		protect int
		origin  int
		escape  int
	)

	cmd := &cobra.Command{
		Use:   "enhance <item>",
		Short: "Price an enhancement chain",
		Long: `Solve the expected attempts, protections and escapes needed to take an item
from --origin to --target and price the whole chain per hour.

Protection is used from --protect upwards. With --escape set, a failed
protected attempt that would land below the escape level is sold instead.

Examples:
  idleprofit enhance cheese_sword --target 5 --protect 3
  idleprofit enhance verdant_cheese_sword --target 10 --protect 6 --origin 4 --escape 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := &calculationQueries.EnhanceQuery{
				Hrid:    normalizeHrid(args[0]),
				Target:  target,
				Protect: protect,
				Origin:  origin,
			}
			if cmd.Flags().Changed("escape") {
				query.Escape = &escape
			}

			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				response, err := app.Mediator.Send(ctx, query)
				if err != nil {
					return fmt.Errorf("failed to price enhancement: %w", err)
				}
				result, ok := response.(*calculationQueries.EnhanceResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, newEnhanceView(result))
				}
				printEnhancement(out, result)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&target, "target", 5, "Target enhancement level")
	cmd.Flags().IntVar(&protect, "protect", 2, "First level protected on failure")
	cmd.Flags().IntVar(&origin, "origin", 0, "Starting enhancement level")
	cmd.Flags().IntVar(&escape, "escape", calculator.NoEscape, "Escape level (disabled when not set)")

	return cmd
}

// NewWorkflowCommand creates the workflow command
func NewWorkflowCommand(load AppLoader) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "workflow <stage> [stage...]",
		Short: "Price a chain of actions feeding each other",
		Long: `Chain actions so that each stage consumes the product of the previous one.
Stages are scaled so that every intermediate product is used up; the
workflow reports the netted hourly economics of the whole chain.

Each stage uses the calc syntax: kind:item[,option=value...]

Examples:
  idleprofit workflow gather:milk manufacture:cheese
  idleprofit workflow manufacture:cheese_sword enhance:cheese_sword,target=5,protect=3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := parseStages(args)
			if err != nil {
				return err
			}

			return withApp(cmd, load, AppOptions{}, func(ctx context.Context, app *App) error {
				response, err := app.Mediator.Send(ctx, &calculationQueries.WorkflowQuery{Stages: stages, Project: project})
				if err != nil {
					return fmt.Errorf("failed to calculate workflow: %w", err)
				}
				result, ok := response.(*calculationQueries.WorkflowResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return writeJSON(out, result)
				}
				printCalculation(out, &result.CalculationResponse, result.Stages)
				if len(result.Multipliers) > 0 {
					fmt.Fprintf(out, "\nStage multipliers: %v\n", result.Multipliers)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Display name of the workflow")

	return cmd
}

func printCalculation(out io.Writer, result *calculationQueries.CalculationResponse, stages []calculator.Result) {
	r := result.Result
	fmt.Fprintf(out, "\n=== %s (%s) ===\n", r.Name, r.Project)
	if !r.Available {
		fmt.Fprintln(out, "Not available: the item cannot be produced this way or a price is missing")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Profit/h:\t%s\n", formatAmount(r.ProfitPH))
	fmt.Fprintf(w, "Profit/day:\t%s\n", formatAmount(r.ProfitPerDay()))
	fmt.Fprintf(w, "Profit rate:\t%s\n", formatPercent(r.ProfitRate))
	fmt.Fprintf(w, "Profit/action:\t%s\n", formatAmount(r.ProfitPerAction))
	fmt.Fprintf(w, "Cost/h:\t%s\n", formatAmount(r.CostPH))
	fmt.Fprintf(w, "Income/h:\t%s\n", formatAmount(r.IncomePH))
	fmt.Fprintf(w, "Actions/h:\t%s\n", formatAmount(r.ActionsPH))
	fmt.Fprintf(w, "Time/action:\t%.2fs\n", r.TimeCost/gamedata.Second)
	fmt.Fprintf(w, "Success rate:\t%s\n", formatPercent(r.SuccessRate))
	fmt.Fprintf(w, "Efficiency:\t%s\n", formatPercent(r.Efficiency))
	w.Flush()

	fmt.Fprintln(out)
	breakdown := NewBreakdown(r, result.Ingredients, result.Products, stages)
	fmt.Fprint(out, NewTreeFormatter(false).FormatTree(breakdown))
	if r.HasManualPrice {
		fmt.Fprintln(out, "\n* manual price")
	}
}

func printEnhancement(out io.Writer, result *calculationQueries.EnhanceResponse) {
	printCalculation(out, &result.CalculationResponse, nil)

	e := result.Enhancement
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Expected attempts:\t%.2f\n", e.Actions)
	fmt.Fprintf(w, "Expected protections:\t%.2f\n", e.Protects)
	fmt.Fprintf(w, "Expected escapes:\t%.2f\n", e.Escapes())
	fmt.Fprintf(w, "Protection cost/h:\t%s\n", formatAmount(result.ProtectionCostPH))
	fmt.Fprintf(w, "Escape income/h:\t%s\n", formatAmount(result.EscapeIncomePH))
	fmt.Fprintf(w, "Max profit (approx.):\t%s\n", formatAmount(result.MaxProfitApproximate))
	fmt.Fprintf(w, "Risk:\t%s\n", formatRisk(result.Risk))
	w.Flush()
}

// enhanceView is the JSON shape of an enhancement; infinite risk is encoded as null
type enhanceView struct {
	*calculationQueries.CalculationResponse
	Enhancement          calculator.Enhancement `json:"enhancement"`
	MaxProfitApproximate float64                `json:"maxProfitApproximate"`
	ProtectionCostPH     float64                `json:"protectionCostPH"`
	EscapeIncomePH       float64                `json:"escapeIncomePH"`
	Risk                 *float64               `json:"risk"`
}

func newEnhanceView(result *calculationQueries.EnhanceResponse) enhanceView {
	view := enhanceView{
		CalculationResponse:  &result.CalculationResponse,
		Enhancement:          result.Enhancement,
		MaxProfitApproximate: result.MaxProfitApproximate,
		ProtectionCostPH:     result.ProtectionCostPH,
		EscapeIncomePH:       result.EscapeIncomePH,
	}
	if !math.IsInf(result.Risk, 0) && !math.IsNaN(result.Risk) {
		risk := result.Risk
		view.Risk = &risk
	}
	return view
}
