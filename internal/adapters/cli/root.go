package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	offline    bool
	verbose    bool
	jsonOutput bool
)

// AppLoader builds the application a command runs against
type AppLoader func(ctx context.Context, opts AppOptions) (*App, error)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithLoader(loadApp)
}

// NewRootCommandWithLoader creates the root command with a custom application loader
func NewRootCommandWithLoader(load AppLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idleprofit",
		Short: "IdleProfit CLI - Rank the hourly profit of idle-game production",
		Long: `IdleProfit prices every production action of the game against the live
market: alchemy, manufacturing, gathering, enhancement and chained workflows.

Game data and market quotes are downloaded on demand and stored locally, so
every command also works offline from the last successful download.

Examples:
  idleprofit leaderboard alchemy --min-profit-rate 5
  idleprofit calc coinify:holy_cheese
  idleprofit enhance cheese_sword --target 5 --protect 3
  idleprofit workflow gather:milk manufacture:cheese
  idleprofit price set cheese --ask 20
  idleprofit favorite list
  idleprofit data status`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false,
		"Use stored snapshots without contacting the feeds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON")

	// Add command groups
	rootCmd.AddCommand(NewLeaderboardCommand(load))
	rootCmd.AddCommand(NewCalcCommand(load))
	rootCmd.AddCommand(NewEnhanceCommand(load))
	rootCmd.AddCommand(NewWorkflowCommand(load))
	rootCmd.AddCommand(NewPriceCommand(load))
	rootCmd.AddCommand(NewFavoriteCommand(load))
	rootCmd.AddCommand(NewDataCommand(load))
	rootCmd.AddCommand(NewItemCommand(load))
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// loadApp loads the configuration and user preferences, then wires the application
func loadApp(ctx context.Context, opts AppOptions) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	prefs := loadPreferences()
	opts.Offline = opts.Offline || offline || prefs.Offline
	opts.OverridesDisabled = prefs.OverridesDisabled
	return NewApp(ctx, cfg, opts)
}

// withApp runs fn against a freshly loaded application and closes it afterwards
func withApp(cmd *cobra.Command, load AppLoader, opts AppOptions, fn func(ctx context.Context, app *App) error) error {
	app, err := load(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app.Context(cmd.Context()), app)
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
