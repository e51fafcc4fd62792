package cli

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage IdleProfit configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (IP_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences are stored in ~/.idleprofit/preferences.json

Examples:
  idleprofit config show
  idleprofit config set --default-kind enhance --page-size 50
  idleprofit config set --offline-mode=true
  idleprofit config reset`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigResetCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.DefaultConfig()
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			if jsonOutput {
				masked := *cfg
				masked.Database.URL = maskPassword(masked.Database.URL)
				if masked.Database.Password != "" {
					masked.Database.Password = "****"
				}
				return writeJSON(out, map[string]interface{}{"config": masked, "preferences": userCfg})
			}
			printConfig(out, cfg, userCfg, userConfigHandler.GetConfigPath())
			return nil
		},
	}
}

func printConfig(out io.Writer, cfg *config.Config, userCfg *config.UserConfig, prefsPath string) {
	fmt.Fprintln(out, "IdleProfit Configuration")
	fmt.Fprintln(out, "========================")

	fmt.Fprintln(out, "User Preferences:")
	fmt.Fprintf(out, "  Config file:      %s\n", prefsPath)
	fmt.Fprintf(out, "  Default board:    %s\n", valueOrUnset(userCfg.DefaultKind))
	if userCfg.PageSize > 0 {
		fmt.Fprintf(out, "  Page size:        %d\n", userCfg.PageSize)
	} else {
		fmt.Fprintf(out, "  Page size:        (not set)\n")
	}
	fmt.Fprintf(out, "  Offline:          %t\n", userCfg.Offline)
	fmt.Fprintf(out, "  Manual prices:    %s\n", enabledText(!userCfg.OverridesDisabled))

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}

	fmt.Fprintln(out, "\nFeeds:")
	fmt.Fprintf(out, "  Game data:        %s\n", cfg.Feeds.GameDataURL)
	fmt.Fprintf(out, "  Market:           %s\n", cfg.Feeds.MarketURL)
	fmt.Fprintf(out, "  Timeout:          %s\n", cfg.Feeds.Timeout)
	fmt.Fprintf(out, "  Rate Limit:       %.2f req/s (burst: %d)\n", cfg.Feeds.RateLimit.Requests, cfg.Feeds.RateLimit.Burst)
	fmt.Fprintf(out, "  Max Retries:      %d\n", cfg.Feeds.Retry.MaxAttempts)
	fmt.Fprintf(out, "  Refresh:          every %s\n", cfg.Feeds.RefreshInterval)
	fmt.Fprintf(out, "  Market max age:   %s\n", cfg.Feeds.MaxMarketAge)

	fmt.Fprintln(out, "\nPlayer:")
	fmt.Fprintf(out, "  Drink conc.:      %s\n", formatPercent(cfg.Player.DrinkConcentration))
	actions := make([]string, 0, len(cfg.Player.Actions))
	for name := range cfg.Player.Actions {
		actions = append(actions, name)
	}
	sort.Strings(actions)
	if len(actions) == 0 {
		fmt.Fprintln(out, "  Actions:          defaults (level 100, house 4)")
	}
	for _, name := range actions {
		action := cfg.Player.Actions[name]
		fmt.Fprintf(out, "  %-17s level %d, house %d, teas [%s]\n",
			name+":", action.PlayerLevel, action.HouseLevel, strings.Join(action.Teas, ", "))
	}

	fmt.Fprintln(out, "\nServer:")
	fmt.Fprintf(out, "  gRPC health:      %s\n", cfg.Server.GRPCAddress)
	fmt.Fprintf(out, "  Prewarm:          %s\n", valueOrUnset(strings.Join(cfg.Server.Prewarm, ", ")))
	fmt.Fprintf(out, "  Metrics:          %s\n", enabledText(cfg.Metrics.Enabled))

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
}

// newConfigSetCommand creates the config set subcommand
func newConfigSetCommand() *cobra.Command {
	var (
		defaultKind string
		pageSize    int
		offlineMode bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update user preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("default-kind") && !flags.Changed("page-size") && !flags.Changed("offline-mode") {
				return fmt.Errorf("nothing to set: use --default-kind, --page-size or --offline-mode")
			}
			if flags.Changed("default-kind") {
				if _, err := services.ParseSweepKind(defaultKind); err != nil {
					return err
				}
			}
			if flags.Changed("page-size") && pageSize < 1 {
				return fmt.Errorf("--page-size must be at least 1")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			err = userConfigHandler.Update(func(prefs *config.UserConfig) {
				if flags.Changed("default-kind") {
					prefs.DefaultKind = defaultKind
				}
				if flags.Changed("page-size") {
					prefs.PageSize = pageSize
				}
				if flags.Changed("offline-mode") {
					prefs.Offline = offlineMode
				}
			})
			if err != nil {
				return fmt.Errorf("failed to save preferences: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Preferences saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultKind, "default-kind", "", "Leaderboard shown when none is named")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per leaderboard page")
	cmd.Flags().BoolVar(&offlineMode, "offline-mode", false, "Always use stored snapshots")

	return cmd
}

// newConfigResetCommand creates the config reset subcommand
func newConfigResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every user preference",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.Save(&config.UserConfig{}); err != nil {
				return fmt.Errorf("failed to reset preferences: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Preferences cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func enabledText(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
