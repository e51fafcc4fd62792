package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default feed locations
const (
	DefaultGameDataURL = "https://raw.githubusercontent.com/silent1b/MWIData/main/init_client_info.json"
	DefaultMarketURL   = "https://raw.githubusercontent.com/holychikenz/MWIApi/main/milkyapi.json"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults: a local sqlite file so the CLI works without a server
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = defaultSQLitePath()
	}
	if cfg.Database.Type == "postgres" {
		if cfg.Database.Host == "" {
			cfg.Database.Host = "localhost"
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
		if cfg.Database.User == "" {
			cfg.Database.User = "idleprofit"
		}
		if cfg.Database.Name == "" {
			cfg.Database.Name = "idleprofit"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Feed defaults
	if cfg.Feeds.GameDataURL == "" {
		cfg.Feeds.GameDataURL = DefaultGameDataURL
	}
	if cfg.Feeds.MarketURL == "" {
		cfg.Feeds.MarketURL = DefaultMarketURL
	}
	if cfg.Feeds.Timeout == 0 {
		cfg.Feeds.Timeout = 60 * time.Second
	}
	if cfg.Feeds.RateLimit.Requests == 0 {
		cfg.Feeds.RateLimit.Requests = 1
	}
	if cfg.Feeds.RateLimit.Burst == 0 {
		cfg.Feeds.RateLimit.Burst = 2
	}
	if cfg.Feeds.Retry.MaxAttempts == 0 {
		cfg.Feeds.Retry.MaxAttempts = 3
	}
	if cfg.Feeds.Retry.BackoffBase == 0 {
		cfg.Feeds.Retry.BackoffBase = 2 * time.Second
	}
	if cfg.Feeds.Breaker.Failures == 0 {
		cfg.Feeds.Breaker.Failures = 5
	}
	if cfg.Feeds.Breaker.CoolDown == 0 {
		cfg.Feeds.Breaker.CoolDown = time.Minute
	}
	if cfg.Feeds.RefreshInterval == 0 {
		cfg.Feeds.RefreshInterval = 30 * time.Minute
	}
	if cfg.Feeds.MaxMarketAge == 0 {
		cfg.Feeds.MaxMarketAge = 6 * time.Hour
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Server defaults
	if cfg.Server.GRPCAddress == "" {
		cfg.Server.GRPCAddress = "localhost:50061"
	}
	if cfg.Server.PIDFile == "" {
		cfg.Server.PIDFile = filepath.Join(os.TempDir(), "idleprofit.pid")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// Leaderboard defaults
	if cfg.Leaderboard.CacheSize == 0 {
		cfg.Leaderboard.CacheSize = 16
	}
	if cfg.Leaderboard.PageSize == 0 {
		cfg.Leaderboard.PageSize = 20
	}
}

func defaultSQLitePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "idleprofit", "idleprofit.db")
	}
	return "idleprofit.db"
}
