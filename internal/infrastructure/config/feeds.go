package config

import "time"

// FeedsConfig holds the reference feed client configuration
type FeedsConfig struct {
	// Game-rules (items, actions, shop, loot) feed
	GameDataURL string `mapstructure:"game_data_url" validate:"required,url"`

	// Market quotes feed
	MarketURL string `mapstructure:"market_url" validate:"required,url"`

	// Request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`

	// How often `serve` refreshes both feeds
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"required"`

	// Market snapshots older than this are reported stale
	MaxMarketAge time.Duration `mapstructure:"max_market_age"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests float64 `mapstructure:"requests" validate:"gt=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// BreakerConfig holds circuit breaker configuration
type BreakerConfig struct {
	// Consecutive failures before the circuit opens
	Failures int `mapstructure:"failures" validate:"min=1"`

	// Time the circuit stays open before a probe
	CoolDown time.Duration `mapstructure:"cool_down"`
}
