package config

// LeaderboardConfig holds leaderboard sweep and paging configuration
type LeaderboardConfig struct {
	// Number of swept leaderboards kept in the LRU cache
	CacheSize int `mapstructure:"cache_size" validate:"min=1"`

	// Default rows per page
	PageSize int `mapstructure:"page_size" validate:"min=1,max=1000"`
}
