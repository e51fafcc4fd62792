package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
database:
  type: sqlite
  path: ":memory:"
feeds:
  refresh_interval: 5m
leaderboard:
  page_size: 50
player:
  drink_concentration: 0.1
  actions:
    cheesesmithing:
      player_level: 80
      house_level: 3
      teas: ["/items/artisan_tea"]
      equipment:
        speed: 0.2
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 5*time.Minute, cfg.Feeds.RefreshInterval)
	assert.Equal(t, config.DefaultMarketURL, cfg.Feeds.MarketURL)
	assert.Equal(t, 50, cfg.Leaderboard.PageSize)
	assert.Equal(t, 16, cfg.Leaderboard.CacheSize)
	assert.Equal(t, "info", cfg.Logging.Level)

	profile, err := cfg.Player.Profile()
	require.NoError(t, err)
	smithing := profile.ActionConfig(player.Cheesesmithing)
	assert.Equal(t, 80, smithing.PlayerLevel)
	assert.Equal(t, 3, smithing.HouseLevel)
	assert.Equal(t, []string{"/items/artisan_tea"}, smithing.Teas)
	assert.Equal(t, 0.2, smithing.Equipment.Speed)
	assert.Equal(t, player.DefaultActionConfig(), profile.ActionConfig(player.Milking))
	assert.Equal(t, 0.1, profile.DrinkConcentration())
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "leaderboard:\n  page_size: 50\n")
	t.Setenv("IP_LEADERBOARD_PAGE_SIZE", "75")
	t.Setenv("IP_LOGGING_LEVEL", "debug")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 75, cfg.Leaderboard.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "database type", body: "database:\n  type: mysql\n"},
		{name: "log level", body: "logging:\n  level: loud\n"},
		{name: "unknown action type", body: "player:\n  actions:\n    fishing:\n      player_level: 10\n"},
		{name: "negative drink concentration", body: "player:\n  drink_concentration: -1\n"},
		{name: "prewarm kind", body: "server:\n  prewarm: [fishing]\n"},
		{name: "grpc address without port", body: "server:\n  grpc_address: localhost\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))

			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadConfig_NamesFailuresByConfigKey(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "server:\n  grpc_address: localhost\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.grpc_address: failed listen_addr")
}

func TestLoadConfigOrDefault_FallsBackOnError(t *testing.T) {
	cfg := config.LoadConfigOrDefault(writeConfig(t, "database:\n  type: mysql\n"))

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, config.DefaultGameDataURL, cfg.Feeds.GameDataURL)
}

func TestUserConfigHandler_RoundTrip(t *testing.T) {
	handler := config.NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "nested", "preferences.json"))

	empty, err := handler.Load()
	require.NoError(t, err)
	assert.Equal(t, &config.UserConfig{}, empty)

	require.NoError(t, handler.Update(func(c *config.UserConfig) {
		c.DefaultKind = "enhance"
		c.PageSize = 10
	}))
	loaded, err := handler.Load()
	require.NoError(t, err)
	assert.Equal(t, &config.UserConfig{DefaultKind: "enhance", PageSize: 10}, loaded)
}
