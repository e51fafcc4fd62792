package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents CLI preferences stored in ~/.idleprofit/preferences.json
type UserConfig struct {
	// Leaderboard shown when `leaderboard` runs without a kind
	DefaultKind string `json:"default_kind,omitempty"`

	// Rows per page when --size is not given
	PageSize int `json:"page_size,omitempty"`

	// Work from stored snapshots without touching the network
	Offline bool `json:"offline,omitempty"`

	// Keep manual prices stored but price everything at market
	OverridesDisabled bool `json:"overrides_disabled,omitempty"`
}

// UserConfigHandler manages loading and saving user preferences
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the preferences file in the home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".idleprofit", "preferences.json")), nil
}

// NewUserConfigHandlerAt creates a handler for an explicit preferences file
func NewUserConfigHandlerAt(path string) *UserConfigHandler {
	return &UserConfigHandler{configPath: path}
}

// Load reads the preferences, returning empty preferences when the file is missing
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &config, nil
}

// Save writes the preferences to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// Update loads, modifies and saves the preferences
func (h *UserConfigHandler) Update(fn func(*UserConfig)) error {
	config, err := h.Load()
	if err != nil {
		return err
	}
	fn(config)
	return h.Save(config)
}

// GetConfigPath returns the path to the preferences file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
