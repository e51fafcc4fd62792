package config

import (
	"fmt"

	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
)

// PlayerConfig describes the player whose production is being priced.
// Action types missing from Actions use a level 100 player with a level 4 house.
type PlayerConfig struct {
	DrinkConcentration float64                 `mapstructure:"drink_concentration" validate:"min=0"`
	Skilling           EquipmentConfig         `mapstructure:"skilling"`
	Actions            map[string]ActionConfig `mapstructure:"actions" validate:"dive,keys,oneof=milking foraging woodcutting cheesesmithing crafting tailoring cooking brewing alchemy enhancing,endkeys"`
}

// ActionConfig is the player's setup for one action type
type ActionConfig struct {
	PlayerLevel int             `mapstructure:"player_level" validate:"min=0"`
	HouseLevel  int             `mapstructure:"house_level" validate:"min=0,max=8"`
	Teas        []string        `mapstructure:"teas"`
	Equipment   EquipmentConfig `mapstructure:"equipment"`
}

// EquipmentConfig holds flat gear bonuses as fractions (0.1 = 10%)
type EquipmentConfig struct {
	Efficiency  float64 `mapstructure:"efficiency"`
	Speed       float64 `mapstructure:"speed"`
	Success     float64 `mapstructure:"success"`
	RareFind    float64 `mapstructure:"rare_find"`
	EssenceFind float64 `mapstructure:"essence_find"`
	Experience  float64 `mapstructure:"experience"`
}

func (e EquipmentConfig) toDomain() player.Equipment {
	return player.Equipment{
		Efficiency:  e.Efficiency,
		Speed:       e.Speed,
		Success:     e.Success,
		RareFind:    e.RareFind,
		EssenceFind: e.EssenceFind,
		Experience:  e.Experience,
	}
}

// Profile builds the domain player profile
func (p PlayerConfig) Profile() (*player.Profile, error) {
	actions := make(map[player.ActionType]player.ActionConfig, len(p.Actions))
	for name, cfg := range p.Actions {
		action, err := player.ParseActionType(name)
		if err != nil {
			return nil, fmt.Errorf("player.actions.%s: %w", name, err)
		}
		playerLevel := cfg.PlayerLevel
		if playerLevel == 0 {
			playerLevel = player.DefaultActionConfig().PlayerLevel
		}
		actions[action] = player.ActionConfig{
			PlayerLevel: playerLevel,
			HouseLevel:  cfg.HouseLevel,
			Teas:        cfg.Teas,
			Equipment:   cfg.Equipment.toDomain(),
		}
	}
	return player.NewProfile(actions, p.Skilling.toDomain(), p.DrinkConcentration)
}
