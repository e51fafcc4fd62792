package player

import (
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

// ActionType is a skill whose actions can be profiled
type ActionType string

const (
	Milking        ActionType = "milking"
	Foraging       ActionType = "foraging"
	Woodcutting    ActionType = "woodcutting"
	Cheesesmithing ActionType = "cheesesmithing"
	Crafting       ActionType = "crafting"
	Tailoring      ActionType = "tailoring"
	Cooking        ActionType = "cooking"
	Brewing        ActionType = "brewing"
	Alchemy        ActionType = "alchemy"
	Enhancing      ActionType = "enhancing"
)

// AllActionTypes lists every action type in display order
var AllActionTypes = []ActionType{
	Milking, Foraging, Woodcutting, Cheesesmithing, Crafting,
	Tailoring, Cooking, Brewing, Alchemy, Enhancing,
}

// ParseActionType validates an action type name
func ParseActionType(name string) (ActionType, error) {
	for _, action := range AllActionTypes {
		if string(action) == name {
			return action, nil
		}
	}
	return "", ErrUnknownActionType
}

// Equipment holds the flat bonuses granted by gear
type Equipment struct {
	Efficiency  float64 `json:"efficiency"`
	Speed       float64 `json:"speed"`
	Success     float64 `json:"success"`
	RareFind    float64 `json:"rareFind"`
	EssenceFind float64 `json:"essenceFind"`
	Experience  float64 `json:"experience"`
}

func (e Equipment) add(other Equipment) Equipment {
	return Equipment{
		Efficiency:  e.Efficiency + other.Efficiency,
		Speed:       e.Speed + other.Speed,
		Success:     e.Success + other.Success,
		RareFind:    e.RareFind + other.RareFind,
		EssenceFind: e.EssenceFind + other.EssenceFind,
		Experience:  e.Experience + other.Experience,
	}
}

// ActionConfig is the player's setup for one action type
type ActionConfig struct {
	PlayerLevel int       `json:"playerLevel"`
	HouseLevel  int       `json:"houseLevel"`
	Teas        []string  `json:"teas"`
	Equipment   Equipment `json:"equipment"`
}

// Profile is an immutable snapshot of the player's levels, gear, houses and drinks.
// Skilling bonuses apply to every action type.
type Profile struct {
	actions            map[ActionType]ActionConfig
	skilling           Equipment
	drinkConcentration float64
}

// NewProfile creates a profile; action types missing from actions fall back to DefaultActionConfig
func NewProfile(actions map[ActionType]ActionConfig, skilling Equipment, drinkConcentration float64) (*Profile, error) {
	if drinkConcentration < 0 {
		return nil, ErrInvalidDrinkConcentration
	}

	copied := make(map[ActionType]ActionConfig, len(AllActionTypes))
	for _, action := range AllActionTypes {
		cfg, ok := actions[action]
		if !ok {
			cfg = DefaultActionConfig()
		}
		if cfg.PlayerLevel < 0 || cfg.HouseLevel < 0 {
			return nil, ErrInvalidLevel
		}
		cfg.Teas = append([]string(nil), cfg.Teas...)
		copied[action] = cfg
	}

	return &Profile{
		actions:            copied,
		skilling:           skilling,
		drinkConcentration: drinkConcentration,
	}, nil
}

// DefaultActionConfig is a level 100 player with a level 4 house, no drinks and no gear
func DefaultActionConfig() ActionConfig {
	return ActionConfig{PlayerLevel: 100, HouseLevel: 4}
}

// DefaultProfile returns a profile using DefaultActionConfig for every action type
func DefaultProfile() *Profile {
	profile, _ := NewProfile(nil, Equipment{}, 0)
	return profile
}

// ActionConfig returns a copy of the setup for one action type
func (p *Profile) ActionConfig(action ActionType) ActionConfig {
	cfg, ok := p.actions[action]
	if !ok {
		return DefaultActionConfig()
	}
	cfg.Teas = append([]string(nil), cfg.Teas...)
	return cfg
}

func (p *Profile) DrinkConcentration() float64 {
	return p.drinkConcentration
}

func (p *Profile) Skilling() Equipment {
	return p.skilling
}

// WithActionConfig returns a copy of the profile with one action type replaced
func (p *Profile) WithActionConfig(action ActionType, cfg ActionConfig) *Profile {
	actions := make(map[ActionType]ActionConfig, len(p.actions))
	for k, v := range p.actions {
		actions[k] = v
	}
	actions[action] = cfg
	out, err := NewProfile(actions, p.skilling, p.drinkConcentration)
	if err != nil {
		return p
	}
	return out
}

// Buffs resolves the effective bonuses for one action type.
// Drinks not usable in the action type are ignored.
func (p *Profile) Buffs(action ActionType, catalog gamedata.Catalog) Buffs {
	cfg := p.ActionConfig(action)
	gear := cfg.Equipment.add(p.skilling)

	buffs := Buffs{
		PlayerLevel: float64(cfg.PlayerLevel),
		Efficiency:  gear.Efficiency,
		Speed:       gear.Speed,
		Success:     gear.Success,
		RareFind:    gear.RareFind,
		EssenceFind: gear.EssenceFind,
		Experience:  gear.Experience,
	}
	house := houseBonus(action)
	level := float64(cfg.HouseLevel)
	buffs.Efficiency += house.Efficiency * level
	buffs.Speed += house.Speed * level
	buffs.Success += house.Success * level
	buffs.RareFind += house.RareFind * level
	buffs.Experience += house.Experience * level

	concentration := 1 + p.drinkConcentration
	for _, hrid := range cfg.Teas {
		tea, ok := catalog.Item(hrid)
		if !ok || !tea.UsableIn(string(action)) {
			continue
		}
		buffs.Teas = append(buffs.Teas, hrid)
		for _, buff := range tea.ConsumableDetail.Buffs {
			switch buff.TypeHrid {
			case gamedata.SkillLevelBuff(string(action)):
				buffs.PlayerLevel += buff.FlatBoost * concentration
			case gamedata.BuffActionLevel:
				buffs.PlayerLevel -= buff.FlatBoost
			case gamedata.BuffEfficiency:
				buffs.Efficiency += buff.FlatBoost * concentration
			case gamedata.BuffArtisan:
				buffs.Artisan += buff.FlatBoost * concentration
			case gamedata.BuffGourmet:
				buffs.Gourmet += buff.FlatBoost * concentration
			case gamedata.SkillSuccessBuff(string(action)):
				buffs.Success += buff.RatioBoost * concentration
			case gamedata.BuffBlessed:
				buffs.Blessed += buff.FlatBoost * concentration
			case gamedata.BuffActionSpeed:
				buffs.Speed += buff.FlatBoost * concentration
			case gamedata.BuffGathering:
				buffs.Gathering += buff.FlatBoost * concentration
			case gamedata.BuffProcessing:
				buffs.Processing += buff.FlatBoost * concentration
			case gamedata.BuffWisdom:
				buffs.Experience += buff.FlatBoost * concentration
			}
		}
	}
	buffs.DrinkConcentration = p.drinkConcentration
	return buffs
}

// house bonuses per house level
func houseBonus(action ActionType) Equipment {
	if action == Enhancing {
		return Equipment{Speed: 0.01, Success: 0.0005, Experience: 0.0005, RareFind: 0.002}
	}
	return Equipment{Efficiency: 0.015, Experience: 0.0005, RareFind: 0.002}
}
