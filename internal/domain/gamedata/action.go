package gamedata

// LevelRequirement is the skill level needed to perform an action
type LevelRequirement struct {
	SkillHrid string `json:"skillHrid"`
	Level     int    `json:"level"`
}

// Action is immutable reference data for one action definition.
// BaseTimeCost is expressed in nanoseconds.
type Action struct {
	Hrid             string           `json:"hrid"`
	Function         string           `json:"function"`
	Type             string           `json:"type"`
	Category         string           `json:"category"`
	Name             string           `json:"name"`
	LevelRequirement LevelRequirement `json:"levelRequirement"`
	BaseTimeCost     float64          `json:"baseTimeCost"`
	DropTable        []DropTableItem  `json:"dropTable"`
	EssenceDropTable []DropTableItem  `json:"essenceDropTable"`
	RareDropTable    []DropTableItem  `json:"rareDropTable"`
	UpgradeItemHrid  string           `json:"upgradeItemHrid"`
	InputItems       []ItemCount      `json:"inputItems"`
	OutputItems      []ItemCount      `json:"outputItems"`
}

// ShopItem is an item purchasable from the in-game shop
type ShopItem struct {
	Hrid      string      `json:"hrid"`
	Category  string      `json:"category"`
	ItemHrid  string      `json:"itemHrid"`
	Costs     []ItemCount `json:"costs"`
	SortIndex int         `json:"sortIndex"`
}

// CoinCost returns the shop price in coins when the first cost is paid in coins
func (s *ShopItem) CoinCost() (float64, bool) {
	if len(s.Costs) == 0 || s.Costs[0].ItemHrid != CoinHrid {
		return 0, false
	}
	return s.Costs[0].Count, true
}
