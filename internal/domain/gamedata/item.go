package gamedata

import "strings"

// ItemCount is an (item, quantity) pair used by recipes, costs and shop prices
type ItemCount struct {
	ItemHrid string  `json:"itemHrid"`
	Count    float64 `json:"count"`
}

// DropTableItem is one entry of a drop table
type DropTableItem struct {
	ItemHrid string  `json:"itemHrid"`
	DropRate float64 `json:"dropRate"`
	MinCount float64 `json:"minCount"`
	MaxCount float64 `json:"maxCount"`
}

// AverageCount returns the expected quantity when the entry drops
func (d DropTableItem) AverageCount() float64 {
	return (d.MinCount + d.MaxCount) / 2
}

// AlchemyDetail describes how an item behaves under transmute, decompose and coinify
type AlchemyDetail struct {
	BulkMultiplier       float64         `json:"bulkMultiplier"`
	IsCoinifiable        bool            `json:"isCoinifiable"`
	DecomposeItems       []ItemCount     `json:"decomposeItems"`
	TransmuteSuccessRate float64         `json:"transmuteSuccessRate"`
	TransmuteDropTable   []DropTableItem `json:"transmuteDropTable"`
}

// EquipmentDetail classifies wearable items
type EquipmentDetail struct {
	Type string `json:"type"`
}

// Buff is one effect granted by a consumable
type Buff struct {
	TypeHrid   string  `json:"typeHrid"`
	FlatBoost  float64 `json:"flatBoost"`
	RatioBoost float64 `json:"ratioBoost"`
}

// ConsumableDetail lists which action types a drink can be used in and what it grants
type ConsumableDetail struct {
	UsableInActionTypeMap map[string]bool `json:"usableInActionTypeMap"`
	Buffs                 []Buff          `json:"buffs"`
}

// Item is immutable reference data for one item
type Item struct {
	Hrid                string            `json:"hrid"`
	Name                string            `json:"name"`
	CategoryHrid        string            `json:"categoryHrid"`
	SellPrice           float64           `json:"sellPrice"`
	IsTradable          bool              `json:"isTradable"`
	ItemLevel           int               `json:"itemLevel"`
	EnhancementCosts    []ItemCount       `json:"enhancementCosts"`
	ProtectionItemHrids []string          `json:"protectionItemHrids"`
	AlchemyDetail       *AlchemyDetail    `json:"alchemyDetail"`
	EquipmentDetail     *EquipmentDetail  `json:"equipmentDetail"`
	ConsumableDetail    *ConsumableDetail `json:"consumableDetail"`
	SortIndex           int               `json:"sortIndex"`
}

// Key returns the last path segment of the hrid ("/items/cheese" -> "cheese")
func (i *Item) Key() string {
	return Key(i.Hrid)
}

// IsEquipment reports whether the item belongs to the equipment category
func (i *Item) IsEquipment() bool {
	return i.CategoryHrid == CategoryEquipment
}

// EquipmentType returns the equipment type hrid, or "" for non-equipment
func (i *Item) EquipmentType() string {
	if i.EquipmentDetail == nil {
		return ""
	}
	return i.EquipmentDetail.Type
}

// IsJewelry reports whether the item is a ring, necklace or earring
func (i *Item) IsJewelry() bool {
	switch i.EquipmentType() {
	case EquipmentRing, EquipmentNeck, EquipmentEarrings:
		return true
	}
	return false
}

// IsCharm reports whether the item is a charm
func (i *Item) IsCharm() bool {
	return i.EquipmentType() == EquipmentCharm
}

// IsRefined reports whether the item is a refined variant that keeps its level when upgraded
func (i *Item) IsRefined() bool {
	return strings.HasSuffix(i.Hrid, "_refined")
}

// IsEnhanceable reports whether the item declares an enhancement cost table
func (i *Item) IsEnhanceable() bool {
	return len(i.EnhancementCosts) > 0
}

// UsableIn reports whether a drink can be consumed while performing the action type
func (i *Item) UsableIn(actionType string) bool {
	if i.ConsumableDetail == nil {
		return false
	}
	return i.ConsumableDetail.UsableInActionTypeMap[ActionTypeHrid(actionType)]
}

// Key returns the last path segment of an hrid
func Key(hrid string) string {
	if idx := strings.LastIndex(hrid, "/"); idx >= 0 {
		return hrid[idx+1:]
	}
	return hrid
}

// ItemHrid builds an item hrid from its key
func ItemHrid(key string) string {
	return "/items/" + key
}

// ActionHrid builds an action hrid from an action type and a key
func ActionHrid(actionType, key string) string {
	return "/actions/" + actionType + "/" + key
}

// ActionTypeHrid builds an action type hrid ("alchemy" -> "/action_types/alchemy")
func ActionTypeHrid(actionType string) string {
	return "/action_types/" + actionType
}
