package gamedata

// Well-known item hrids
const (
	CoinHrid               = "/items/coin"
	CowbellHrid            = "/items/cowbell"
	BagOf10CowbellsHrid    = "/items/bag_of_10_cowbells"
	MirrorOfProtectionHrid = "/items/mirror_of_protection"
	EnhancingEssenceHrid   = "/items/enhancing_essence"
	AlchemyEssenceHrid     = "/items/alchemy_essence"
	PhilosophersStoneHrid  = "/items/philosophers_stone"
	PrimeCatalystHrid      = "/items/prime_catalyst"
	TransmuteCatalystHrid  = "/items/catalyst_of_transmutation"
	DecomposeCatalystHrid  = "/items/catalyst_of_decomposition"
	CoinifyCatalystHrid    = "/items/catalyst_of_coinification"
	SmallArtisansCrateHrid = "/items/small_artisans_crate"
	MediumArtisansCrate    = "/items/medium_artisans_crate"
	LargeArtisansCrateHrid = "/items/large_artisans_crate"
)

// Item categories
const (
	CategoryLoot      = "/item_categories/loot"
	CategoryEquipment = "/item_categories/equipment"
	CategoryDrink     = "/item_categories/drink"
	CategoryResource  = "/item_categories/resource"
)

// Equipment types
const (
	EquipmentCharm    = "/equipment_types/charm"
	EquipmentRing     = "/equipment_types/ring"
	EquipmentNeck     = "/equipment_types/neck"
	EquipmentEarrings = "/equipment_types/earrings"
)

// Fixed action hrids
const (
	TransmuteActionHrid = "/actions/alchemy/transmute"
	DecomposeActionHrid = "/actions/alchemy/decompose"
	CoinifyActionHrid   = "/actions/alchemy/coinify"
	EnhanceActionHrid   = "/actions/enhancing/enhance"
)

// Time units in nanoseconds, matching the unit of Action.BaseTimeCost
const (
	Second = 1e9
	Minute = 60 * Second
	Hour   = 60 * Minute
)

// MaxEnhanceLevel is the highest reachable enhancement level
const MaxEnhanceLevel = 20

// processingActionTypes are the action types whose single-input recipes turn a
// gathered resource into its processed form
var processingActionTypes = map[string]bool{
	"/action_types/cheesesmithing": true,
	"/action_types/crafting":       true,
	"/action_types/tailoring":      true,
}

// Buff types granted by drinks
const (
	BuffEfficiency  = "/buff_types/efficiency"
	BuffArtisan     = "/buff_types/artisan"
	BuffActionLevel = "/buff_types/action_level"
	BuffGourmet     = "/buff_types/gourmet"
	BuffBlessed     = "/buff_types/blessed"
	BuffActionSpeed = "/buff_types/action_speed"
	BuffGathering   = "/buff_types/gathering"
	BuffProcessing  = "/buff_types/processing"
	BuffWisdom      = "/buff_types/wisdom"
)

// SkillLevelBuff returns the buff type raising the level of an action type ("alchemy" -> "/buff_types/alchemy_level")
func SkillLevelBuff(actionType string) string {
	return "/buff_types/" + actionType + "_level"
}

// SkillSuccessBuff returns the buff type raising the success of an action type
func SkillSuccessBuff(actionType string) string {
	return "/buff_types/" + actionType + "_success"
}
