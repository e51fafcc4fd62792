package helpers

import (
	"testing"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
)

// FixtureTime is the update time stamped on fixture market snapshots
var FixtureTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Fixture item hrids
const (
	MilkHrid               = "/items/milk"
	CheeseHrid             = "/items/cheese"
	LogHrid                = "/items/log"
	LumberHrid             = "/items/lumber"
	CheeseSwordHrid        = "/items/cheese_sword"
	VerdantCheeseSwordHrid = "/items/verdant_cheese_sword"
	HolyCheeseHrid         = "/items/holy_cheese"
	BlueberryHrid          = "/items/blueberry"
	BlackberryHrid         = "/items/blackberry"
	CheeseRingHrid         = "/items/cheese_ring"
	LuckyCharmHrid         = "/items/lucky_charm"
	BrushHrid              = "/items/brush"
	UnpricedHrid           = "/items/moonstone"
	EfficiencyTeaHrid      = "/items/efficiency_tea"
	CatalyticTeaHrid       = "/items/catalytic_tea"
	ArtisanTeaHrid         = "/items/artisan_tea"
	GourmetTeaHrid         = "/items/gourmet_tea"
	BlessedTeaHrid         = "/items/blessed_tea"
	GatheringTeaHrid       = "/items/gathering_tea"
	ProcessingTeaHrid      = "/items/processing_tea"
)

func item(hrid, name, category string, level int, sell float64, sortIndex int) gamedata.Item {
	return gamedata.Item{
		Hrid:         hrid,
		Name:         name,
		CategoryHrid: category,
		ItemLevel:    level,
		SellPrice:    sell,
		IsTradable:   true,
		SortIndex:    sortIndex,
	}
}

func tea(hrid, name string, sortIndex int, usableIn []string, buffs ...gamedata.Buff) gamedata.Item {
	t := item(hrid, name, gamedata.CategoryDrink, 1, 50, sortIndex)
	usable := make(map[string]bool, len(usableIn))
	for _, action := range usableIn {
		usable[gamedata.ActionTypeHrid(action)] = true
	}
	t.ConsumableDetail = &gamedata.ConsumableDetail{UsableInActionTypeMap: usable, Buffs: buffs}
	return t
}

func equipment(hrid, name, equipmentType string, level int, sell float64, sortIndex int) gamedata.Item {
	e := item(hrid, name, gamedata.CategoryEquipment, level, sell, sortIndex)
	e.EquipmentDetail = &gamedata.EquipmentDetail{Type: equipmentType}
	return e
}

// TestGameDocument returns a small but complete game-rules document
func TestGameDocument() gamedata.Document {
	items := []gamedata.Item{
		item(gamedata.CoinHrid, "Coin", "/item_categories/currency", 0, 1, 0),
		item(MilkHrid, "Milk", gamedata.CategoryResource, 1, 1, 1),
		item(CheeseHrid, "Cheese", gamedata.CategoryResource, 1, 4, 2),
		item(LogHrid, "Log", gamedata.CategoryResource, 1, 1, 3),
		item(LumberHrid, "Lumber", gamedata.CategoryResource, 1, 4, 4),
		item(BlackberryHrid, "Blackberry", gamedata.CategoryResource, 20, 30, 7),
		item(UnpricedHrid, "Moonstone", gamedata.CategoryResource, 30, 100, 8),
		item(gamedata.MirrorOfProtectionHrid, "Mirror Of Protection", gamedata.CategoryResource, 1, 1000, 20),
		item(gamedata.EnhancingEssenceHrid, "Enhancing Essence", gamedata.CategoryResource, 1, 5, 21),
		item(gamedata.AlchemyEssenceHrid, "Alchemy Essence", gamedata.CategoryResource, 1, 5, 22),
		item(gamedata.PhilosophersStoneHrid, "Philosopher's Stone", gamedata.CategoryResource, 90, 1000000, 23),
		item(gamedata.TransmuteCatalystHrid, "Catalyst Of Transmutation", gamedata.CategoryResource, 1, 10, 24),
		item(gamedata.DecomposeCatalystHrid, "Catalyst Of Decomposition", gamedata.CategoryResource, 1, 10, 25),
		item(gamedata.CoinifyCatalystHrid, "Catalyst Of Coinification", gamedata.CategoryResource, 1, 10, 26),
		item(gamedata.PrimeCatalystHrid, "Prime Catalyst", gamedata.CategoryResource, 1, 40, 27),
		item(gamedata.SmallArtisansCrateHrid, "Small Artisan's Crate", gamedata.CategoryLoot, 1, 0, 30),
		item(gamedata.MediumArtisansCrate, "Medium Artisan's Crate", gamedata.CategoryLoot, 1, 0, 31),
		item(gamedata.LargeArtisansCrateHrid, "Large Artisan's Crate", gamedata.CategoryLoot, 1, 0, 32),
		item(gamedata.BagOf10CowbellsHrid, "Bag Of 10 Cowbells", gamedata.CategoryLoot, 1, 0, 33),
		item(gamedata.CowbellHrid, "Cowbell", "/item_categories/currency", 1, 0, 34),
		item(BrushHrid, "Brush", "/item_categories/tool", 1, 10, 35),
		equipment(CheeseRingHrid, "Cheese Ring", gamedata.EquipmentRing, 10, 100, 40),
		equipment(LuckyCharmHrid, "Lucky Charm", gamedata.EquipmentCharm, 10, 100, 41),
		tea(EfficiencyTeaHrid, "Efficiency Tea", 50,
			[]string{"milking", "woodcutting", "cheesesmithing", "crafting", "alchemy"},
			gamedata.Buff{TypeHrid: gamedata.BuffEfficiency, FlatBoost: 0.1}),
		tea(CatalyticTeaHrid, "Catalytic Tea", 51, []string{"alchemy"},
			gamedata.Buff{TypeHrid: gamedata.SkillSuccessBuff("alchemy"), RatioBoost: 0.05}),
		tea(ArtisanTeaHrid, "Artisan Tea", 52, []string{"cheesesmithing", "crafting"},
			gamedata.Buff{TypeHrid: gamedata.BuffArtisan, FlatBoost: 0.1},
			gamedata.Buff{TypeHrid: gamedata.BuffActionLevel, FlatBoost: 5}),
		tea(GourmetTeaHrid, "Gourmet Tea", 53, []string{"cheesesmithing", "cooking"},
			gamedata.Buff{TypeHrid: gamedata.BuffGourmet, FlatBoost: 0.12}),
		tea(BlessedTeaHrid, "Blessed Tea", 54, []string{"enhancing"},
			gamedata.Buff{TypeHrid: gamedata.BuffBlessed, FlatBoost: 0.01}),
		tea(GatheringTeaHrid, "Gathering Tea", 55, []string{"milking", "woodcutting"},
			gamedata.Buff{TypeHrid: gamedata.BuffGathering, FlatBoost: 0.15}),
		tea(ProcessingTeaHrid, "Processing Tea", 56, []string{"milking", "woodcutting"},
			gamedata.Buff{TypeHrid: gamedata.BuffProcessing, FlatBoost: 0.15}),
	}

	holyCheese := item(HolyCheeseHrid, "Holy Cheese", gamedata.CategoryResource, 50, 1000, 5)
	holyCheese.AlchemyDetail = &gamedata.AlchemyDetail{BulkMultiplier: 1, IsCoinifiable: true}
	items = append(items, holyCheese)

	blueberry := item(BlueberryHrid, "Blueberry", gamedata.CategoryResource, 10, 20, 6)
	blueberry.AlchemyDetail = &gamedata.AlchemyDetail{
		BulkMultiplier:       5,
		IsCoinifiable:        true,
		TransmuteSuccessRate: 0.5,
		TransmuteDropTable: []gamedata.DropTableItem{
			{ItemHrid: BlueberryHrid, DropRate: 0.1, MinCount: 1, MaxCount: 1},
			{ItemHrid: BlackberryHrid, DropRate: 0.9, MinCount: 1, MaxCount: 1},
		},
	}
	items = append(items, blueberry)

	sword := equipment(CheeseSwordHrid, "Cheese Sword", "/equipment_types/main_hand", 1, 10, 10)
	sword.EnhancementCosts = []gamedata.ItemCount{{ItemHrid: CheeseHrid, Count: 3}, {ItemHrid: gamedata.CoinHrid, Count: 50}}
	sword.AlchemyDetail = &gamedata.AlchemyDetail{
		BulkMultiplier: 1,
		IsCoinifiable:  true,
		DecomposeItems: []gamedata.ItemCount{{ItemHrid: CheeseHrid, Count: 2}},
	}
	items = append(items, sword)

	verdant := equipment(VerdantCheeseSwordHrid, "Verdant Cheese Sword", "/equipment_types/main_hand", 10, 40, 11)
	verdant.EnhancementCosts = []gamedata.ItemCount{{ItemHrid: CheeseHrid, Count: 6}, {ItemHrid: gamedata.CoinHrid, Count: 100}}
	verdant.ProtectionItemHrids = []string{CheeseSwordHrid}
	verdant.AlchemyDetail = &gamedata.AlchemyDetail{
		BulkMultiplier: 1,
		IsCoinifiable:  true,
		DecomposeItems: []gamedata.ItemCount{{ItemHrid: CheeseHrid, Count: 4}},
	}
	items = append(items, verdant)

	itemMap := make(map[string]gamedata.Item, len(items))
	for _, it := range items {
		itemMap[it.Hrid] = it
	}

	actions := []gamedata.Action{
		{
			Hrid: "/actions/milking/cow", Function: "/action_functions/gathering", Type: "/action_types/milking",
			Name: "Cow", LevelRequirement: gamedata.LevelRequirement{SkillHrid: "/skills/milking", Level: 1},
			BaseTimeCost: 6 * gamedata.Second,
			DropTable:    []gamedata.DropTableItem{{ItemHrid: MilkHrid, DropRate: 1, MinCount: 1, MaxCount: 3}},
		},
		{
			Hrid: "/actions/woodcutting/tree", Function: "/action_functions/gathering", Type: "/action_types/woodcutting",
			Name: "Tree", LevelRequirement: gamedata.LevelRequirement{SkillHrid: "/skills/woodcutting", Level: 1},
			BaseTimeCost: 6 * gamedata.Second,
			DropTable:    []gamedata.DropTableItem{{ItemHrid: LogHrid, DropRate: 1, MinCount: 1, MaxCount: 1}},
		},
		{
			Hrid: "/actions/cheesesmithing/cheese", Function: "/action_functions/production", Type: "/action_types/cheesesmithing",
			Name: "Cheese", LevelRequirement: gamedata.LevelRequirement{SkillHrid: "/skills/cheesesmithing", Level: 1},
			BaseTimeCost: 7 * gamedata.Second,
			InputItems:   []gamedata.ItemCount{{ItemHrid: MilkHrid, Count: 2}},
			OutputItems:  []gamedata.ItemCount{{ItemHrid: CheeseHrid, Count: 1}},
		},
		{
			Hrid: "/actions/crafting/lumber", Function: "/action_functions/production", Type: "/action_types/crafting",
			Name: "Lumber", LevelRequirement: gamedata.LevelRequirement{SkillHrid: "/skills/crafting", Level: 1},
			BaseTimeCost: 7 * gamedata.Second,
			InputItems:   []gamedata.ItemCount{{ItemHrid: LogHrid, Count: 2}},
			OutputItems:  []gamedata.ItemCount{{ItemHrid: LumberHrid, Count: 1}},
		},
		{
			Hrid: "/actions/cheesesmithing/cheese_sword", Function: "/action_functions/production", Type: "/action_types/cheesesmithing",
			Name: "Cheese Sword", LevelRequirement: gamedata.LevelRequirement{SkillHrid: "/skills/cheesesmithing", Level: 1},
			BaseTimeCost:  10 * gamedata.Second,
			InputItems:    []gamedata.ItemCount{{ItemHrid: CheeseHrid, Count: 10}},
			OutputItems:   []gamedata.ItemCount{{ItemHrid: CheeseSwordHrid, Count: 1}},
			RareDropTable: []gamedata.DropTableItem{{ItemHrid: gamedata.SmallArtisansCrateHrid, DropRate: 0.001, MinCount: 1, MaxCount: 1}},
		},
		{
			Hrid: "/actions/cheesesmithing/verdant_cheese_sword", Function: "/action_functions/production", Type: "/action_types/cheesesmithing",
			Name: "Verdant Cheese Sword", LevelRequirement: gamedata.LevelRequirement{SkillHrid: "/skills/cheesesmithing", Level: 10},
			BaseTimeCost:    20 * gamedata.Second,
			UpgradeItemHrid: CheeseSwordHrid,
			InputItems:      []gamedata.ItemCount{{ItemHrid: CheeseHrid, Count: 20}},
			OutputItems:     []gamedata.ItemCount{{ItemHrid: VerdantCheeseSwordHrid, Count: 1}},
		},
		{
			Hrid: gamedata.TransmuteActionHrid, Function: "/action_functions/alchemy", Type: "/action_types/alchemy",
			Name: "Transmute", BaseTimeCost: 20 * gamedata.Second,
		},
		{
			Hrid: gamedata.DecomposeActionHrid, Function: "/action_functions/alchemy", Type: "/action_types/alchemy",
			Name: "Decompose", BaseTimeCost: 20 * gamedata.Second,
		},
		{
			Hrid: gamedata.CoinifyActionHrid, Function: "/action_functions/alchemy", Type: "/action_types/alchemy",
			Name: "Coinify", BaseTimeCost: 20 * gamedata.Second,
		},
		{
			Hrid: gamedata.EnhanceActionHrid, Function: "/action_functions/enhancing", Type: "/action_types/enhancing",
			Name: "Enhance", BaseTimeCost: 12 * gamedata.Second,
		},
	}
	actionMap := make(map[string]gamedata.Action, len(actions))
	for _, a := range actions {
		actionMap[a.Hrid] = a
	}

	return gamedata.Document{
		ItemDetailMap:   itemMap,
		ActionDetailMap: actionMap,
		ShopItemDetailMap: map[string]gamedata.ShopItem{
			"/shop_items/brush": {
				Hrid: "/shop_items/brush", ItemHrid: BrushHrid,
				Costs: []gamedata.ItemCount{{ItemHrid: gamedata.CoinHrid, Count: 500}},
			},
		},
		OpenableLootDropMap: map[string][]gamedata.DropTableItem{
			gamedata.SmallArtisansCrateHrid: {{ItemHrid: CheeseHrid, DropRate: 1, MinCount: 2, MaxCount: 4}},
			gamedata.MediumArtisansCrate:    {{ItemHrid: CheeseHrid, DropRate: 1, MinCount: 10, MaxCount: 20}},
			gamedata.LargeArtisansCrateHrid: {
				{ItemHrid: CheeseHrid, DropRate: 1, MinCount: 40, MaxCount: 60},
				{ItemHrid: UnpricedHrid, DropRate: 0.01, MinCount: 1, MaxCount: 1},
			},
			gamedata.BagOf10CowbellsHrid: {{ItemHrid: gamedata.CowbellHrid, DropRate: 1, MinCount: 10, MaxCount: 10}},
		},
		EnhancementLevelSuccessRateTable: []float64{
			0.5, 0.45, 0.45, 0.4, 0.4, 0.4, 0.35, 0.35, 0.35, 0.35,
			0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3,
		},
		GameVersion: "test",
	}
}

// NewTestCatalog indexes TestGameDocument
func NewTestCatalog(t testing.TB) *gamedata.Snapshot {
	t.Helper()
	snapshot, err := gamedata.NewSnapshot(TestGameDocument())
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return snapshot
}

func q(ask, bid float64) market.Quote {
	return market.Quote{Ask: ask, Bid: bid}
}

// TestQuotes returns market quotes for the fixture catalog, keyed by item name and level.
// Moonstone is deliberately absent.
func TestQuotes() map[string]map[int]market.Quote {
	return map[string]map[int]market.Quote{
		"Milk":        {0: q(12, 10)},
		"Cheese":      {0: q(30, 25)},
		"Log":         {0: q(10, 8)},
		"Lumber":      {0: q(30, 28)},
		"Holy Cheese": {0: q(2000, 1800)},
		"Blueberry":   {0: q(25, 20)},
		"Blackberry":  {0: q(40, 35)},
		"Cheese Sword": {
			0: q(400, 350), 1: q(500, 450), 2: q(800, 700), 3: q(1500, 1300),
			4: q(3000, 2600), 5: q(6000, 5200),
		},
		"Verdant Cheese Sword": {
			0: q(2000, 1800), 1: q(2400, 2200), 2: q(3500, 3200), 3: q(6000, 5500),
			4: q(12000, 11000), 5: q(25000, 23000),
		},
		"Cheese Ring":               {0: q(1000, 900)},
		"Lucky Charm":               {0: q(2000, 1800)},
		"Brush":                     {0: q(800, 600)},
		"Mirror Of Protection":      {0: q(1000000, 900000)},
		"Enhancing Essence":         {0: q(50, 45)},
		"Alchemy Essence":           {0: q(60, 55)},
		"Philosopher's Stone":       {0: q(2000000, 1900000)},
		"Catalyst Of Transmutation": {0: q(500, 450)},
		"Catalyst Of Decomposition": {0: q(500, 450)},
		"Catalyst Of Coinification": {0: q(500, 450)},
		"Prime Catalyst":            {0: q(2000, 1900)},
		"Bag Of 10 Cowbells":        {0: q(300000, 290000)},
		"Efficiency Tea":            {0: q(800, 700)},
		"Catalytic Tea":             {0: q(800, 700)},
		"Artisan Tea":               {0: q(800, 700)},
		"Gourmet Tea":               {0: q(800, 700)},
		"Blessed Tea":               {0: q(800, 700)},
		"Gathering Tea":             {0: q(800, 700)},
		"Processing Tea":            {0: q(800, 700)},
	}
}

// NewTestMarket builds a market snapshot from TestQuotes
func NewTestMarket(t testing.TB) *market.Snapshot {
	t.Helper()
	snapshot, err := market.NewSnapshot(TestQuotes(), FixtureTime)
	if err != nil {
		t.Fatalf("failed to build test market: %v", err)
	}
	return snapshot
}
