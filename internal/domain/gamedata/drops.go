package gamedata

import "math"

// AlchemyRareDropTable returns the artisan crate band for an alchemy action.
// The crate size and its scale depend on the item level.
func AlchemyRareDropTable(item *Item, baseTimeCost float64) []DropTableItem {
	return []DropTableItem{artisansCrate(item, baseTimeCost)}
}

// AlchemyEssenceDropTable returns the alchemy essence drop for one action
func AlchemyEssenceDropTable(item *Item, timeCost float64) []DropTableItem {
	return []DropTableItem{essenceDrop(AlchemyEssenceHrid, item, timeCost)}
}

// EnhancingRareDropTable returns the artisan crate band for one enhancement attempt
func EnhancingRareDropTable(item *Item, baseTimeCost float64) []DropTableItem {
	return []DropTableItem{artisansCrate(item, baseTimeCost)}
}

// EnhancingEssenceDropTable returns the enhancing essence drop for one enhancement attempt
func EnhancingEssenceDropTable(item *Item, timeCost float64) []DropTableItem {
	return []DropTableItem{essenceDrop(EnhancingEssenceHrid, item, timeCost)}
}

// DecomposeEnhancingEssence returns the enhancing essence yielded by decomposing
// an item at the given enhancement level
func DecomposeEnhancingEssence(item *Item, enhanceLevel int) float64 {
	if enhanceLevel <= 0 {
		return 0
	}
	return math.Round(2 * (0.5 + 0.1*math.Pow(1.05, float64(item.ItemLevel))) * math.Pow(2, float64(enhanceLevel)))
}

func artisansCrate(item *Item, baseTimeCost float64) DropTableItem {
	rate := baseTimeCost / (8 * Hour)
	level := float64(item.ItemLevel)

	var hrid string
	var scale float64
	switch {
	case item.ItemLevel < 35:
		hrid = SmallArtisansCrateHrid
		scale = (level + 100) / 100
	case item.ItemLevel < 70:
		hrid = MediumArtisansCrate
		scale = (level - 35 + 100) / 150
	default:
		hrid = LargeArtisansCrateHrid
		scale = (level - 70 + 100) / 200
	}

	return DropTableItem{ItemHrid: hrid, DropRate: rate * scale, MinCount: 1, MaxCount: 1}
}

func essenceDrop(hrid string, item *Item, timeCost float64) DropTableItem {
	return DropTableItem{
		ItemHrid: hrid,
		DropRate: timeCost / (6 * Minute) * ((float64(item.ItemLevel) + 100) / 100),
		MinCount: 1,
		MaxCount: 1,
	}
}
