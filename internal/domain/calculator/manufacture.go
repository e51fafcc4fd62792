package calculator

import (
	"math"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

// manufacture covers every recipe action: cheesesmithing, crafting, tailoring, cooking and brewing.
// OriginLevel is the enhancement level of the upgraded item when the recipe has one.
type manufacture struct{}

func (manufacture) action(b *base) (*gamedata.Action, bool) {
	return b.env.Catalog.Action(gamedata.ActionHrid(b.cfg.Action, b.item.Key()))
}

func (m manufacture) available(b *base) bool {
	_, ok := m.action(b)
	return ok
}

func (m manufacture) baseTimeCost(b *base) float64 {
	action, _ := m.action(b)
	return action.BaseTimeCost
}

func (m manufacture) actionLevel(b *base) int {
	action, _ := m.action(b)
	return action.LevelRequirement.Level
}

func (manufacture) successRate(*base) float64 {
	return 1
}

func (m manufacture) ingredients(b *base) []Entry {
	action, _ := m.action(b)
	var list []Entry
	if action.UpgradeItemHrid != "" {
		list = append(list, b.ask(action.UpgradeItemHrid, b.cfg.OriginLevel, 1))
	}
	for _, input := range action.InputItems {
		list = append(list, b.ask(input.ItemHrid, 0, input.Count*(1-b.buffs.Artisan)))
	}
	return append(list, b.teas()...)
}

// targetLevel is the enhancement level carried over from the upgraded item
func (m manufacture) targetLevel(b *base) float64 {
	return InheritedLevel(b.cfg.OriginLevel, b.item.IsRefined())
}

// InheritedLevel is the level an upgrade keeps from an item at origin.
// Refined items keep their level, others keep 70% of it rounded to two decimals.
func InheritedLevel(origin int, refined bool) float64 {
	if refined {
		return float64(origin)
	}
	return math.Round(float64(origin)*0.7*100) / 100
}

func (m manufacture) products(b *base) []Entry {
	action, _ := m.action(b)
	target := m.targetLevel(b)
	floor := int(math.Floor(target))
	frac := target - float64(floor)

	var list []Entry
	if frac == 0 {
		for _, output := range action.OutputItems {
			list = append(list, b.bid(output.ItemHrid, floor, output.Count*(1+b.buffs.Gourmet), 0))
		}
	} else {
		// A fractional carry-over lands on either neighbouring level
		ceil := floor + 1
		low := b.bid(b.item.Hrid, floor, 1-frac, 0)
		high := b.bid(b.item.Hrid, ceil, frac, 0)
		if high.MarketPrice <= 0 {
			high.MarketPrice = low.MarketPrice
			high.Manual = low.Manual
		}
		list = append(list, low, high)
	}

	list = append(list, b.dropBand(action.EssenceDropTable, b.buffs.EssenceFind, 0, true)...)
	return append(list, b.dropBand(action.RareDropTable, b.buffs.RareFind, 0, true)...)
}
