package calculator

import (
	"regexp"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

var (
	milkSuffix = regexp.MustCompile(`milk$`)
	logSuffix  = regexp.MustCompile(`log$`)
)

// gather covers milking, foraging and woodcutting. The action is named after the
// source rather than the product, so milk comes from a cow and logs from a tree.
type gather struct{}

// GatherActionKey maps an item key to the key of the action that gathers it
func GatherActionKey(itemKey string) string {
	key := milkSuffix.ReplaceAllString(itemKey, "cow")
	return logSuffix.ReplaceAllString(key, "tree")
}

func (gather) action(b *base) (*gamedata.Action, bool) {
	return b.env.Catalog.Action(gamedata.ActionHrid(b.cfg.Action, GatherActionKey(b.item.Key())))
}

func (g gather) available(b *base) bool {
	action, ok := g.action(b)
	return ok && len(action.DropTable) > 0
}

func (g gather) baseTimeCost(b *base) float64 {
	action, _ := g.action(b)
	return action.BaseTimeCost
}

func (g gather) actionLevel(b *base) int {
	action, _ := g.action(b)
	return action.LevelRequirement.Level
}

func (gather) successRate(*base) float64 {
	return 1
}

func (gather) ingredients(b *base) []Entry {
	return b.teas()
}

func (g gather) products(b *base) []Entry {
	action, _ := g.action(b)
	processing := b.buffs.Processing

	var list []Entry
	for _, drop := range action.DropTable {
		count := drop.AverageCount() * (1 - processing) * (1 + b.buffs.Gathering)
		list = append(list, b.bid(drop.ItemHrid, 0, count, drop.DropRate))
	}

	if processing > 0 {
		if processed, ok := b.env.Catalog.ProcessingProduct(b.item.Hrid); ok {
			list = append(list, b.bid(processed, 0, processing, 0))
		}
	}

	list = append(list, b.dropBand(action.EssenceDropTable, b.buffs.EssenceFind, 0, true)...)
	return append(list, b.dropBand(action.RareDropTable, b.buffs.RareFind, 0, true)...)
}
