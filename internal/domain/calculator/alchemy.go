package calculator

import (
	"math"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

// Base success rates of decompose and coinify. Both are community estimates that
// have not been confirmed against game data.
const (
	decomposeBaseSuccess = 0.6
	coinifyBaseSuccess   = 0.7
)

// alchemy holds what transmute, decompose and coinify share
type alchemy struct {
	actionHrid   string
	catalystHrid string
}

func (a alchemy) action(b *base) (*gamedata.Action, bool) {
	return b.env.Catalog.Action(a.actionHrid)
}

func (a alchemy) baseTimeCost(b *base) float64 {
	action, ok := a.action(b)
	if !ok {
		return 0
	}
	return action.BaseTimeCost
}

func (a alchemy) actionLevel(b *base) int {
	return b.item.ItemLevel
}

// catalyst returns the catalyst consumed at the configured rank, or "" for none
func (a alchemy) catalyst(b *base) string {
	switch b.cfg.CatalystRank {
	case 1:
		return a.catalystHrid
	case 2:
		return gamedata.PrimeCatalystHrid
	}
	return ""
}

// catalystRatio is the success bonus from drinks and the catalyst rank
func (a alchemy) catalystRatio(b *base) float64 {
	ratio := b.buffs.Success
	if rank := b.cfg.CatalystRank; rank > 0 {
		ratio += float64(rank)*0.1 + 0.05
	}
	return ratio
}

func (a alchemy) rate(b *base, baseRate float64) float64 {
	return math.Min(1, baseRate*(1+b.buffs.AlchemySuccessRatio(b.item.ItemLevel)+a.catalystRatio(b)))
}

func (a alchemy) bulk(b *base) float64 {
	return b.item.AlchemyDetail.BulkMultiplier
}

func (a alchemy) ready(b *base) bool {
	_, ok := a.action(b)
	return ok && b.item.AlchemyDetail != nil && b.item.AlchemyDetail.BulkMultiplier > 0
}

// withCatalystAndTeas appends the catalyst, consumed only on success, and the drinks
func (a alchemy) withCatalystAndTeas(b *base, list []Entry) []Entry {
	if hrid := a.catalyst(b); hrid != "" {
		list = append(list, b.ask(hrid, 0, b.SuccessRate()))
	}
	return append(list, b.teas()...)
}

// bands appends the artisan crate and alchemy essence drops, spread over successes
func (a alchemy) bands(b *base, list []Entry) []Entry {
	baseTime := a.baseTimeCost(b)
	success := b.SuccessRate()
	list = append(list, b.dropBand(gamedata.AlchemyRareDropTable(b.item, baseTime), b.buffs.RareFind, success, false)...)
	return append(list, b.dropBand(gamedata.AlchemyEssenceDropTable(b.item, baseTime), b.buffs.EssenceFind, success, false)...)
}

type transmute struct{ alchemy }

func newTransmute() transmute {
	return transmute{alchemy{actionHrid: gamedata.TransmuteActionHrid, catalystHrid: gamedata.TransmuteCatalystHrid}}
}

func (t transmute) available(b *base) bool {
	return t.ready(b) && b.item.AlchemyDetail.TransmuteDropTable != nil
}

func (t transmute) successRate(b *base) float64 {
	return t.rate(b, b.item.AlchemyDetail.TransmuteSuccessRate)
}

// sameItemCounter is the share of the input returned by the item's own transmute drop
func (t transmute) sameItemCounter(b *base) float64 {
	for _, drop := range b.item.AlchemyDetail.TransmuteDropTable {
		if drop.ItemHrid != b.item.Hrid {
			continue
		}
		rate := drop.DropRate
		if rate == 0 {
			rate = 1
		}
		return math.Min(1, drop.MaxCount*rate*b.SuccessRate())
	}
	return 0
}

func (t transmute) ingredients(b *base) []Entry {
	bulk := t.bulk(b)
	counter := t.sameItemCounter(b)

	item := b.ask(b.item.Hrid, 0, bulk*(1-counter))
	item.CounterCount = bulk * counter
	coinFee := math.Max(math.Floor(b.item.SellPrice/5), 50)

	list := []Entry{item, fixed(gamedata.CoinHrid, bulk, coinFee)}
	return t.withCatalystAndTeas(b, list)
}

func (t transmute) products(b *base) []Entry {
	bulk := t.bulk(b)
	var list []Entry
	for _, drop := range b.item.AlchemyDetail.TransmuteDropTable {
		self := 0.0
		if drop.ItemHrid == b.item.Hrid {
			self = drop.MaxCount
		}
		e := b.bid(drop.ItemHrid, 0, (drop.MaxCount-self)*bulk, drop.DropRate)
		e.CounterCount = self * bulk
		list = append(list, e)
	}
	return t.bands(b, list)
}

type decompose struct{ alchemy }

func newDecompose() decompose {
	return decompose{alchemy{actionHrid: gamedata.DecomposeActionHrid, catalystHrid: gamedata.DecomposeCatalystHrid}}
}

func (d decompose) available(b *base) bool {
	return d.ready(b) && b.item.AlchemyDetail.DecomposeItems != nil
}

func (d decompose) successRate(b *base) float64 {
	return d.rate(b, decomposeBaseSuccess)
}

func (d decompose) ingredients(b *base) []Entry {
	bulk := d.bulk(b)
	list := []Entry{
		b.ask(b.item.Hrid, b.cfg.EnhanceLevel, bulk),
		fixed(gamedata.CoinHrid, bulk, float64(50+5*b.item.ItemLevel)),
	}
	return d.withCatalystAndTeas(b, list)
}

func (d decompose) products(b *base) []Entry {
	var list []Entry
	if b.cfg.EnhanceLevel > 0 {
		essence := gamedata.DecomposeEnhancingEssence(b.item, b.cfg.EnhanceLevel)
		list = append(list, b.bid(gamedata.EnhancingEssenceHrid, 0, essence, 0))
	}
	bulk := d.bulk(b)
	for _, out := range b.item.AlchemyDetail.DecomposeItems {
		list = append(list, b.bid(out.ItemHrid, 0, out.Count*bulk, 0))
	}
	return d.bands(b, list)
}

type coinify struct{ alchemy }

func newCoinify() coinify {
	return coinify{alchemy{actionHrid: gamedata.CoinifyActionHrid, catalystHrid: gamedata.CoinifyCatalystHrid}}
}

func (c coinify) available(b *base) bool {
	return c.ready(b) && b.item.AlchemyDetail.IsCoinifiable
}

func (c coinify) successRate(b *base) float64 {
	return c.rate(b, coinifyBaseSuccess)
}

func (c coinify) ingredients(b *base) []Entry {
	list := []Entry{b.ask(b.item.Hrid, 0, c.bulk(b))}
	return c.withCatalystAndTeas(b, list)
}

func (c coinify) products(b *base) []Entry {
	coins := fixed(gamedata.CoinHrid, 1, b.item.SellPrice*5*c.bulk(b))
	return c.bands(b, []Entry{coins})
}
