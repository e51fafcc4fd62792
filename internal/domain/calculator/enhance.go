package calculator

import (
	"math"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

// NewEnhanceConfig builds an enhance config without escape.
// target is the level to reach, protect the first level protected on failure.
func NewEnhanceConfig(hrid string, target, protect, origin int) Config {
	return Config{
		Kind:         KindEnhance,
		Hrid:         hrid,
		EnhanceLevel: target,
		ProtectLevel: protect,
		OriginLevel:  origin,
		EscapeLevel:  NoEscape,
	}
}

// enhance prices one enhancement attempt. Quantities are amortized over the expected
// number of attempts needed to bring one item from OriginLevel to EnhanceLevel.
type enhance struct {
	markov *MarkovCache
}

func (enhance) action(b *base) (*gamedata.Action, bool) {
	return b.env.Catalog.Action(gamedata.EnhanceActionHrid)
}

func (e *enhance) key(b *base) MarkovKey {
	return MarkovKey{
		Target:       b.cfg.EnhanceLevel,
		Protect:      b.cfg.ProtectLevel,
		Origin:       b.cfg.OriginLevel,
		Escape:       b.cfg.EscapeLevel,
		ItemLevel:    b.item.ItemLevel,
		SuccessRatio: b.buffs.EnhanceSuccessRatio(b.item.ItemLevel),
		Leap:         b.buffs.Blessed,
	}
}

// rates returns the base success rate of every level below the target
func (e *enhance) rates(b *base) ([]float64, bool) {
	out := make([]float64, b.cfg.EnhanceLevel)
	for i := range out {
		rate, ok := b.env.Catalog.EnhanceSuccessRate(i)
		if !ok {
			return nil, false
		}
		out[i] = rate
	}
	return out, true
}

func (e *enhance) enhancelate(b *base) (Enhancement, error) {
	rates, ok := e.rates(b)
	if !ok {
		return Enhancement{}, ErrUnreachableLevel
	}
	return e.markov.Lookup(e.key(b), rates)
}

func (e *enhance) shape(b *base) bool {
	cfg := b.cfg
	if !b.item.IsEnhanceable() || cfg.OriginLevel < 0 || cfg.EnhanceLevel <= cfg.OriginLevel {
		return false
	}
	if cfg.EnhanceLevel > gamedata.MaxEnhanceLevel {
		return false
	}
	if cfg.EscapeLevel != NoEscape && (cfg.EscapeLevel < 0 || cfg.EscapeLevel >= cfg.OriginLevel) {
		return false
	}
	_, ok := e.action(b)
	return ok
}

func (e *enhance) available(b *base) bool {
	if !e.shape(b) || e.maxProfitApproximate(b) <= 0 {
		return false
	}
	_, err := e.enhancelate(b)
	return err == nil
}

func (e *enhance) baseTimeCost(b *base) float64 {
	action, _ := e.action(b)
	return action.BaseTimeCost
}

func (e *enhance) speed(b *base) float64 {
	return 1 + b.buffs.EnhanceSpeed(b.item.ItemLevel)
}

func (e *enhance) efficiency(*base) float64 {
	return 1
}

func (e *enhance) successRate(*base) float64 {
	return 1
}

func (e *enhance) actionLevel(b *base) int {
	return b.item.ItemLevel
}

// protection picks the cheapest ask among the declared protection items, the item
// itself and the mirror of protection
func (e *enhance) protection(b *base, count float64) Entry {
	candidates := append(append([]string{}, b.item.ProtectionItemHrids...), b.item.Hrid, gamedata.MirrorOfProtectionHrid)
	var best Entry
	found := false
	for _, hrid := range candidates {
		entry := b.ask(hrid, 0, count)
		if entry.MarketPrice <= 0 {
			continue
		}
		if !found || entry.MarketPrice < best.MarketPrice {
			best, found = entry, true
		}
	}
	if !found {
		return Entry{Hrid: gamedata.MirrorOfProtectionHrid, Count: count, MarketPrice: -1}
	}
	return best
}

func (e *enhance) ingredients(b *base) []Entry {
	result, _ := e.enhancelate(b)
	list := []Entry{
		b.ask(b.item.Hrid, b.cfg.OriginLevel, (1+result.Escapes())/result.Actions),
		e.protection(b, result.Protects/result.Actions),
	}
	for _, cost := range b.item.EnhancementCosts {
		list = append(list, b.ask(cost.ItemHrid, 0, cost.Count))
	}
	return append(list, b.teas()...)
}

func (e *enhance) products(b *base) []Entry {
	result, _ := e.enhancelate(b)
	list := []Entry{b.bid(b.item.Hrid, b.cfg.EnhanceLevel, 1/result.Actions, 0)}

	if escape := b.cfg.EscapeLevel; escape != NoEscape {
		if escape == 0 {
			list = append(list, b.bid(b.item.Hrid, 0, result.Escapes()/result.Actions, 0))
		} else {
			if result.EscapesAtLevel > 0 {
				list = append(list, b.bid(b.item.Hrid, escape, result.EscapesAtLevel/result.Actions, 0))
			}
			if result.EscapesAtFloor > 0 {
				list = append(list, b.bid(b.item.Hrid, 0, result.EscapesAtFloor/result.Actions, 0))
			}
		}
	}

	baseTime := e.baseTimeCost(b)
	list = append(list, b.dropBand(gamedata.EnhancingRareDropTable(b.item, baseTime), b.buffs.RareFind, 0, false)...)
	return append(list, b.dropBand(gamedata.EnhancingEssenceDropTable(b.item, baseTime), b.buffs.EssenceFind, 0, false)...)
}

// maxProfitApproximate bounds the profit of one finished item from above: the better of
// the target bid and the decompose salvage, minus the origin item and the materials of
// the fewest attempts that can reach the target. Protection is assumed never consumed.
func (e *enhance) maxProfitApproximate(b *base) float64 {
	cfg := b.cfg
	originAsk := b.ask(b.item.Hrid, cfg.OriginLevel, 1).MarketPrice
	if originAsk < 0 {
		return -1
	}

	var materials float64
	for _, cost := range b.item.EnhancementCosts {
		price := b.ask(cost.ItemHrid, 0, cost.Count).MarketPrice
		if price < 0 {
			return -1
		}
		materials += cost.Count * price
	}

	attempts := float64(cfg.EnhanceLevel - cfg.OriginLevel)
	if b.buffs.Blessed > 0 {
		attempts = math.Ceil(attempts / 2)
	}

	best := math.Max(e.salvage(b)*(1-MarketTax), math.Max(0, b.bid(b.item.Hrid, cfg.EnhanceLevel, 1, 0).MarketPrice))
	return best - originAsk - materials*attempts
}

// salvage is the bid value of decomposing the enhanced item, ignoring the coin fee
func (e *enhance) salvage(b *base) float64 {
	detail := b.item.AlchemyDetail
	if detail == nil || detail.DecomposeItems == nil {
		return 0
	}
	bulk := math.Max(detail.BulkMultiplier, 1)
	positive := func(price float64) float64 { return math.Max(0, price) }

	essence := gamedata.DecomposeEnhancingEssence(b.item, b.cfg.EnhanceLevel)
	value := essence * positive(b.bid(gamedata.EnhancingEssenceHrid, 0, essence, 0).MarketPrice)
	for _, out := range detail.DecomposeItems {
		value += out.Count * bulk * positive(b.bid(out.ItemHrid, 0, out.Count, 0).MarketPrice)
	}
	return value
}

// Enhance is the calculator of one enhancement chain
type Enhance struct {
	*base
	spec *enhance
}

func newEnhance(env Env, cfg Config) *Enhance {
	spec := &enhance{markov: env.markov()}
	return &Enhance{base: newBase(env, cfg, spec), spec: spec}
}

// Enhancelate returns the expected attempts, protections and escapes of the chain
func (e *Enhance) Enhancelate() (Enhancement, error) {
	if e.item == nil || !e.spec.shape(e.base) {
		return Enhancement{}, ErrInvalidEnhancement
	}
	return e.spec.enhancelate(e.base)
}

// MaxProfitApproximate is the cheap upper bound used to prune sweeps before pricing
func (e *Enhance) MaxProfitApproximate() float64 {
	if e.item == nil || e.env.Prices == nil || !e.spec.shape(e.base) {
		return -1
	}
	return e.spec.maxProfitApproximate(e.base)
}

// ProtectionCostPerHour is the hourly spend on protection items
func (e *Enhance) ProtectionCostPerHour() float64 {
	if !e.Available() {
		return 0
	}
	p := e.PricedIngredients()[1]
	return p.CountPH * p.Price
}

// EscapeIncomePerHour is the hourly income from selling escaped items
func (e *Enhance) EscapeIncomePerHour() float64 {
	if !e.Available() {
		return 0
	}
	var sum float64
	for _, p := range e.PricedProducts()[1:] {
		if p.Hrid == e.item.Hrid && p.Level < e.cfg.EnhanceLevel {
			sum += p.CountPH * p.Price
		}
	}
	return sum * (1 - MarketTax)
}

// enhancementLoss is what failures cost per hour
func (e *Enhance) enhancementLoss() float64 {
	if e.cfg.EscapeLevel != NoEscape {
		return e.Hourly().CostPH - e.EscapeIncomePerHour()
	}
	return e.ProtectionCostPerHour()
}

// Risk is the hourly enhancement loss relative to the hourly profit; +Inf when unprofitable
func (e *Enhance) Risk() float64 {
	return riskOf(e.enhancementLoss(), e.Hourly().ProfitPH)
}

func riskOf(loss, profitPH float64) float64 {
	if profitPH <= 0 {
		return math.Inf(1)
	}
	return loss / profitPH
}

// Run adds the chain risk and the profit per finished item to the base result
func (e *Enhance) Run() Result {
	r := e.base.Run()
	if !r.Available {
		return r
	}
	r.Risk = e.Risk()
	if result, err := e.Enhancelate(); err == nil && r.ActionsPH > 0 {
		r.ProfitPerAction = r.ProfitPH / r.ActionsPH * result.Actions
	}
	return r
}
