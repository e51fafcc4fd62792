package calculator

import (
	"math"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
)

// Calculator is the contract shared by every action variant and by workflows.
// Calculators are safe to construct and query when game or market data is missing;
// such calculators report Available() == false.
type Calculator interface {
	ID() string
	Kind() Kind
	Config() Config
	Item() *gamedata.Item
	Hrid() string
	Project() string
	Action() string

	// Ingredients are consumed per action, Products are yielded per successful action
	Ingredients() []Entry
	Products() []Entry
	PricedIngredients() []PricedEntry
	PricedProducts() []PricedEntry

	TimeCost() float64
	SuccessRate() float64
	Efficiency() float64
	ActionLevel() int
	Available() bool
	HasManualPrice() bool

	Hourly() Hourly
	Run() Result
}

// Result is the materialized outcome of a calculator run
type Result struct {
	ID             string  `json:"id"`
	Kind           Kind    `json:"kind"`
	Hrid           string  `json:"hrid"`
	Name           string  `json:"name"`
	Project        string  `json:"project"`
	Action         string  `json:"action"`
	Available      bool    `json:"available"`
	SuccessRate    float64 `json:"successRate"`
	TimeCost       float64 `json:"timeCost"`
	Efficiency     float64 `json:"efficiency"`
	ActionLevel    int     `json:"actionLevel"`
	HasManualPrice bool    `json:"hasManualPrice"`
	Hourly
	Risk            float64   `json:"-"`
	ProfitPerAction float64   `json:"profitPerAction"`
	Multipliers     []float64 `json:"multipliers,omitempty"`
}

// actionSpec supplies the variant-specific parts of a calculator.
// ingredients and products are only called once available reports true.
type actionSpec interface {
	available(b *base) bool
	ingredients(b *base) []Entry
	products(b *base) []Entry
	baseTimeCost(b *base) float64
	successRate(b *base) float64
	actionLevel(b *base) int
}

// speedSpec and efficiencySpec let a variant replace the default speed or efficiency
type speedSpec interface {
	speed(b *base) float64
}

type efficiencySpec interface {
	efficiency(b *base) float64
}

// base implements Calculator on top of an actionSpec with explicit memoization
type base struct {
	env   Env
	cfg   Config
	item  *gamedata.Item
	buffs player.Buffs
	spec  actionSpec

	ready             func() bool
	ingredients       func() []Entry
	products          func() []Entry
	pricedIngredients func() []PricedEntry
	pricedProducts    func() []PricedEntry
	successRate       func() float64
	available         func() bool
	hourly            func() Hourly

	mu     sync.Mutex
	result *Result
}

func newBase(env Env, cfg Config, spec actionSpec) *base {
	b := &base{env: env, cfg: cfg, spec: spec}
	if env.Catalog != nil {
		b.item, _ = env.Catalog.Item(cfg.Hrid)
	}
	if action, err := player.ParseActionType(cfg.ActionType()); err == nil && env.Catalog != nil {
		b.buffs = env.profile().Buffs(action, env.Catalog)
	}

	b.ready = sync.OnceValue(func() bool {
		return b.item != nil && env.Prices != nil && b.spec.available(b)
	})
	b.successRate = sync.OnceValue(func() float64 {
		if !b.ready() {
			return 0
		}
		return clamp01(b.spec.successRate(b))
	})
	b.ingredients = sync.OnceValue(func() []Entry {
		if !b.ready() {
			return nil
		}
		return b.spec.ingredients(b)
	})
	b.products = sync.OnceValue(func() []Entry {
		if !b.ready() {
			return nil
		}
		return b.spec.products(b)
	})
	b.pricedIngredients = sync.OnceValue(func() []PricedEntry {
		list := applyPrices(b.ingredients(), b.cfg.IngredientPrices)
		consume := b.consumePH()
		for i := range list {
			list[i].CountPH = list[i].Count * consume
			list[i].CounterCountPH = list[i].CounterCount * consume
		}
		return list
	})
	b.pricedProducts = sync.OnceValue(func() []PricedEntry {
		list := applyPrices(b.products(), b.cfg.ProductPrices)
		gain := b.gainPH()
		for i := range list {
			rate := list[i].EffectiveRate()
			list[i].CountPH = list[i].Count * gain * rate
			list[i].CounterCountPH = list[i].CounterCount * gain * rate
		}
		return list
	})
	b.available = sync.OnceValue(func() bool {
		if !b.ready() || b.TimeCost() <= 0 || b.SuccessRate() <= 0 {
			return false
		}
		return !hasSentinel(b.pricedIngredients()) && !hasSentinel(b.pricedProducts())
	})
	b.hourly = sync.OnceValue(func() Hourly {
		if !b.Available() {
			return Hourly{}
		}
		return ComputeHourly(HourlyInput{
			TimeCost:    b.TimeCost(),
			Efficiency:  b.Efficiency(),
			SuccessRate: b.SuccessRate(),
			Cost:        totalCost(b.pricedIngredients()),
			Income:      totalIncome(b.pricedProducts()),
		})
	})
	return b
}

func (b *base) ID() string {
	return BuildID(b.cfg.Hrid, b.Project(), b.Action())
}

func (b *base) Kind() Kind                       { return b.cfg.Kind }
func (b *base) Config() Config                   { return b.cfg.Clone() }
func (b *base) Item() *gamedata.Item             { return b.item }
func (b *base) Hrid() string                     { return b.cfg.Hrid }
func (b *base) Project() string                  { return b.cfg.ProjectName() }
func (b *base) Action() string                   { return b.cfg.ActionType() }
func (b *base) Ingredients() []Entry             { return b.ingredients() }
func (b *base) Products() []Entry                { return b.products() }
func (b *base) PricedIngredients() []PricedEntry { return b.pricedIngredients() }
func (b *base) PricedProducts() []PricedEntry    { return b.pricedProducts() }
func (b *base) SuccessRate() float64             { return b.successRate() }
func (b *base) Available() bool                  { return b.available() }
func (b *base) Hourly() Hourly                   { return b.hourly() }

// HasManualPrice reports whether any entry not pinned by a price config used a manual price
func (b *base) HasManualPrice() bool {
	for _, list := range [][]PricedEntry{b.PricedIngredients(), b.PricedProducts()} {
		for _, e := range list {
			if e.Manual && !e.Pinned {
				return true
			}
		}
	}
	return false
}

func (b *base) ActionLevel() int {
	if !b.ready() {
		return 0
	}
	return b.spec.actionLevel(b)
}

func (b *base) speed() float64 {
	if s, ok := b.spec.(speedSpec); ok {
		return s.speed(b)
	}
	return 1 + b.buffs.Speed
}

// TimeCost is the duration of one action in nanoseconds
func (b *base) TimeCost() float64 {
	if !b.ready() {
		return 0
	}
	speed := b.speed()
	if speed <= 0 {
		return 0
	}
	return b.spec.baseTimeCost(b) / speed
}

func (b *base) Efficiency() float64 {
	if e, ok := b.spec.(efficiencySpec); ok {
		return e.efficiency(b)
	}
	overage := (b.buffs.PlayerLevel - float64(b.ActionLevel())) * 0.01
	return 1 + math.Max(0, overage) + b.buffs.Efficiency
}

func (b *base) consumePH() float64 {
	return ActionsPerHour(b.TimeCost(), b.Efficiency())
}

func (b *base) gainPH() float64 {
	return b.consumePH() * b.SuccessRate()
}

// Run materializes the result once; later calls return the same record
func (b *base) Run() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.result != nil {
		return *b.result
	}
	r := Result{
		ID:          b.ID(),
		Kind:        b.Kind(),
		Hrid:        b.Hrid(),
		Project:     b.Project(),
		Action:      b.Action(),
		Available:   b.Available(),
		SuccessRate: b.SuccessRate(),
		TimeCost:    b.TimeCost(),
		Efficiency:  b.Efficiency(),
		ActionLevel: b.ActionLevel(),
	}
	if b.item != nil {
		r.Name = b.item.Name
	}
	if r.Available {
		r.HasManualPrice = b.HasManualPrice()
		r.Hourly = b.Hourly()
		if r.Hourly.ActionsPH > 0 {
			r.ProfitPerAction = r.ProfitPH / r.ActionsPH
		}
	}
	b.result = &r
	return r
}

// ask and bid build entries priced from the resolver, carrying the manual flag
func (b *base) ask(hrid string, level int, count float64) Entry {
	res := b.env.Prices.Resolve(hrid, level)
	price, manual := res.Price(market.Ask)
	return Entry{Hrid: hrid, Level: level, Count: count, MarketPrice: price, Manual: manual}
}

func (b *base) bid(hrid string, level int, count, rate float64) Entry {
	res := b.env.Prices.Resolve(hrid, level)
	price, manual := res.Price(market.Bid)
	return Entry{Hrid: hrid, Level: level, Count: count, Rate: rate, MarketPrice: price, Manual: manual}
}

// fixed builds an entry whose price is derived from game rules rather than the market
func fixed(hrid string, count, price float64) Entry {
	return Entry{Hrid: hrid, Count: count, MarketPrice: price}
}

// teas returns one ingredient per active drink, amortized over the actions of an hour
func (b *base) teas() []Entry {
	consume := b.consumePH()
	if consume <= 0 {
		return nil
	}
	perHour := b.buffs.TeasPerHour()
	out := make([]Entry, 0, len(b.buffs.Teas))
	for _, hrid := range b.buffs.Teas {
		out = append(out, b.ask(hrid, 0, perHour/consume))
	}
	return out
}

// dropBand turns a secondary drop table into products scaled by a find ratio.
// divisor spreads the drop over successful actions only.
func (b *base) dropBand(drops []gamedata.DropTableItem, ratio, divisor float64, maxCount bool) []Entry {
	out := make([]Entry, 0, len(drops))
	for _, d := range drops {
		count := d.AverageCount()
		if maxCount {
			count = d.MaxCount
		}
		if divisor > 0 {
			count /= divisor
		}
		out = append(out, b.bid(d.ItemHrid, 0, count, d.DropRate*(1+ratio)))
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
