package calculator

import (
	"math"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
)

// netEpsilon is the residual below which a netted entry is dropped
const netEpsilon = 1e-8

// Workflow chains calculators where each stage consumes the previous stage's product.
// Intermediate goods are priced at zero and stage throughput is balanced by multipliers
// that sum to 1, so the hourly figures describe one hour split across all stages.
// The final stage may be split into branches that each take one level of the
// last trunk stage's product.
type Workflow struct {
	env     Env
	project string
	configs []Config
	stages  []Calculator
	trunk   int

	multipliers func() []float64
	hourly      func() Hourly
	netted      func() [2][]PricedEntry

	mu     sync.Mutex
	result *Result
}

// NewWorkflow builds the stages of a workflow. Every stage after the first gets its
// leading ingredient for free, and every stage but the last gives its products away.
func NewWorkflow(env Env, configs []Config, project string) (*Workflow, error) {
	return NewBranchedWorkflow(env, configs, nil, project)
}

// NewBranchedWorkflow is NewWorkflow with the final stage split into branches.
// The last trunk stage gives away its first len(branches) products and every
// branch gets its leading ingredient for free.
func NewBranchedWorkflow(env Env, configs, branches []Config, project string) (*Workflow, error) {
	if len(configs) == 0 {
		return nil, ErrEmptyWorkflow
	}

	w := &Workflow{env: env, project: project, trunk: len(configs)}
	last := len(configs) - 1
	for i, cfg := range configs {
		cfg = cfg.Clone()
		if i > 0 {
			cfg.IngredientPrices = withPriceAt(cfg.IngredientPrices, 0, ZeroPrice(configs[i-1].Hrid))
		}
		if i == last && len(branches) > 0 && len(cfg.ProductPrices) == 0 {
			for k := range branches {
				cfg.ProductPrices = withPriceAt(cfg.ProductPrices, k, ZeroPrice(cfg.Hrid))
			}
		} else if i < last && len(cfg.ProductPrices) == 0 {
			cfg.ProductPrices = []*PriceConfig{ZeroPrice(cfg.Hrid)}
		}

		stage, err := New(env, cfg)
		if err != nil {
			return nil, err
		}
		if i > 0 && stage.Available() {
			if rewritten, changed := zeroRepeatedInput(cfg, stage.Ingredients()); changed {
				if stage, err = New(env, rewritten); err != nil {
					return nil, err
				}
				cfg = rewritten
			}
		}
		w.configs = append(w.configs, cfg)
		w.stages = append(w.stages, stage)
	}

	head := configs[last].Hrid
	for _, cfg := range branches {
		cfg = cfg.Clone()
		cfg.IngredientPrices = withPriceAt(cfg.IngredientPrices, 0, ZeroPrice(head))
		stage, err := New(env, cfg)
		if err != nil {
			return nil, err
		}
		w.configs = append(w.configs, cfg)
		w.stages = append(w.stages, stage)
	}

	w.multipliers = sync.OnceValue(w.computeMultipliers)
	w.hourly = sync.OnceValue(w.computeHourly)
	w.netted = sync.OnceValue(func() [2][]PricedEntry {
		ing, prod := Net(w.scaledList(Calculator.PricedIngredients), w.scaledList(Calculator.PricedProducts))
		return [2][]PricedEntry{ing, prod}
	})
	return w, nil
}

// zeroRepeatedInput frees every later ingredient equal to the leading one by hrid and level
func zeroRepeatedInput(cfg Config, ingredients []Entry) (Config, bool) {
	if len(ingredients) == 0 {
		return cfg, false
	}
	head := ingredients[0]
	changed := false
	for k := 1; k < len(ingredients); k++ {
		if ingredients[k].Hrid == head.Hrid && ingredients[k].Level == head.Level {
			cfg.IngredientPrices = withPriceAt(cfg.IngredientPrices, k, ZeroPrice(head.Hrid))
			changed = true
		}
	}
	return cfg, changed
}

// Stages returns the calculators of every stage in order, branches last
func (w *Workflow) Stages() []Calculator {
	return append([]Calculator(nil), w.stages...)
}

// StageConfigs returns the trunk configs as given to New, price rewrites included
func (w *Workflow) StageConfigs() []Config {
	return cloneConfigs(w.configs[:w.trunk])
}

// BranchConfigs returns the configs of the final branches, nil for a linear workflow
func (w *Workflow) BranchConfigs() []Config {
	if w.trunk == len(w.configs) {
		return nil
	}
	return cloneConfigs(w.configs[w.trunk:])
}

func cloneConfigs(configs []Config) []Config {
	out := make([]Config, len(configs))
	for i, cfg := range configs {
		out[i] = cfg.Clone()
	}
	return out
}

// lastStage names the workflow: the first branch, or the last trunk stage
func (w *Workflow) lastStage() Calculator {
	if w.trunk < len(w.stages) {
		return w.stages[w.trunk]
	}
	return w.stages[w.trunk-1]
}

// Multipliers returns the share of the hour spent on each stage, or nil when unavailable
func (w *Workflow) Multipliers() []float64 {
	m := w.multipliers()
	if m == nil {
		return nil
	}
	return append([]float64(nil), m...)
}

func (w *Workflow) computeMultipliers() []float64 {
	for _, stage := range w.stages {
		if !stage.Available() {
			return nil
		}
	}

	ms := make([]float64, len(w.stages))
	ms[0] = 1
	for i := 1; i < len(w.stages); i++ {
		prev := i - 1
		var ratio float64
		if i < w.trunk {
			ratio = stageRatio(w.stages[prev], w.stages[i])
		} else {
			prev = w.trunk - 1
			ratio = branchRatio(w.stages[prev], w.stages[i])
		}
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
			return nil
		}
		ms[i] = ms[prev] * ratio
	}

	var sum float64
	for _, m := range ms {
		sum += m
	}
	for i := range ms {
		ms[i] /= sum
	}
	return ms
}

// stageRatio is how many hours of next one hour of cur keeps busy
func stageRatio(cur, next Calculator) float64 {
	hrid := cur.Hrid()
	var produced float64
	for _, p := range cur.PricedProducts() {
		if p.Hrid == hrid {
			produced = p.CountPH
			break
		}
	}
	var needed float64
	for _, in := range next.PricedIngredients() {
		if in.Hrid == hrid {
			needed += in.CountPH
		}
	}
	if needed == 0 {
		return math.NaN()
	}
	return produced / needed
}

// branchRatio matches the branch's leading ingredient by item and level
func branchRatio(cur, branch Calculator) float64 {
	ingredients := branch.PricedIngredients()
	if len(ingredients) == 0 {
		return math.NaN()
	}
	head := ingredients[0].Key()
	var produced float64
	for _, p := range cur.PricedProducts() {
		if p.Key() == head {
			produced = p.CountPH
			break
		}
	}
	var needed float64
	for _, in := range ingredients {
		if in.Key() == head {
			needed += in.CountPH
		}
	}
	if needed == 0 {
		return math.NaN()
	}
	return produced / needed
}

func (w *Workflow) computeHourly() Hourly {
	ms := w.multipliers()
	if ms == nil {
		return Hourly{}
	}
	var h Hourly
	for i, stage := range w.stages {
		s := stage.Hourly().scale(ms[i])
		h.CostPH += s.CostPH
		h.IncomePH += s.IncomePH
		h.ProfitPH += s.ProfitPH
	}
	h.ActionsPH = ActionsPerHour(w.TimeCost(), 1)
	h.ConsumePH = h.ActionsPH
	h.GainPH = h.ActionsPH
	h.ProfitRate = profitRate(h.ProfitPH, h.CostPH)
	return h
}

// scaledList gathers one list of every stage with hourly quantities scaled by the multipliers
func (w *Workflow) scaledList(get func(Calculator) []PricedEntry) []PricedEntry {
	ms := w.multipliers()
	if ms == nil {
		return nil
	}
	var out []PricedEntry
	for i, stage := range w.stages {
		for _, e := range get(stage) {
			e.Count *= ms[i]
			e.CounterCount *= ms[i]
			e.CountPH *= ms[i]
			e.CounterCountPH *= ms[i]
			out = append(out, e)
		}
	}
	return out
}

// Net merges both lists by item and level, then cancels what one stage produces
// and another consumes. Residuals at or below 1e-8 per hour are dropped.
func Net(ingredients, products []PricedEntry) ([]PricedEntry, []PricedEntry) {
	ing := mergeEntries(ingredients)
	prod := mergeEntries(products)

	index := make(map[string]int, len(prod))
	for i, p := range prod {
		index[p.Key()] = i
	}
	for i := range ing {
		j, ok := index[ing[i].Key()]
		if !ok {
			continue
		}
		overlap := math.Min(ing[i].CountPH, prod[j].CountPH)
		reduce(&ing[i], overlap)
		reduce(&prod[j], overlap)
	}
	return keepPositive(ing), keepPositive(prod)
}

func mergeEntries(list []PricedEntry) []PricedEntry {
	var out []PricedEntry
	index := make(map[string]int)
	for _, e := range list {
		if i, ok := index[e.Key()]; ok {
			out[i].Count += e.Count
			out[i].CounterCount += e.CounterCount
			out[i].CountPH += e.CountPH
			out[i].CounterCountPH += e.CounterCountPH
			continue
		}
		index[e.Key()] = len(out)
		out = append(out, e)
	}
	return out
}

// reduce lowers the hourly count by amount and the per-action count in proportion
func reduce(e *PricedEntry, amount float64) {
	if e.CountPH <= 0 {
		return
	}
	e.Count *= (e.CountPH - amount) / e.CountPH
	e.CountPH -= amount
}

func keepPositive(list []PricedEntry) []PricedEntry {
	out := make([]PricedEntry, 0, len(list))
	for _, e := range list {
		if e.CountPH > netEpsilon {
			out = append(out, e)
		}
	}
	return out
}

func (w *Workflow) ID() string {
	return BuildID(w.lastStage().Hrid(), w.Project(), w.Action())
}

func (w *Workflow) Kind() Kind           { return KindWorkflow }
func (w *Workflow) Item() *gamedata.Item { return w.lastStage().Item() }
func (w *Workflow) Hrid() string         { return w.lastStage().Hrid() }
func (w *Workflow) Action() string       { return w.lastStage().Action() }
func (w *Workflow) SuccessRate() float64 { return 1 }
func (w *Workflow) Hourly() Hourly       { return w.hourly() }

func (w *Workflow) Config() Config {
	return Config{Kind: KindWorkflow, Hrid: w.Hrid(), Project: w.Project(), EscapeLevel: NoEscape}
}

func (w *Workflow) Project() string {
	if w.project != "" {
		return w.project
	}
	return defaultProjects[KindWorkflow]
}

func (w *Workflow) PricedIngredients() []PricedEntry { return w.netted()[0] }
func (w *Workflow) PricedProducts() []PricedEntry    { return w.netted()[1] }

func (w *Workflow) Ingredients() []Entry {
	return entriesOf(w.PricedIngredients())
}

func (w *Workflow) Products() []Entry {
	return entriesOf(w.PricedProducts())
}

func entriesOf(list []PricedEntry) []Entry {
	out := make([]Entry, len(list))
	for i, p := range list {
		out[i] = p.Entry
	}
	return out
}

// TimeCost is the first stage's time cost stretched by its share of the hour
func (w *Workflow) TimeCost() float64 {
	ms := w.multipliers()
	if ms == nil || ms[0] <= 0 {
		return 0
	}
	return w.stages[0].TimeCost() / ms[0]
}

func (w *Workflow) Efficiency() float64 {
	return 1
}

func (w *Workflow) ActionLevel() int {
	level := 0
	for _, stage := range w.stages {
		level = max(level, stage.ActionLevel())
	}
	return level
}

func (w *Workflow) Available() bool {
	return w.multipliers() != nil
}

func (w *Workflow) HasManualPrice() bool {
	for _, stage := range w.stages {
		if stage.HasManualPrice() {
			return true
		}
	}
	return false
}

// ProfitPerAction is the profit per action of the last trunk stage, or per finished
// item when that stage is an enhancement
func (w *Workflow) ProfitPerAction() float64 {
	ms := w.multipliers()
	if ms == nil {
		return 0
	}
	last := w.stages[w.trunk-1]
	actions := last.Hourly().ActionsPH * ms[w.trunk-1]
	if actions <= 0 {
		return 0
	}
	perAction := w.Hourly().ProfitPH / actions
	if enh, ok := last.(*Enhance); ok {
		if result, err := enh.Enhancelate(); err == nil {
			perAction *= result.Actions
		}
	}
	return perAction
}

// Risk is the enhancement loss relative to the workflow profit. Without escape the loss
// is the protection spend of the final enhancements; with escape it is the cost of the
// whole workflow less the escaped items sold. Workflows without an enhance stage carry no risk.
func (w *Workflow) Risk() float64 {
	ms := w.multipliers()
	if ms == nil {
		return 0
	}
	final := w.finalEnhancements()
	if len(final) == 0 {
		return 0
	}
	escape := w.stages[final[0]].(*Enhance).cfg.EscapeLevel != NoEscape
	var loss float64
	if escape {
		loss = w.Hourly().CostPH
	}
	for _, i := range final {
		enh := w.stages[i].(*Enhance)
		if escape {
			loss -= enh.EscapeIncomePerHour() * ms[i]
		} else {
			loss += enh.ProtectionCostPerHour() * ms[i]
		}
	}
	return riskOf(loss, w.Hourly().ProfitPH)
}

// finalEnhancements indexes the enhance branches, or else the last enhance stage of the trunk
func (w *Workflow) finalEnhancements() []int {
	var out []int
	for i := w.trunk; i < len(w.stages); i++ {
		if _, ok := w.stages[i].(*Enhance); ok {
			out = append(out, i)
		}
	}
	if len(out) > 0 {
		return out
	}
	for i := w.trunk - 1; i >= 0; i-- {
		if _, ok := w.stages[i].(*Enhance); ok {
			return []int{i}
		}
	}
	return nil
}

// Run materializes the workflow result once
func (w *Workflow) Run() Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result != nil {
		return *w.result
	}
	r := Result{
		ID:          w.ID(),
		Kind:        KindWorkflow,
		Hrid:        w.Hrid(),
		Project:     w.Project(),
		Action:      w.Action(),
		Available:   w.Available(),
		SuccessRate: 1,
		Efficiency:  1,
		ActionLevel: w.ActionLevel(),
	}
	if item := w.Item(); item != nil {
		r.Name = item.Name
	}
	if r.Available {
		r.TimeCost = w.TimeCost()
		r.HasManualPrice = w.HasManualPrice()
		r.Hourly = w.Hourly()
		r.Risk = w.Risk()
		r.ProfitPerAction = w.ProfitPerAction()
		r.Multipliers = w.Multipliers()
	}
	w.result = &r
	return r
}
