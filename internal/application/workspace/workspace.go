package workspace

import (
	"errors"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

// ErrNotLoaded is returned when a calculation is requested before both snapshots are loaded
var ErrNotLoaded = errors.New("game data and market snapshots are not loaded")

// Workspace holds the reference data, the player profile and the manual prices every
// calculation reads. Any change bumps the generation and clears the dependent caches.
type Workspace struct {
	mu         sync.RWMutex
	catalog    *gamedata.Snapshot
	quotes     *market.Snapshot
	profile    *player.Profile
	overrides  *pricing.OverrideSet
	resolver   *pricing.Resolver
	markov     *calculator.MarkovCache
	generation uint64
	listeners  []func(generation uint64)
}

// New creates an empty workspace for the given profile
func New(profile *player.Profile) *Workspace {
	if profile == nil {
		profile = player.DefaultProfile()
	}
	return &Workspace{
		profile:   profile,
		overrides: pricing.NewOverrideSet(nil),
		markov:    calculator.NewMarkovCache(),
	}
}

// OnInvalidate registers a callback run after every change
func (w *Workspace) OnInvalidate(fn func(generation uint64)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Env returns the calculator environment for the current state
func (w *Workspace) Env() (calculator.Env, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.catalog == nil || w.quotes == nil {
		return calculator.Env{}, ErrNotLoaded
	}
	return calculator.Env{
		Catalog: w.catalog,
		Prices:  w.resolver,
		Player:  w.profile,
		Markov:  w.markov,
	}, nil
}

// Loaded reports whether both snapshots are present
func (w *Workspace) Loaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.catalog != nil && w.quotes != nil
}

func (w *Workspace) Catalog() *gamedata.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.catalog
}

func (w *Workspace) Market() *market.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.quotes
}

func (w *Workspace) Profile() *player.Profile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.profile
}

// Overrides lists the manual prices; mutate them through SetOverride and DeleteOverride
func (w *Workspace) Overrides() []pricing.Override {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.overrides.List()
}

func (w *Workspace) OverridesActive() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.overrides.Active()
}

func (w *Workspace) MarkovCache() *calculator.MarkovCache {
	return w.markov
}

// Generation increases on every change to the inputs of a calculation
func (w *Workspace) Generation() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.generation
}

// SetSnapshots swaps both reference snapshots
func (w *Workspace) SetSnapshots(catalog *gamedata.Snapshot, quotes *market.Snapshot) {
	w.update(func() {
		w.catalog = catalog
		w.quotes = quotes
	})
}

// SetProfile replaces the player profile
func (w *Workspace) SetProfile(profile *player.Profile) {
	w.update(func() { w.profile = profile })
}

// LoadOverrides replaces every manual price
func (w *Workspace) LoadOverrides(overrides []pricing.Override) {
	w.update(func() {
		active := w.overrides.Active()
		w.overrides = pricing.NewOverrideSet(overrides)
		w.overrides.SetActive(active)
	})
}

func (w *Workspace) SetOverride(o pricing.Override) {
	w.update(func() { w.overrides.Put(o) })
}

// DeleteOverride removes a manual price and reports whether it existed
func (w *Workspace) DeleteOverride(hrid string, level int) bool {
	var existed bool
	w.update(func() { existed = w.overrides.Delete(hrid, level) })
	return existed
}

// SetOverridesActive toggles whether manual prices are applied at all
func (w *Workspace) SetOverridesActive(active bool) {
	w.update(func() { w.overrides.SetActive(active) })
}

// update applies a change, rebuilds the price resolver and notifies listeners
func (w *Workspace) update(change func()) {
	w.mu.Lock()
	change()
	if w.catalog != nil && w.quotes != nil {
		w.resolver = pricing.NewResolver(w.catalog, w.quotes, w.overrides)
	}
	w.markov.Invalidate()
	w.generation++
	generation := w.generation
	listeners := append([]func(uint64){}, w.listeners...)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(generation)
	}
}
