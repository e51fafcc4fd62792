package pricing

import (
	"sort"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/domain/market"
)

// ManualPrice is one side of a user override; it applies only when Manual is set
type ManualPrice struct {
	Manual bool    `json:"manual"`
	Price  float64 `json:"price"`
}

// Override is a user-entered price for an item at an enhancement level
type Override struct {
	Hrid  string      `json:"hrid"`
	Level int         `json:"level"`
	Ask   ManualPrice `json:"ask"`
	Bid   ManualPrice `json:"bid"`
}

// Side returns the override for the ask or bid side
func (o Override) Side(side market.Side) ManualPrice {
	if side == market.Bid {
		return o.Bid
	}
	return o.Ask
}

// OverrideSource supplies manual prices layered on top of the market
type OverrideSource interface {
	Override(hrid string, level int) (Override, bool)
	Active() bool
}

type overrideKey struct {
	hrid  string
	level int
}

// OverrideSet is an in-memory OverrideSource
type OverrideSet struct {
	mu        sync.RWMutex
	overrides map[overrideKey]Override
	active    bool
}

// NewOverrideSet creates an active set holding the given overrides
func NewOverrideSet(overrides []Override) *OverrideSet {
	set := &OverrideSet{overrides: make(map[overrideKey]Override, len(overrides)), active: true}
	for _, o := range overrides {
		set.overrides[overrideKey{o.Hrid, o.Level}] = o
	}
	return set
}

func (s *OverrideSet) Override(hrid string, level int) (Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[overrideKey{hrid, level}]
	return o, ok
}

func (s *OverrideSet) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive switches every override on or off without discarding them
func (s *OverrideSet) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

// Put inserts or replaces an override
func (s *OverrideSet) Put(o Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[overrideKey{o.Hrid, o.Level}] = o
}

// Delete removes an override, reporting whether it existed
func (s *OverrideSet) Delete(hrid string, level int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := overrideKey{hrid, level}
	if _, ok := s.overrides[key]; !ok {
		return false
	}
	delete(s.overrides, key)
	return true
}

// List returns every override ordered by hrid then level
func (s *OverrideSet) List() []Override {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Override, 0, len(s.overrides))
	for _, o := range s.overrides {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hrid != out[j].Hrid {
			return out[i].Hrid < out[j].Hrid
		}
		return out[i].Level < out[j].Level
	})
	return out
}

// NoOverrides is an OverrideSource that never overrides
type NoOverrides struct{}

func (NoOverrides) Override(string, int) (Override, bool) { return Override{}, false }
func (NoOverrides) Active() bool                          { return false }
