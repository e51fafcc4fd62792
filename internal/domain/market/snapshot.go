package market

import (
	"sort"
	"time"
)

// Snapshot is an immutable view of the market at a point in time, keyed by item name and enhancement level.
type Snapshot struct {
	quotes    map[string]map[int]Quote
	updatedAt time.Time
}

// NewSnapshot creates a new Snapshot with validation
func NewSnapshot(quotes map[string]map[int]Quote, updatedAt time.Time) (*Snapshot, error) {
	if len(quotes) == 0 {
		return nil, ErrEmptyMarket
	}

	if updatedAt.IsZero() {
		return nil, ErrInvalidTimestamp
	}

	// Defensive copy so the snapshot cannot be mutated through the caller's maps
	copied := make(map[string]map[int]Quote, len(quotes))
	for name, levels := range quotes {
		if name == "" {
			return nil, ErrInvalidItemName
		}
		inner := make(map[int]Quote, len(levels))
		for level, quote := range levels {
			if level < 0 {
				return nil, ErrInvalidLevel
			}
			inner[level] = quote
		}
		copied[name] = inner
	}

	return &Snapshot{quotes: copied, updatedAt: updatedAt}, nil
}

// Quote returns the quote for an item name at an enhancement level
func (s *Snapshot) Quote(name string, level int) (Quote, bool) {
	levels, ok := s.quotes[name]
	if !ok {
		return UnavailableQuote(), false
	}
	quote, ok := levels[level]
	if !ok {
		return UnavailableQuote(), false
	}
	return quote, true
}

// Levels returns the enhancement levels quoted for an item, ascending
func (s *Snapshot) Levels(name string) []int {
	levels := make([]int, 0, len(s.quotes[name]))
	for level := range s.quotes[name] {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Names returns every quoted item name, sorted
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.quotes))
	for name := range s.quotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of every quote
func (s *Snapshot) All() map[string]map[int]Quote {
	out := make(map[string]map[int]Quote, len(s.quotes))
	for name, levels := range s.quotes {
		inner := make(map[int]Quote, len(levels))
		for level, quote := range levels {
			inner[level] = quote
		}
		out[name] = inner
	}
	return out
}

func (s *Snapshot) UpdatedAt() time.Time {
	return s.updatedAt
}

// Len returns the number of quoted items
func (s *Snapshot) Len() int {
	return len(s.quotes)
}

// IsStale reports whether the snapshot is older than maxAge at the given instant
func (s *Snapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.updatedAt) > maxAge
}
