package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/domain/pricing"
)

type overrideKey struct {
	hrid  string
	level int
}

// MockPriceOverrideRepository is an in-memory pricing.OverrideRepository
type MockPriceOverrideRepository struct {
	mu        sync.RWMutex
	overrides map[overrideKey]pricing.Override
	SaveErr   error
}

// NewMockPriceOverrideRepository creates an empty mock override repository
func NewMockPriceOverrideRepository() *MockPriceOverrideRepository {
	return &MockPriceOverrideRepository{overrides: make(map[overrideKey]pricing.Override)}
}

// Save creates or replaces an override
func (m *MockPriceOverrideRepository) Save(ctx context.Context, o pricing.Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.overrides[overrideKey{o.Hrid, o.Level}] = o
	return nil
}

// Delete removes an override
func (m *MockPriceOverrideRepository) Delete(ctx context.Context, hrid string, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := overrideKey{hrid, level}
	if _, ok := m.overrides[key]; !ok {
		return pricing.ErrOverrideNotFound
	}
	delete(m.overrides, key)
	return nil
}

// List returns the overrides ordered by item and level
func (m *MockPriceOverrideRepository) List(ctx context.Context) ([]pricing.Override, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pricing.Override, 0, len(m.overrides))
	for _, o := range m.overrides {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hrid != out[j].Hrid {
			return out[i].Hrid < out[j].Hrid
		}
		return out[i].Level < out[j].Level
	})
	return out, nil
}
