package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/domain/favorite"
)

// MockFavoriteRepository is an in-memory favorite.Repository
type MockFavoriteRepository struct {
	mu        sync.RWMutex
	favorites []*favorite.Favorite
	ListErr   error
}

// NewMockFavoriteRepository creates an empty mock favorite repository
func NewMockFavoriteRepository() *MockFavoriteRepository {
	return &MockFavoriteRepository{}
}

// Add stores a favorite unless its configuration is already stored
func (m *MockFavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.favorites {
		if existing.Key() == f.Key() {
			return favorite.ErrDuplicateFavorite
		}
	}
	m.favorites = append(m.favorites, f)
	return nil
}

// Delete removes a favorite by id
func (m *MockFavoriteRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.favorites {
		if existing.ID() == id {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}
	return favorite.ErrFavoriteNotFound
}

// List returns the favorites in insertion order
func (m *MockFavoriteRepository) List(ctx context.Context) ([]*favorite.Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]*favorite.Favorite(nil), m.favorites...), nil
}
