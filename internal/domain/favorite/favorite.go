package favorite

import (
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

// Favorite is a calculator configuration the player bookmarked
type Favorite struct {
	id        string
	item      calculator.StorageItem
	createdAt time.Time
}

// NewFavorite creates a favorite from a flattened calculator
func NewFavorite(id string, item calculator.StorageItem, createdAt time.Time) (*Favorite, error) {
	if id == "" {
		return nil, ErrInvalidFavorite
	}
	if item.Config == nil && len(item.Stages) == 0 {
		return nil, ErrInvalidFavorite
	}
	return &Favorite{id: id, item: item, createdAt: createdAt}, nil
}

func (f *Favorite) ID() string                   { return f.id }
func (f *Favorite) Item() calculator.StorageItem { return f.item }
func (f *Favorite) CreatedAt() time.Time         { return f.createdAt }

// Key identifies the bookmarked configuration; two favorites with the same key are duplicates
func (f *Favorite) Key() string {
	return f.item.Key()
}
